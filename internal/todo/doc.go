// Package todo implements the task domain: CRUD over owned todo items
// with per-owner isolation enforced through the auth policy layer.
//
// Every service operation takes the calling principal and authorizes it
// against the target todo before touching storage. Ownership is bound to
// the immutable user ID at creation time and never changes afterwards,
// so renames and role changes cannot orphan or re-home existing items.
package todo
