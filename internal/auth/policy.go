package auth

// Operation is a named action a principal may attempt on a resource.
type Operation string

// Operation constants.
const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Resource is anything the policy can gate. ResourceOwner returns the
// immutable ID of the owning account.
type Resource interface {
	ResourceOwner() string
}

// CanAccess decides whether a principal may perform an operation on a
// resource. It is a pure function of its three inputs: no I/O, no clock,
// no hidden state.
//
// Rules, first match wins:
//  1. admin → permitted, always
//  2. create → permitted for any authenticated principal
//     (ownership is assigned to the creator, not checked)
//  3. resource owned by the principal → permitted for read/update/delete
//  4. otherwise → denied
func CanAccess(p *Principal, res Resource, op Operation) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	if op == OpCreate {
		return true
	}
	if res == nil {
		return false
	}
	return res.ResourceOwner() == p.UserID
}

// Authorize wraps a denied CanAccess decision as ErrForbidden, keeping
// "logged in but not allowed" distinct from every authentication failure.
func Authorize(p *Principal, res Resource, op Operation) error {
	if !CanAccess(p, res, op) {
		return ErrForbidden
	}
	return nil
}
