package auth

import (
	"errors"
	"testing"
)

// ownedResource is a minimal Resource for policy tests.
type ownedResource struct {
	owner string
}

func (r ownedResource) ResourceOwner() string { return r.owner }

func TestCanAccess_AdminAlwaysPermitted(t *testing.T) {
	admin := &Principal{UserID: "usr-admin", Username: "root", Role: RoleAdmin}
	other := ownedResource{owner: "usr-alice"}

	for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
		if !CanAccess(admin, other, op) {
			t.Errorf("admin should be permitted %s on any resource", op)
		}
	}
}

func TestCanAccess_OwnerPermitted(t *testing.T) {
	alice := &Principal{UserID: "usr-alice", Username: "alice", Role: RoleUser}
	own := ownedResource{owner: "usr-alice"}

	for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
		if !CanAccess(alice, own, op) {
			t.Errorf("owner should be permitted %s on own resource", op)
		}
	}
}

func TestCanAccess_NonOwnerDenied(t *testing.T) {
	bob := &Principal{UserID: "usr-bob", Username: "bob", Role: RoleUser}
	aliceRes := ownedResource{owner: "usr-alice"}

	for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
		if CanAccess(bob, aliceRes, op) {
			t.Errorf("non-owner should be denied %s on another's resource", op)
		}
	}
}

func TestCanAccess_CreateNeedsOnlyAuthentication(t *testing.T) {
	user := &Principal{UserID: "usr-bob", Username: "bob", Role: RoleUser}

	// Ownership is assigned to the creator, not checked
	if !CanAccess(user, nil, OpCreate) {
		t.Error("any authenticated principal should be permitted create")
	}
}

func TestCanAccess_NilPrincipalDenied(t *testing.T) {
	res := ownedResource{owner: "usr-alice"}

	for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
		if CanAccess(nil, res, op) {
			t.Errorf("nil principal should be denied %s", op)
		}
	}
}

func TestAuthorize_DenialIsForbidden(t *testing.T) {
	bob := &Principal{UserID: "usr-bob", Username: "bob", Role: RoleUser}
	aliceRes := ownedResource{owner: "usr-alice"}

	err := Authorize(bob, aliceRes, OpDelete)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize() error = %v, want ErrForbidden", err)
	}

	// Forbidden is an authorisation failure, not an authentication one
	if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenMissing) {
		t.Error("ErrForbidden must stay distinct from authentication errors")
	}

	if err := Authorize(bob, ownedResource{owner: "usr-bob"}, OpDelete); err != nil {
		t.Errorf("Authorize() on own resource error = %v, want nil", err)
	}
}
