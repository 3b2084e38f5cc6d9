// Package identity carries the authenticated caller through the application
// layers as an explicit value. Services re-check authorization themselves
// instead of trusting transport middleware alone.
package identity

import "errors"

// Role values issued by the identity collaborator.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var (
	// ErrUnauthorized signals that no authenticated caller is present.
	ErrUnauthorized = errors.New("caller is not authenticated")
	// ErrForbidden signals an authenticated caller without the admin role.
	ErrForbidden = errors.New("caller lacks the admin role")
)

// Caller identifies the authenticated principal performing a request.
// The zero value means "anonymous".
type Caller struct {
	Subject string
	Role    string
}

// Authenticated reports whether the caller carries a subject.
func (c Caller) Authenticated() bool {
	return c.Subject != ""
}

// IsAdmin reports whether the caller carries the admin role claim.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// System returns a caller representing trusted in-process jobs such as the
// expiry sweeper and report tooling.
func System(subject string) Caller {
	return Caller{Subject: subject, Role: RoleAdmin}
}

// RequireAdmin is the precondition of every administrative operation:
// an unauthenticated caller is rejected before a caller with the wrong role.
func RequireAdmin(c Caller) error {
	if !c.Authenticated() {
		return ErrUnauthorized
	}
	if !c.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
