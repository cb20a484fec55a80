// Package authz defines the authorization hook. The user role is stored
// and returned but enforces nothing yet: the only Policy implementation
// allows every action, so enforcement can be added later without touching
// the data model or the handlers' call sites.
package authz

import "github.com/florinmsk/shop-api/internal/user"

// Policy decides whether a user may perform an action on a resource.
type Policy interface {
	Allows(u *user.User, action, resource string) bool
}

// AllowAll is the current policy: authentication is the only gate.
type AllowAll struct{}

func (AllowAll) Allows(*user.User, string, string) bool { return true }
