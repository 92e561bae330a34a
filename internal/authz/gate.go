// Package authz is the single authorization gate. Every route declares one
// capability; the gate is the only code that compares an identity against
// it. The per-route "fetch user, check admin flag, branch" pattern is not
// allowed to exist anywhere else.
package authz

import (
	"context"

	"hacklabconnect/internal/session"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

// Capability names the authorization requirement of an operation, in
// increasing strictness.
type Capability int

const (
	// Public: anonymous callers allowed.
	Public Capability = iota
	// AuthenticatedAny: any resolved identity.
	AuthenticatedAny
	// OwnerOrAdmin: the owner of the addressed resource, or an admin.
	OwnerOrAdmin
	// AdminOnly: admins only.
	AdminOnly
)

// AdminChecker answers whether a user currently holds the admin flag. The
// check is a point-in-time store read on every call, never cached and never
// a token claim, so revoking admin rights takes effect on the next request.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID id.UserID) (bool, error)
}

// Gate evaluates capabilities against identities.
type Gate struct {
	admins AdminChecker
}

func NewGate(admins AdminChecker) *Gate {
	return &Gate{admins: admins}
}

// Authorize allows or rejects the operation. ownerID is consulted only for
// OwnerOrAdmin and may be zero otherwise. Rejections carry CodeUnauthorized
// for anonymous callers and CodeForbidden for authenticated ones.
func (g *Gate) Authorize(ctx context.Context, ident session.Identity, cap Capability, ownerID id.UserID) error {
	if cap == Public {
		return nil
	}

	if ident.Anonymous {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	switch cap {
	case AuthenticatedAny:
		return nil

	case OwnerOrAdmin:
		if ident.UserID == ownerID {
			return nil
		}
		admin, err := g.admins.IsAdmin(ctx, ident.UserID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "admin check")
		}
		if admin {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, "not the owner of this resource")

	case AdminOnly:
		admin, err := g.admins.IsAdmin(ctx, ident.UserID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "admin check")
		}
		if admin {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, "admin privileges required")
	}

	return dErrors.New(dErrors.CodeInternal, "unknown capability")
}
