package session

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

// Session is the server-side record behind an issued token. Deleting the
// record revokes the token: resolution always checks the store, so a token
// outliving its session resolves to anonymous.
type Session struct {
	ID        id.SessionID
	UserID    id.UserID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the resolved caller of a request. The zero value is anonymous.
// Admin status is intentionally absent: it is a point-in-time store read done
// by the authorization gate, never a cached claim.
type Identity struct {
	UserID    id.UserID
	SessionID id.SessionID
	Anonymous bool
}

// Anonymous is the identity of a request with no usable credentials.
var Anonymous = Identity{Anonymous: true}
