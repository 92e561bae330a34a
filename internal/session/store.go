package session

import (
	"context"

	id "hacklabconnect/pkg/domain"
)

// Store persists session records. Implementations return
// sentinel.ErrNotFound for absent sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Find(ctx context.Context, sessionID id.SessionID) (*Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	// DeleteByUser removes every session of a user. Used when an admin
	// deletes the account.
	DeleteByUser(ctx context.Context, userID id.UserID) error
}
