package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

// Claims are the JWT claims carried by a session token. The token only
// names the session; everything revocable lives in the store.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Service is the session resolver: it mints tokens on login and turns
// request credentials into an Identity. Absence of credentials is a normal
// outcome, not an error; only infrastructure failures return a non-nil
// error.
type Service struct {
	store         Store
	signingKey    []byte
	issuer        string
	ttl           time.Duration
	refreshWindow time.Duration
	now           func() time.Time
}

func NewService(store Store, signingKey string, ttl, refreshWindow time.Duration) *Service {
	return &Service{
		store:         store,
		signingKey:    []byte(signingKey),
		issuer:        "hacklab-connect",
		ttl:           ttl,
		refreshWindow: refreshWindow,
		now:           time.Now,
	}
}

// Issue creates a session for the user and returns its signed token.
func (s *Service) Issue(ctx context.Context, userID id.UserID) (*Session, string, error) {
	now := s.now()
	sess := &Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}

	token, err := s.sign(sess)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return sess, token, nil
}

// Resolve turns a raw token into an Identity. Missing, malformed, revoked,
// and stale tokens all resolve to Anonymous; the authorization gate decides
// whether anonymous is acceptable for the operation.
//
// When the session is inside the refresh window (close to expiry, or expired
// less than the window ago), Resolve rotates it: the old session is
// superseded and the returned rotated token must be written back to the
// response before the body.
func (s *Service) Resolve(ctx context.Context, token string) (Identity, string, error) {
	if token == "" {
		return Anonymous, "", nil
	}

	claims, expired, ok := s.parse(token)
	if !ok {
		return Anonymous, "", nil
	}

	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return Anonymous, "", nil
	}

	sess, err := s.store.Find(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Anonymous, "", nil
	}
	if err != nil {
		return Anonymous, "", dErrors.Wrap(err, dErrors.CodeInternal, "find session")
	}

	now := s.now()
	if expired || now.After(sess.ExpiresAt) {
		// Past expiry: only a rotation inside the grace window saves it.
		if now.After(sess.ExpiresAt.Add(s.refreshWindow)) {
			return Anonymous, "", nil
		}
		return s.rotate(ctx, sess)
	}

	ident := Identity{UserID: sess.UserID, SessionID: sess.ID}
	if sess.ExpiresAt.Sub(now) < s.refreshWindow {
		return s.rotate(ctx, sess)
	}
	return ident, "", nil
}

// Revoke deletes the session. Resolution of its token returns Anonymous
// from the next request on.
func (s *Service) Revoke(ctx context.Context, sessionID id.SessionID) error {
	err := s.store.Delete(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete session")
	}
	return nil
}

// RevokeUser deletes every session of a user.
func (s *Service) RevokeUser(ctx context.Context, userID id.UserID) error {
	if err := s.store.DeleteByUser(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete user sessions")
	}
	return nil
}

func (s *Service) rotate(ctx context.Context, old *Session) (Identity, string, error) {
	fresh, token, err := s.Issue(ctx, old.UserID)
	if err != nil {
		return Anonymous, "", err
	}
	// Best effort: a failed delete leaves the old session to age out.
	_ = s.store.Delete(ctx, old.ID)
	return Identity{UserID: fresh.UserID, SessionID: fresh.ID}, token, nil
}

func (s *Service) sign(sess *Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    sess.UserID.String(),
		SessionID: sess.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// parse validates the token signature. It reports expiry separately so the
// caller can attempt rotation; any other defect makes the token unusable.
func (s *Service) parse(token string) (claims *Claims, expiredOnly bool, ok bool) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, false, false
		}
		// Signature is valid, only the exp claim failed: reparse without
		// claim validation to recover the session reference for rotation.
		parsed, err = jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
			return s.signingKey, nil
		}, jwt.WithoutClaimsValidation())
		if err != nil {
			return nil, false, false
		}
		c, castOK := parsed.Claims.(*Claims)
		if !castOK {
			return nil, false, false
		}
		return c, true, true
	}

	c, castOK := parsed.Claims.(*Claims)
	if !castOK || !parsed.Valid {
		return nil, false, false
	}
	return c, false, true
}
