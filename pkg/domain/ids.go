// Package domain defines typed identifiers shared across features.
// Distinct types keep a PostID from ever being passed where a UserID is
// expected; the compiler enforces what code review would otherwise have to.
package domain

import (
	"github.com/google/uuid"

	dErrors "hacklabconnect/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	CommunityID    uuid.UUID
	PostID         uuid.UUID
	CommentID      uuid.UUID
	ResourceID     uuid.UUID
	NotificationID uuid.UUID
	BadgeID        uuid.UUID
	ReportID       uuid.UUID
	SessionID      uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id CommunityID) String() string    { return uuid.UUID(id).String() }
func (id PostID) String() string         { return uuid.UUID(id).String() }
func (id CommentID) String() string      { return uuid.UUID(id).String() }
func (id ResourceID) String() string     { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id BadgeID) String() string        { return uuid.UUID(id).String() }
func (id ReportID) String() string       { return uuid.UUID(id).String() }
func (id SessionID) String() string      { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IDs travel through JSON as canonical UUID strings. Unmarshal accepts any
// well-formed UUID; trust-boundary checks stay with the Parse helpers.

func (id UserID) MarshalText() ([]byte, error)         { return marshalUUID(uuid.UUID(id)) }
func (id CommunityID) MarshalText() ([]byte, error)    { return marshalUUID(uuid.UUID(id)) }
func (id PostID) MarshalText() ([]byte, error)         { return marshalUUID(uuid.UUID(id)) }
func (id CommentID) MarshalText() ([]byte, error)      { return marshalUUID(uuid.UUID(id)) }
func (id ResourceID) MarshalText() ([]byte, error)     { return marshalUUID(uuid.UUID(id)) }
func (id NotificationID) MarshalText() ([]byte, error) { return marshalUUID(uuid.UUID(id)) }
func (id BadgeID) MarshalText() ([]byte, error)        { return marshalUUID(uuid.UUID(id)) }
func (id ReportID) MarshalText() ([]byte, error)       { return marshalUUID(uuid.UUID(id)) }
func (id SessionID) MarshalText() ([]byte, error)      { return marshalUUID(uuid.UUID(id)) }

func (id *UserID) UnmarshalText(b []byte) error         { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *CommunityID) UnmarshalText(b []byte) error    { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *PostID) UnmarshalText(b []byte) error         { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *CommentID) UnmarshalText(b []byte) error      { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *ResourceID) UnmarshalText(b []byte) error     { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *NotificationID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *BadgeID) UnmarshalText(b []byte) error        { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *ReportID) UnmarshalText(b []byte) error       { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *SessionID) UnmarshalText(b []byte) error      { return unmarshalUUID((*uuid.UUID)(id), b) }

func marshalUUID(u uuid.UUID) ([]byte, error) { return []byte(u.String()), nil }

func unmarshalUUID(dst *uuid.UUID, b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Applied at every trust boundary before an ID enters the
// service layer.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be nil")
	}
	return parsed, nil
}

func ParseUserID(raw string) (UserID, error) {
	id, err := parseUUID(raw, "user")
	return UserID(id), err
}

func ParseCommunityID(raw string) (CommunityID, error) {
	id, err := parseUUID(raw, "community")
	return CommunityID(id), err
}

func ParsePostID(raw string) (PostID, error) {
	id, err := parseUUID(raw, "post")
	return PostID(id), err
}

func ParseCommentID(raw string) (CommentID, error) {
	id, err := parseUUID(raw, "comment")
	return CommentID(id), err
}

func ParseResourceID(raw string) (ResourceID, error) {
	id, err := parseUUID(raw, "resource")
	return ResourceID(id), err
}

func ParseNotificationID(raw string) (NotificationID, error) {
	id, err := parseUUID(raw, "notification")
	return NotificationID(id), err
}

func ParseReportID(raw string) (ReportID, error) {
	id, err := parseUUID(raw, "report")
	return ReportID(id), err
}

func ParseSessionID(raw string) (SessionID, error) {
	id, err := parseUUID(raw, "session")
	return SessionID(id), err
}
