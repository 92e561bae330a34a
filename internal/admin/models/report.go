package models

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Report is a member-filed complaint about a piece of content or a user.
// Subject is a free-form locator such as "post:<id>".
type Report struct {
	ID         id.ReportID `json:"id"`
	ReporterID id.UserID   `json:"reporterId"`
	Subject    string      `json:"subject"`
	Reason     string      `json:"reason"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	ResolvedAt *time.Time  `json:"resolvedAt,omitempty"`
	ResolvedBy *id.UserID  `json:"resolvedBy,omitempty"`
}
