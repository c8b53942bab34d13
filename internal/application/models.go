package application

import (
	"strings"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/posting"
)

// Status is the review state of an application. It is stored in lowercase
// canonical form; a missing value reads as pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Normalize lowercases s and maps the empty value to pending, so read sites
// never need to null-coalesce.
func (s Status) Normalize() Status {
	n := Status(strings.ToLower(strings.TrimSpace(string(s))))
	if n == "" {
		return StatusPending
	}
	return n
}

// ParseTarget normalizes an externally supplied status token and reports
// whether it names a state a reviewer may move an application to.
func ParseTarget(token string) (Status, bool) {
	s := Status(token).Normalize()
	if s == StatusAccepted || s == StatusRejected {
		return s, true
	}
	return "", false
}

// Application records one applicant's submission to one posting. Identity
// fields are immutable after creation; only Status changes, and only through
// the review service.
type Application struct {
	ID           string       `json:"id" bson:"id"`
	ApplicantSub string       `json:"applicantSub" bson:"applicantSub"`
	PostingID    string       `json:"postingId" bson:"postingId"`
	PostingKind  posting.Kind `json:"postingKind" bson:"postingKind"`
	ResumeURL    string       `json:"resumeUrl,omitempty" bson:"resumeUrl,omitempty"`
	Status       Status       `json:"status" bson:"status"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
}

// HasResume reports whether a resume document reference is attached.
func (a *Application) HasResume() bool { return a != nil && a.ResumeURL != "" }
