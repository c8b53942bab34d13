package review

import (
	"context"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/models"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/posting"
)

// IdentityResolver supplies applicant display identity. Satisfied by
// users.Service; a nil resolver (or unknown subject) yields "N/A" fields,
// matching what reviewers see for incomplete profiles.
type IdentityResolver interface {
	GetBySub(ctx context.Context, sub string) (*models.User, error)
}

// Entry is one roster row: who applied, their resume reference (if any),
// the review status and when they applied.
type Entry struct {
	ApplicationID  string             `json:"id"`
	ApplicantSub   string             `json:"applicantSub"`
	ApplicantName  string             `json:"applicantName"`
	ApplicantEmail string             `json:"applicantEmail"`
	HasResume      bool               `json:"hasResume"`
	ResumeURL      string             `json:"resumeUrl,omitempty"`
	Status         application.Status `json:"status"`
	AppliedAt      time.Time          `json:"appliedAt"`
}

// Counts are the derived roster aggregates. Accepted+Rejected+Pending always
// equals Total; a missing status counts as pending.
type Counts struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// Roster is the assembled reviewer view for one posting.
type Roster struct {
	PostingID   string       `json:"postingId"`
	PostingKind posting.Kind `json:"postingKind"`
	Entries     []Entry      `json:"applications"`
	Counts      Counts       `json:"counts"`
}

// Build assembles the roster for a posting from its applications, in the
// order given. Nil applications are filtered defensively; every retained
// entry gets a normalized status before counting.
func Build(ctx context.Context, p *posting.Posting, apps []*application.Application, ids IdentityResolver) *Roster {
	r := &Roster{PostingID: p.ID, PostingKind: p.Kind, Entries: make([]Entry, 0, len(apps))}
	for _, a := range apps {
		if a == nil {
			continue
		}
		status := a.Status.Normalize()
		e := Entry{
			ApplicationID:  a.ID,
			ApplicantSub:   a.ApplicantSub,
			ApplicantName:  "N/A",
			ApplicantEmail: "N/A",
			HasResume:      a.HasResume(),
			ResumeURL:      a.ResumeURL,
			Status:         status,
			AppliedAt:      a.CreatedAt,
		}
		if ids != nil {
			if u, err := ids.GetBySub(ctx, a.ApplicantSub); err == nil && u != nil {
				if u.FullName != "" {
					e.ApplicantName = u.FullName
				}
				if u.Email != "" {
					e.ApplicantEmail = u.Email
				}
				// an applicant profile resume backfills older applications
				if !e.HasResume && u.Profile.ResumeURL != "" {
					e.HasResume = true
					e.ResumeURL = u.Profile.ResumeURL
				}
			}
		}
		r.Entries = append(r.Entries, e)
	}
	r.Counts = Recount(r.Entries)
	return r
}

// Recount derives the roster aggregates from the entries. It is the single
// counting implementation: Build uses it after assembly and the roster cache
// uses it after patching a status, so Accepted+Rejected+Pending == Total
// holds everywhere by construction.
func Recount(entries []Entry) Counts {
	var counts Counts
	for _, e := range entries {
		counts.Total++
		switch e.Status.Normalize() {
		case application.StatusAccepted:
			counts.Accepted++
		case application.StatusRejected:
			counts.Rejected++
		default:
			counts.Pending++
		}
	}
	return counts
}
