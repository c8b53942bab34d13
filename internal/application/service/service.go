package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/application/repository"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/posting"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/logger"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/metrics"
)

var (
	ErrNotFound       = repository.ErrNotFound
	ErrAlreadyApplied = repository.ErrDuplicate
	ErrInvalidStatus  = errors.New("status must be Accepted or Rejected")
)

// TransitionRecorder receives a best-effort audit record for each committed
// status change. Implementations must not fail the transition.
type TransitionRecorder interface {
	RecordTransition(ctx context.Context, appID string, from, to application.Status, actorSub string)
}

// Service owns application submissions and the review status state machine.
type Service struct {
	repo     repository.Repository
	recorder TransitionRecorder
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// WithRecorder attaches an audit recorder for committed transitions.
func (s *Service) WithRecorder(r TransitionRecorder) *Service {
	s.recorder = r
	return s
}

// Apply creates a pending application for the given applicant and posting.
func (s *Service) Apply(ctx context.Context, applicantSub, resumeURL string, p *posting.Posting) (*application.Application, error) {
	app := &application.Application{
		ApplicantSub: applicantSub,
		PostingID:    p.ID,
		PostingKind:  p.Kind,
		ResumeURL:    resumeURL,
		Status:       application.StatusPending,
	}
	created, err := s.repo.Create(app)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*application.Application, error) {
	return s.repo.Get(id)
}

// ListByPosting returns the posting's applications in insertion order with
// statuses normalized, so callers never see a missing status.
func (s *Service) ListByPosting(ctx context.Context, postingID string) ([]*application.Application, error) {
	apps, err := s.repo.ListByPosting(postingID)
	if err != nil {
		return nil, err
	}
	out := make([]*application.Application, 0, len(apps))
	for _, a := range apps {
		if a == nil {
			continue
		}
		a.Status = a.Status.Normalize()
		out = append(out, a)
	}
	return out, nil
}

// Transition moves the application to the given target status token
// (case-insensitive "Accepted" or "Rejected") and returns the updated
// record. Re-issuing the current status is an idempotent success; the only
// failure paths are an unknown id and an unrecognized token.
func (s *Service) Transition(ctx context.Context, id, token, actorSub string) (*application.Application, error) {
	target, ok := application.ParseTarget(token)
	if !ok {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidStatus, token)
	}
	prev, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	from := prev.Status.Normalize()

	updated, err := s.repo.SetStatus(id, target)
	if err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(target)).Inc()
	if s.recorder != nil && from != target {
		s.recorder.RecordTransition(ctx, id, from, target, actorSub)
	}
	logger.Debugf("application %s status %s -> %s", id, from, target)
	return updated, nil
}
