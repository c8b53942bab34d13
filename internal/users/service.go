package users

import (
	"context"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates a user using OIDC claims map
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:      sub,
		Email:    email,
		FullName: name,
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// SetResume attaches a validated resume document URL to the user profile.
func (s *Service) SetResume(ctx context.Context, sub, url string) error {
	return s.repo.SetProfileField(ctx, sub, "resumeUrl", url)
}

// SetProfilePhoto attaches a validated profile photo URL to the user profile.
func (s *Service) SetProfilePhoto(ctx context.Context, sub, url string) error {
	return s.repo.SetProfileField(ctx, sub, "photoUrl", url)
}
