package service

import (
	"context"

	"fixly/internal/domain"
	"fixly/internal/models"

	"github.com/rs/zerolog"
)

// ProviderService serves the provider's own dashboard and profile.
type ProviderService struct {
	api     domain.ProviderAPI
	session domain.Session
	views   domain.ViewStateRepository
	logger  *zerolog.Logger
}

func NewProviderService(api domain.ProviderAPI, session domain.Session, views domain.ViewStateRepository, logger *zerolog.Logger) *ProviderService {
	return &ProviderService{
		api:     api,
		session: session,
		views:   views,
		logger:  logger,
	}
}

func (s *ProviderService) Dashboard(ctx context.Context) (*models.ProviderDashboard, error) {
	if err := requireAuth(ctx, s.session, s.views, "provider_dashboard", s.logger); err != nil {
		return nil, err
	}
	return s.api.ProviderDashboard(ctx)
}

func (s *ProviderService) Profile(ctx context.Context) (*models.Provider, error) {
	if err := requireAuth(ctx, s.session, s.views, "provider_profile", s.logger); err != nil {
		return nil, err
	}
	return s.api.ProviderProfile(ctx)
}

// UpdateProfile replaces the editable profile fields wholesale. Rating and
// review totals are server-owned and ignored on write.
func (s *ProviderService) UpdateProfile(ctx context.Context, profile models.Provider) (*models.Provider, error) {
	if err := requireAuth(ctx, s.session, s.views, "provider_profile", s.logger); err != nil {
		return nil, err
	}
	return s.api.UpdateProviderProfile(ctx, profile)
}
