package service

import (
	"context"

	"fixly/internal/domain"
	"fixly/internal/models"

	"github.com/rs/zerolog"
)

// DiscoveryService covers the anonymous browse surface: categories,
// provider listings and the per-session city selection.
type DiscoveryService struct {
	api         domain.DiscoveryAPI
	session     domain.Session
	views       domain.ViewStateRepository
	defaultCity string
	logger      *zerolog.Logger
}

func NewDiscoveryService(api domain.DiscoveryAPI, session domain.Session, views domain.ViewStateRepository, defaultCity string, logger *zerolog.Logger) *DiscoveryService {
	return &DiscoveryService{
		api:         api,
		session:     session,
		views:       views,
		defaultCity: defaultCity,
		logger:      logger,
	}
}

func (s *DiscoveryService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.api.Categories(ctx)
}

// Providers lists a category narrowed to the selected city. An empty
// result is a valid answer, not a failure; a result that arrives after
// the user left the listing is dropped.
func (s *DiscoveryService) Providers(ctx context.Context, category string) ([]models.ProviderListing, error) {
	city := s.SelectedCity(ctx)

	enterView(ctx, s.session, s.views, viewProviders, s.logger)
	providers, err := s.api.Providers(ctx, category, city)
	if err != nil {
		return nil, err
	}
	if !viewStillActive(ctx, s.session, s.views, viewProviders) {
		return nil, ErrStaleView
	}
	return providers, nil
}

func (s *DiscoveryService) ProviderDetail(ctx context.Context, id string) (*models.ProviderDetail, error) {
	return s.api.ProviderDetail(ctx, id)
}

// SelectedCity returns the session's city, falling back to the configured
// default when nothing was chosen yet or the state store is unavailable.
func (s *DiscoveryService) SelectedCity(ctx context.Context) string {
	if s.views == nil {
		return s.defaultCity
	}

	state, err := s.views.GetView(ctx, s.session.SessionKey())
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read view state, using default city")
		return s.defaultCity
	}
	if state == nil || state.City == "" {
		return s.defaultCity
	}
	return state.City
}

// ChangeCity records a new city selection for the session.
func (s *DiscoveryService) ChangeCity(ctx context.Context, city string) error {
	if s.views == nil {
		return nil
	}

	key := s.session.SessionKey()
	state, err := s.views.GetView(ctx, key)
	if err != nil || state == nil {
		state = &models.ViewState{SessionKey: key}
	}
	state.City = city
	return s.views.SetView(ctx, state)
}
