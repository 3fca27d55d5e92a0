package service

import (
	"context"

	"fixly/internal/domain"
	"fixly/internal/models"

	"github.com/rs/zerolog"
)

// AuthService drives register, login and logout, and migrates per-session
// view state across the identity change.
type AuthService struct {
	api     domain.AuthAPI
	session domain.Session
	views   domain.ViewStateRepository
	logger  *zerolog.Logger
}

func NewAuthService(api domain.AuthAPI, session domain.Session, views domain.ViewStateRepository, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		api:     api,
		session: session,
		views:   views,
		logger:  logger,
	}
}

// Register creates a customer account and logs the new user in, matching
// the server's register-then-authenticate contract.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.register(ctx, req, false)
}

// RegisterProvider creates a provider account.
func (s *AuthService) RegisterProvider(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.register(ctx, req, true)
}

func (s *AuthService) register(ctx context.Context, req models.RegisterRequest, asProvider bool) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var (
		resp *models.AuthResponse
		err  error
	)
	if asProvider {
		resp, err = s.api.ProviderRegister(ctx, req)
	} else {
		resp, err = s.api.Register(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if err := s.adoptIdentity(ctx, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates and returns the recorded post-login destination, if
// a gated flow stashed one before redirecting to login.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, "", err
	}

	redirect := s.consumeRedirect(ctx)
	if err := s.adoptIdentity(ctx, resp); err != nil {
		return nil, "", err
	}
	return &resp.User, redirect, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// Profile returns the authenticated account, refreshed from the server.
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	if err := requireAuth(ctx, s.session, s.views, "profile", s.logger); err != nil {
		return nil, err
	}
	return s.api.Profile(ctx)
}

// adoptIdentity installs the identity and carries the anonymous city
// selection over to the new session key.
func (s *AuthService) adoptIdentity(ctx context.Context, resp *models.AuthResponse) error {
	var anonState *models.ViewState
	if s.views != nil {
		anonState, _ = s.views.GetView(ctx, s.session.SessionKey())
	}

	if err := s.session.Login(resp.User, resp.Tokens); err != nil {
		return err
	}

	if s.views != nil && anonState != nil && anonState.City != "" {
		key := s.session.SessionKey()
		state, _ := s.views.GetView(ctx, key)
		if state == nil {
			state = &models.ViewState{SessionKey: key}
		}
		if state.City == "" {
			state.City = anonState.City
			if err := s.views.SetView(ctx, state); err != nil {
				s.logger.Warn().Err(err).Str("session", key).Msg("failed to carry city selection over login")
			}
		}
	}
	return nil
}

// consumeRedirect reads and clears the pre-login destination.
func (s *AuthService) consumeRedirect(ctx context.Context) string {
	if s.views == nil {
		return ""
	}

	key := s.session.SessionKey()
	state, err := s.views.GetView(ctx, key)
	if err != nil || state == nil || state.RedirectAfterLogin == "" {
		return ""
	}

	redirect := state.RedirectAfterLogin
	state.RedirectAfterLogin = ""
	if err := s.views.SetView(ctx, state); err != nil {
		s.logger.Warn().Err(err).Str("session", key).Msg("failed to clear login redirect")
	}
	return redirect
}
