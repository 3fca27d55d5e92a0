package domain

import (
	"context"

	"fixly/internal/models"
)

// CredentialStore is the durable local storage for the authenticated
// identity. Only login and logout write to it.
type CredentialStore interface {
	Load() (*models.Credentials, error)
	Save(creds *models.Credentials) error
	Clear() error
}

// Session holds the current identity and gates every authenticated action.
type Session interface {
	IsAuthenticated() bool
	Current() *models.User
	AccessToken() string
	SessionKey() string
	Login(user models.User, tokens models.Tokens) error
	Logout(ctx context.Context) error
}

// ViewStateRepository stores per-session client state: selected city,
// the active view, and the post-login redirect destination.
type ViewStateRepository interface {
	GetView(ctx context.Context, key string) (*models.ViewState, error)
	SetView(ctx context.Context, state *models.ViewState) error
	ClearView(ctx context.Context, key string) error
}

type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	ProviderRegister(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)
}

type BookingAPI interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
	ProviderBookings(ctx context.Context) (*models.ProviderBookings, error)
	AcceptBooking(ctx context.Context, id string) (*models.Booking, error)
	RejectBooking(ctx context.Context, id string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, id string, completionNotes string) (*models.Booking, error)
}

type DiscoveryAPI interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Providers(ctx context.Context, category, city string) ([]models.ProviderListing, error)
	ProviderDetail(ctx context.Context, id string) (*models.ProviderDetail, error)
}

type ReviewAPI interface {
	SubmitReview(ctx context.Context, providerID string, req models.ReviewRequest) (*models.Review, error)
	ProviderDetail(ctx context.Context, id string) (*models.ProviderDetail, error)
}

type ProviderAPI interface {
	ProviderDashboard(ctx context.Context) (*models.ProviderDashboard, error)
	ProviderProfile(ctx context.Context) (*models.Provider, error)
	UpdateProviderProfile(ctx context.Context, profile models.Provider) (*models.Provider, error)
}

// EventPublisher fans booking and review events out to in-process
// observers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
