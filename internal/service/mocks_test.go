package service

import (
	"context"

	"fixly/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockBookingAPI struct {
	mock.Mock
}

func (m *mockBookingAPI) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingAPI) ListBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockBookingAPI) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingAPI) ProviderBookings(ctx context.Context) (*models.ProviderBookings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProviderBookings), args.Error(1)
}
func (m *mockBookingAPI) AcceptBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingAPI) RejectBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingAPI) CompleteBooking(ctx context.Context, id string, completionNotes string) (*models.Booking, error) {
	args := m.Called(ctx, id, completionNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}
func (m *mockAuthAPI) ProviderRegister(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}
func (m *mockAuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}
func (m *mockAuthAPI) Profile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockDiscoveryAPI struct {
	mock.Mock
}

func (m *mockDiscoveryAPI) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *mockDiscoveryAPI) Providers(ctx context.Context, category, city string) ([]models.ProviderListing, error) {
	args := m.Called(ctx, category, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProviderListing), args.Error(1)
}
func (m *mockDiscoveryAPI) ProviderDetail(ctx context.Context, id string) (*models.ProviderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProviderDetail), args.Error(1)
}

type mockReviewAPI struct {
	mock.Mock
}

func (m *mockReviewAPI) SubmitReview(ctx context.Context, providerID string, req models.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, providerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *mockReviewAPI) ProviderDetail(ctx context.Context, id string) (*models.ProviderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProviderDetail), args.Error(1)
}

type mockProviderAPI struct {
	mock.Mock
}

func (m *mockProviderAPI) ProviderDashboard(ctx context.Context) (*models.ProviderDashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProviderDashboard), args.Error(1)
}
func (m *mockProviderAPI) ProviderProfile(ctx context.Context) (*models.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Provider), args.Error(1)
}
func (m *mockProviderAPI) UpdateProviderProfile(ctx context.Context, profile models.Provider) (*models.Provider, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Provider), args.Error(1)
}

// fakeSession is a minimal in-memory identity for service tests.
type fakeSession struct {
	user  *models.User
	token string
}

func (f *fakeSession) IsAuthenticated() bool { return f.user != nil }
func (f *fakeSession) Current() *models.User { return f.user }
func (f *fakeSession) AccessToken() string   { return f.token }
func (f *fakeSession) SessionKey() string {
	if f.user == nil {
		return "anonymous"
	}
	return f.user.Username
}
func (f *fakeSession) Login(user models.User, tokens models.Tokens) error {
	f.user = &user
	f.token = tokens.Access
	return nil
}
func (f *fakeSession) Logout(ctx context.Context) error {
	f.user = nil
	f.token = ""
	return nil
}
