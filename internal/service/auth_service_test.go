package service

import (
	"context"
	"testing"
	"time"

	"fixly/internal/api"
	"fixly/internal/models"
	"fixly/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *mockAuthAPI, *fakeSession, *repository.MemoryViewRepository) {
	t.Helper()

	apiMock := &mockAuthAPI{}
	sess := &fakeSession{}
	views := repository.NewMemoryViewRepository(time.Minute)
	logger := zerolog.Nop()

	return NewAuthService(apiMock, sess, views, &logger), apiMock, sess, views
}

func TestLoginRejectsEmptyFieldsLocally(t *testing.T) {
	svc, apiMock, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), models.LoginRequest{Username: "asha"})

	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")
	apiMock.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLoginInstallsIdentityAndConsumesRedirect(t *testing.T) {
	svc, apiMock, sess, views := newAuthFixture(t)

	// Гейт записал, куда вернуть пользователя после входа
	require.NoError(t, views.SetView(context.Background(), &models.ViewState{
		SessionKey:         "anonymous",
		City:               "Patiala",
		RedirectAfterLogin: "booking",
	}))

	req := models.LoginRequest{Username: "asha", Password: "secret123"}
	apiMock.On("Login", mock.Anything, req).Return(&models.AuthResponse{
		User:   models.User{ID: 1, Username: "asha"},
		Tokens: models.Tokens{Access: "acc", Refresh: "ref"},
	}, nil)

	user, redirect, err := svc.Login(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "asha", user.Username)
	assert.Equal(t, "booking", redirect)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "acc", sess.AccessToken())

	// Redirect одноразовый
	anonState, err := views.GetView(context.Background(), "anonymous")
	require.NoError(t, err)
	require.NotNil(t, anonState)
	assert.Empty(t, anonState.RedirectAfterLogin)
}

func TestLoginCarriesCitySelectionOver(t *testing.T) {
	svc, apiMock, _, views := newAuthFixture(t)

	require.NoError(t, views.SetView(context.Background(), &models.ViewState{
		SessionKey: "anonymous",
		City:       "Ludhiana",
	}))

	req := models.LoginRequest{Username: "asha", Password: "secret123"}
	apiMock.On("Login", mock.Anything, req).Return(&models.AuthResponse{
		User:   models.User{ID: 1, Username: "asha"},
		Tokens: models.Tokens{Access: "acc"},
	}, nil)

	_, _, err := svc.Login(context.Background(), req)
	require.NoError(t, err)

	state, err := views.GetView(context.Background(), "asha")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "Ludhiana", state.City)
}

func TestRegisterValidatesPasswordConfirmation(t *testing.T) {
	svc, apiMock, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username:    "asha",
		Password:    "secret123",
		Password2:   "different",
		PhoneNumber: "9876500000",
	})

	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password2")
	apiMock.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterLogsNewUserIn(t *testing.T) {
	svc, apiMock, sess, _ := newAuthFixture(t)

	req := models.RegisterRequest{
		Username:    "asha",
		Password:    "secret123",
		Password2:   "secret123",
		PhoneNumber: "9876500000",
	}
	apiMock.On("Register", mock.Anything, req).Return(&models.AuthResponse{
		User:   models.User{ID: 1, Username: "asha"},
		Tokens: models.Tokens{Access: "acc"},
	}, nil)

	user, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "asha", user.Username)
	assert.True(t, sess.IsAuthenticated())
}

func TestRegisterProviderUsesProviderEndpoint(t *testing.T) {
	svc, apiMock, _, _ := newAuthFixture(t)

	req := models.RegisterRequest{
		Username:    "fixitram",
		Password:    "secret123",
		Password2:   "secret123",
		PhoneNumber: "9876500001",
	}
	apiMock.On("ProviderRegister", mock.Anything, req).Return(&models.AuthResponse{
		User:   models.User{ID: 2, Username: "fixitram", IsProvider: true},
		Tokens: models.Tokens{Access: "acc"},
	}, nil)

	user, err := svc.RegisterProvider(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, user.IsProvider)
	apiMock.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestProfileRequiresAuth(t *testing.T) {
	svc, apiMock, _, _ := newAuthFixture(t)

	_, err := svc.Profile(context.Background())

	assert.True(t, api.IsAuth(err))
	apiMock.AssertNotCalled(t, "Profile", mock.Anything)
}
