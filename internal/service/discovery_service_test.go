package service

import (
	"context"
	"testing"
	"time"

	"fixly/internal/models"
	"fixly/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscoveryFixture(t *testing.T) (*DiscoveryService, *mockDiscoveryAPI, *repository.MemoryViewRepository) {
	t.Helper()

	apiMock := &mockDiscoveryAPI{}
	sess := &fakeSession{}
	views := repository.NewMemoryViewRepository(time.Minute)
	logger := zerolog.Nop()

	return NewDiscoveryService(apiMock, sess, views, "Patiala", &logger), apiMock, views
}

func TestSelectedCityFallsBackToDefault(t *testing.T) {
	svc, _, _ := newDiscoveryFixture(t)

	assert.Equal(t, "Patiala", svc.SelectedCity(context.Background()))
}

func TestChangeCityPersistsSelection(t *testing.T) {
	svc, _, _ := newDiscoveryFixture(t)

	require.NoError(t, svc.ChangeCity(context.Background(), "Ludhiana"))
	assert.Equal(t, "Ludhiana", svc.SelectedCity(context.Background()))
}

func TestProvidersUseSelectedCity(t *testing.T) {
	svc, apiMock, _ := newDiscoveryFixture(t)
	require.NoError(t, svc.ChangeCity(context.Background(), "Ludhiana"))

	apiMock.On("Providers", mock.Anything, "Plumber", "Ludhiana").Return([]models.ProviderListing{
		{Provider: models.Provider{ID: "p1", Name: "Ram"}},
	}, nil)

	providers, err := svc.Providers(context.Background(), "Plumber")

	require.NoError(t, err)
	require.Len(t, providers, 1)
	apiMock.AssertExpectations(t)
}

func TestEmptyListingIsNotAnError(t *testing.T) {
	svc, apiMock, _ := newDiscoveryFixture(t)
	apiMock.On("Providers", mock.Anything, "Electrician", "Patiala").Return([]models.ProviderListing{}, nil)

	providers, err := svc.Providers(context.Background(), "Electrician")

	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestStaleListingResultIsDropped(t *testing.T) {
	svc, apiMock, views := newDiscoveryFixture(t)

	apiMock.On("Providers", mock.Anything, "Plumber", "Patiala").Run(func(mock.Arguments) {
		_ = views.SetView(context.Background(), &models.ViewState{
			SessionKey: "anonymous",
			ActiveView: "bookings",
		})
	}).Return([]models.ProviderListing{{Provider: models.Provider{ID: "p1"}}}, nil)

	_, err := svc.Providers(context.Background(), "Plumber")

	assert.ErrorIs(t, err, ErrStaleView)
}

func TestCategoriesPassThrough(t *testing.T) {
	svc, apiMock, _ := newDiscoveryFixture(t)
	apiMock.On("Categories", mock.Anything).Return([]models.Category{{ID: 1, Name: "Plumber"}}, nil)

	categories, err := svc.Categories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Plumber", categories[0].Name)
}
