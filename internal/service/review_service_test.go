package service

import (
	"context"
	"testing"
	"time"

	"fixly/internal/api"
	"fixly/internal/events"
	"fixly/internal/models"
	"fixly/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewFixture(t *testing.T, authed bool) (*ReviewService, *mockReviewAPI) {
	t.Helper()

	apiMock := &mockReviewAPI{}
	sess := &fakeSession{}
	if authed {
		sess.user = &models.User{ID: 1, Username: "asha"}
		sess.token = "tok"
	}
	views := repository.NewMemoryViewRepository(time.Minute)
	logger := zerolog.Nop()

	return NewReviewService(apiMock, sess, views, events.NewEventBus(), &logger), apiMock
}

func TestSubmitRequiresAuth(t *testing.T) {
	svc, apiMock := newReviewFixture(t, false)

	_, err := svc.Submit(context.Background(), "p1", models.ReviewDraft{Rating: 5})

	assert.True(t, api.IsAuth(err))
	apiMock.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitRejectsOutOfRangeRating(t *testing.T) {
	svc, apiMock := newReviewFixture(t, true)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), "p1", models.ReviewDraft{Rating: rating})
		var ve *api.ValidationError
		require.ErrorAs(t, err, &ve, "rating %d", rating)
		assert.Contains(t, ve.Fields, "rating")
	}
	apiMock.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSuppressesRecommendationBelowThreshold(t *testing.T) {
	svc, apiMock := newReviewFixture(t, true)

	// Пользователь поставил 5 и рекомендацию, потом снизил до 3
	draft := models.ReviewDraft{}
	draft.SetRating(5)
	draft.SetTrusted(true)
	draft.SetRating(3)

	apiMock.On("SubmitReview", mock.Anything, "p1", mock.MatchedBy(func(req models.ReviewRequest) bool {
		return req.Rating == 3 && !req.IsTrusted
	})).Return(&models.Review{ID: 7, Rating: 3}, nil)

	review, err := svc.Submit(context.Background(), "p1", draft)

	require.NoError(t, err)
	assert.Equal(t, int64(7), review.ID)
	apiMock.AssertExpectations(t)
}

func TestSubmitKeepsRecommendationAtThreshold(t *testing.T) {
	svc, apiMock := newReviewFixture(t, true)

	draft := models.ReviewDraft{}
	draft.SetRating(4)
	draft.SetTrusted(true)

	apiMock.On("SubmitReview", mock.Anything, "p1", mock.MatchedBy(func(req models.ReviewRequest) bool {
		return req.Rating == 4 && req.IsTrusted
	})).Return(&models.Review{ID: 8, Rating: 4, IsTrusted: true}, nil)

	_, err := svc.Submit(context.Background(), "p1", draft)

	require.NoError(t, err)
	apiMock.AssertExpectations(t)
}

func TestProviderReviewsDefaultsToEmptyBuckets(t *testing.T) {
	svc, apiMock := newReviewFixture(t, false)
	apiMock.On("ProviderDetail", mock.Anything, "p1").Return(&models.ProviderDetail{
		Provider: models.Provider{ID: "p1"},
	}, nil)

	buckets, err := svc.ProviderReviews(context.Background(), "p1")

	require.NoError(t, err)
	require.NotNil(t, buckets)
	assert.Empty(t, buckets.FromContacts)
	assert.Empty(t, buckets.FromOthers)
}

func TestIsOwnReview(t *testing.T) {
	svc, _ := newReviewFixture(t, true)

	assert.True(t, svc.IsOwnReview(models.Review{Username: "asha"}))
	assert.False(t, svc.IsOwnReview(models.Review{Username: "ravi"}))

	anon, _ := newReviewFixture(t, false)
	assert.False(t, anon.IsOwnReview(models.Review{Username: "asha"}))
}

func TestTrustMessage(t *testing.T) {
	assert.Contains(t, TrustMessage(nil), "No one")
	assert.Contains(t, TrustMessage(&models.TrustSummary{Count: 0}), "No one")
	assert.Equal(t, "Trusted by 2 of your contacts", TrustMessage(&models.TrustSummary{Count: 2, Message: "Trusted by 2 of your contacts"}))
	assert.Equal(t, "Trusted by 3 people in your network", TrustMessage(&models.TrustSummary{Count: 3}))
}
