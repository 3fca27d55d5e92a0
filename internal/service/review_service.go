package service

import (
	"context"
	"fmt"

	"fixly/internal/api"
	"fixly/internal/domain"
	"fixly/internal/events"
	"fixly/internal/metrics"
	"fixly/internal/models"

	"github.com/rs/zerolog"
)

// ReviewService submits reviews and reads a provider's review stream.
// The trusted flag is re-checked at the submit boundary: whatever the
// draft went through, a rating below the threshold never carries a
// recommendation to the server.
type ReviewService struct {
	api      domain.ReviewAPI
	session  domain.Session
	views    domain.ViewStateRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReviewService(api domain.ReviewAPI, session domain.Session, views domain.ViewStateRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{
		api:      api,
		session:  session,
		views:    views,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Submit validates and sends the draft.
func (s *ReviewService) Submit(ctx context.Context, providerID string, draft models.ReviewDraft) (*models.Review, error) {
	if err := requireAuth(ctx, s.session, s.views, "provider:"+providerID, s.logger); err != nil {
		return nil, err
	}

	if draft.Rating < models.MinRating || draft.Rating > models.MaxRating {
		return nil, &api.ValidationError{
			Reason: "validation failed",
			Fields: map[string][]string{
				"rating": {fmt.Sprintf("Rating must be between %d and %d.", models.MinRating, models.MaxRating)},
			},
		}
	}

	review, err := s.api.SubmitReview(ctx, providerID, draft.Request())
	if err != nil {
		return nil, err
	}

	metrics.IncReviewSubmission()
	if s.eventBus != nil {
		payload := events.ReviewEventPayload{
			ProviderID: providerID,
			Rating:     review.Rating,
			IsTrusted:  review.IsTrusted,
		}
		if err := s.eventBus.PublishJSON(events.EventReviewSubmitted, payload); err != nil {
			s.logger.Error().Err(err).Str("provider_id", providerID).Msg("publish event error")
		}
	}
	return review, nil
}

// ProviderReviews returns the provider's reviews split by the viewer's
// trust network. A provider page without reviews yields two empty lists,
// never an error.
func (s *ReviewService) ProviderReviews(ctx context.Context, providerID string) (*models.ReviewBuckets, error) {
	detail, err := s.api.ProviderDetail(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if detail.Reviews == nil {
		return &models.ReviewBuckets{}, nil
	}
	return detail.Reviews, nil
}

// IsOwnReview reports whether the review was written by the current user.
func (s *ReviewService) IsOwnReview(review models.Review) bool {
	user := s.session.Current()
	return user != nil && user.Username == review.Username
}

// TrustMessage renders the trust summary line. With no contact overlap
// the neutral phrasing is used; the server message is preferred when it
// sends one.
func TrustMessage(summary *models.TrustSummary) string {
	if summary == nil || summary.Count == 0 {
		return "No one in your network has used this provider yet."
	}
	if summary.Message != "" {
		return summary.Message
	}
	return fmt.Sprintf("Trusted by %d people in your network", summary.Count)
}
