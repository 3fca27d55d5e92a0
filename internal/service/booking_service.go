package service

import (
	"context"
	"time"

	"fixly/internal/api"
	"fixly/internal/domain"
	"fixly/internal/events"
	"fixly/internal/lifecycle"
	"fixly/internal/metrics"
	"fixly/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle for both actors. Lifecycle
// guards run locally so an ineligible transition never issues a request;
// after an acknowledged mutation the affected list is re-fetched exactly
// once so the caller renders server truth, not a local guess.
type BookingService struct {
	api      domain.BookingAPI
	session  domain.Session
	views    domain.ViewStateRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(api domain.BookingAPI, session domain.Session, views domain.ViewStateRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		api:      api,
		session:  session,
		views:    views,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *BookingService) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := requireAuth(ctx, s.session, s.views, "booking", s.logger); err != nil {
		return nil, err
	}
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	booking, err := s.api.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, *booking, "customer")
	metrics.IncBookingTransition("create")
	return booking, nil
}

func (s *BookingService) validateCreate(req models.CreateBookingRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	if req.BookingDate.IsZero() {
		return &api.ValidationError{
			Reason: "validation failed",
			Fields: map[string][]string{"booking_date": {"This field is required."}},
		}
	}
	if req.BookingDate.Before(models.DateOf(time.Now()).Time) {
		return &api.ValidationError{
			Reason: "validation failed",
			Fields: map[string][]string{"booking_date": {"Booking date cannot be in the past."}},
		}
	}
	// Время принимаем только в формате HH:MM
	if _, err := time.Parse("15:04", req.BookingTime); err != nil {
		return &api.ValidationError{
			Reason: "validation failed",
			Fields: map[string][]string{"booking_time": {"Use the HH:MM format."}},
		}
	}
	return nil
}

// MyBookings returns the customer's flat booking list. The result is only
// applied while the bookings view is still the active one.
func (s *BookingService) MyBookings(ctx context.Context) ([]models.Booking, error) {
	if err := requireAuth(ctx, s.session, s.views, "bookings", s.logger); err != nil {
		return nil, err
	}

	enterView(ctx, s.session, s.views, viewBookings, s.logger)
	bookings, err := s.api.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	if !viewStillActive(ctx, s.session, s.views, viewBookings) {
		return nil, ErrStaleView
	}
	return bookings, nil
}

// Categorized partitions the customer's bookings for display.
func (s *BookingService) Categorized(ctx context.Context) (lifecycle.Buckets, error) {
	bookings, err := s.MyBookings(ctx)
	if err != nil {
		return lifecycle.Buckets{}, err
	}
	return lifecycle.Categorize(bookings, time.Now()), nil
}

// Cancel withdraws the customer's booking. Cancelling an already-cancelled
// booking is a silent no-op; a completed one cannot be withdrawn.
func (s *BookingService) Cancel(ctx context.Context, booking models.Booking) (lifecycle.Buckets, error) {
	if err := requireAuth(ctx, s.session, s.views, "bookings", s.logger); err != nil {
		return lifecycle.Buckets{}, err
	}

	state := lifecycle.Parse(booking.Status)
	if state == lifecycle.StateCancelled || state == lifecycle.StateRejected {
		// Уже отменено, повторный запрос не отправляем
		return s.Categorized(ctx)
	}
	if !lifecycle.CanCancel(booking.Status) {
		return lifecycle.Buckets{}, &api.ValidationError{
			Reason: "a " + booking.Status + " booking cannot be cancelled",
		}
	}

	cancelled, err := s.api.CancelBooking(ctx, booking.ID)
	if err != nil {
		return lifecycle.Buckets{}, err
	}

	s.publishEvent(events.EventBookingCancelled, *cancelled, "customer")
	metrics.IncBookingTransition("cancel")
	return s.Categorized(ctx)
}

// ProviderBookings returns the server-partitioned provider buckets, with
// the same stale-view guard as the customer list.
func (s *BookingService) ProviderBookings(ctx context.Context) (*models.ProviderBookings, error) {
	if err := requireAuth(ctx, s.session, s.views, "provider_bookings", s.logger); err != nil {
		return nil, err
	}

	enterView(ctx, s.session, s.views, viewProviderBookings, s.logger)
	buckets, err := s.api.ProviderBookings(ctx)
	if err != nil {
		return nil, err
	}
	if !viewStillActive(ctx, s.session, s.views, viewProviderBookings) {
		return nil, ErrStaleView
	}
	return buckets, nil
}

// Accept confirms a pending booking on behalf of the provider.
func (s *BookingService) Accept(ctx context.Context, booking models.Booking) (*models.ProviderBookings, error) {
	if !lifecycle.CanAccept(booking.Status) {
		return nil, &api.ValidationError{Reason: "only a pending booking can be accepted"}
	}
	return s.providerTransition(ctx, booking.ID, "accept", events.EventBookingAccepted, func(ctx context.Context) (*models.Booking, error) {
		return s.api.AcceptBooking(ctx, booking.ID)
	})
}

// Reject declines a pending booking; the customer sees it as cancelled.
func (s *BookingService) Reject(ctx context.Context, booking models.Booking) (*models.ProviderBookings, error) {
	if !lifecycle.CanReject(booking.Status) {
		return nil, &api.ValidationError{Reason: "only a pending booking can be rejected"}
	}
	return s.providerTransition(ctx, booking.ID, "reject", events.EventBookingRejected, func(ctx context.Context) (*models.Booking, error) {
		return s.api.RejectBooking(ctx, booking.ID)
	})
}

// Complete closes out an accepted booking, optionally with notes.
func (s *BookingService) Complete(ctx context.Context, booking models.Booking, completionNotes string) (*models.ProviderBookings, error) {
	if !lifecycle.CanComplete(booking.Status) {
		return nil, &api.ValidationError{Reason: "only an accepted booking can be completed"}
	}
	return s.providerTransition(ctx, booking.ID, "complete", events.EventBookingCompleted, func(ctx context.Context) (*models.Booking, error) {
		return s.api.CompleteBooking(ctx, booking.ID, completionNotes)
	})
}

func (s *BookingService) providerTransition(ctx context.Context, bookingID, action, eventType string, call func(context.Context) (*models.Booking, error)) (*models.ProviderBookings, error) {
	if err := requireAuth(ctx, s.session, s.views, "provider_bookings", s.logger); err != nil {
		return nil, err
	}

	booking, err := call(ctx)
	if err != nil {
		return nil, err
	}

	s.publishEvent(eventType, *booking, "provider")
	metrics.IncBookingTransition(action)
	return s.ProviderBookings(ctx)
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking, actor string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:    booking.ID,
		ProviderID:   booking.ProviderID,
		ProviderName: booking.ProviderName,
		Status:       booking.Status,
		BookingDate:  booking.BookingDate.String(),
		BookingTime:  booking.BookingTime,
		Actor:        actor,
		ChangedAt:    time.Now(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
