package api

import (
	"context"
	"fmt"

	"fixly/internal/models"
)

// bookingEnvelope wraps single-booking responses: the server pairs the
// booking with a human-readable message.
type bookingEnvelope struct {
	Message string         `json:"message"`
	Booking models.Booking `json:"booking"`
}

func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	var resp bookingEnvelope
	if err := c.post(ctx, "/api/bookings/create/", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var resp struct {
		Count    int              `json:"count"`
		Bookings []models.Booking `json:"bookings"`
	}
	if err := c.get(ctx, "/api/bookings/", &resp, true); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	var resp bookingEnvelope
	if err := c.put(ctx, fmt.Sprintf("/api/bookings/%s/cancel/", id), nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

// ProviderBookings returns the server-partitioned buckets. Missing buckets
// decode as empty slices, never as an error.
func (c *Client) ProviderBookings(ctx context.Context) (*models.ProviderBookings, error) {
	var resp models.ProviderBookings
	if err := c.get(ctx, "/api/provider/bookings/", &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AcceptBooking(ctx context.Context, id string) (*models.Booking, error) {
	var resp bookingEnvelope
	if err := c.put(ctx, fmt.Sprintf("/api/provider/bookings/%s/accept/", id), nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

func (c *Client) RejectBooking(ctx context.Context, id string) (*models.Booking, error) {
	var resp bookingEnvelope
	if err := c.put(ctx, fmt.Sprintf("/api/provider/bookings/%s/reject/", id), nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

func (c *Client) CompleteBooking(ctx context.Context, id string, completionNotes string) (*models.Booking, error) {
	body := struct {
		CompletionNotes string `json:"completion_notes"`
	}{CompletionNotes: completionNotes}

	var resp bookingEnvelope
	if err := c.put(ctx, fmt.Sprintf("/api/provider/bookings/%s/complete/", id), body, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}
