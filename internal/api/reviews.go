package api

import (
	"context"
	"fmt"
	"net/url"

	"fixly/internal/models"
)

func (c *Client) SubmitReview(ctx context.Context, providerID string, req models.ReviewRequest) (*models.Review, error) {
	var resp struct {
		Message string        `json:"message"`
		Review  models.Review `json:"review"`
	}
	path := fmt.Sprintf("/api/provider/%s/review/", url.PathEscape(providerID))
	if err := c.post(ctx, path, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Review, nil
}

// ProviderReviews returns the provider's own review stream, as seen from
// the provider dashboard.
func (c *Client) ProviderReviews(ctx context.Context) ([]models.Review, error) {
	var resp struct {
		Reviews []models.Review `json:"reviews"`
	}
	if err := c.get(ctx, "/api/provider/reviews/", &resp, true); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}
