package api

import (
	"context"
	"fmt"
	"net/url"

	"fixly/internal/models"
)

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.get(ctx, "/", &resp, false); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Providers lists a category, optionally narrowed by city. The request is
// sent with credentials when available so the server can attach trusted_by
// per provider; anonymously the listing simply lacks trust data.
func (c *Client) Providers(ctx context.Context, category, city string) ([]models.ProviderListing, error) {
	path := fmt.Sprintf("/service/%s/", url.PathEscape(category))
	if city != "" {
		path += "?city=" + url.QueryEscape(city)
	}

	var resp struct {
		Category  string                   `json:"category"`
		Providers []models.ProviderListing `json:"providers"`
	}
	if err := c.get(ctx, path, &resp, false); err != nil {
		return nil, err
	}
	return resp.Providers, nil
}

func (c *Client) ProviderDetail(ctx context.Context, id string) (*models.ProviderDetail, error) {
	var resp models.ProviderDetail
	if err := c.get(ctx, fmt.Sprintf("/provider/%s/", url.PathEscape(id)), &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ProviderDashboard(ctx context.Context) (*models.ProviderDashboard, error) {
	var resp models.ProviderDashboard
	if err := c.get(ctx, "/api/provider/dashboard/", &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ProviderProfile(ctx context.Context) (*models.Provider, error) {
	var resp struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.get(ctx, "/api/provider/profile/", &resp, true); err != nil {
		return nil, err
	}
	return &resp.Provider, nil
}

// UpdateProviderProfile is a wholesale field replace; the server ignores
// rating and total_reviews, which it owns.
func (c *Client) UpdateProviderProfile(ctx context.Context, profile models.Provider) (*models.Provider, error) {
	var resp struct {
		Message  string          `json:"message"`
		Provider models.Provider `json:"provider"`
	}
	if err := c.put(ctx, "/api/provider/profile/", profile, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Provider, nil
}
