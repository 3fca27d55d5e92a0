package api

import (
	"context"

	"fixly/internal/models"
)

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, "/api/register/", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProviderRegister creates an account that is both customer and provider.
func (c *Client) ProviderRegister(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, "/api/provider/register/", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, "/api/login/", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.get(ctx, "/api/profile/", &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
