// Package service implements the application flows on top of the API
// client: auth gating, local validation, the booking lifecycle guards and
// the review trust rules. Services never talk HTTP themselves; they
// depend on the narrow interfaces in domain.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fixly/internal/api"
	"fixly/internal/domain"
	"fixly/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Поля в ошибках валидации называем как в JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct runs tag validation and converts failures to the
// field-keyed validation error, the same shape the server uses. A local
// reject never reaches the network.
func validateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], validationMessage(fe))
	}
	return &api.ValidationError{Reason: "validation failed", Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "gte", "lte":
		return "Rating must be between 1 and 5."
	default:
		return "Invalid value."
	}
}

// View tokens for the list surfaces. A fetch records its view before the
// request goes out; late results whose view no longer matches are dropped
// instead of applied.
const (
	viewBookings         = "bookings"
	viewProviderBookings = "provider_bookings"
	viewProviders        = "providers"
)

// ErrStaleView marks a list result that arrived after the user moved on
// to a different view. The result is discarded, not an application error.
var ErrStaleView = errors.New("view changed while the request was in flight")

// enterView records the view a fetch is issued for, preserving the rest
// of the session state.
func enterView(ctx context.Context, sess domain.Session, views domain.ViewStateRepository, view string, logger *zerolog.Logger) {
	if views == nil {
		return
	}

	key := sess.SessionKey()
	state, err := views.GetView(ctx, key)
	if err != nil || state == nil {
		state = &models.ViewState{SessionKey: key}
	}
	state.ActiveView = view
	if err := views.SetView(ctx, state); err != nil {
		logger.Warn().Err(err).Str("session", key).Str("view", view).Msg("failed to record active view")
	}
}

// viewStillActive reports whether results fetched for view may be applied.
// When the store cannot answer, the result is applied rather than lost.
func viewStillActive(ctx context.Context, sess domain.Session, views domain.ViewStateRepository, view string) bool {
	if views == nil {
		return true
	}

	state, err := views.GetView(ctx, sess.SessionKey())
	if err != nil || state == nil || state.ActiveView == "" {
		return true
	}
	return state.ActiveView == view
}

// requireAuth gates an authenticated flow. For anonymous callers it
// records where to resume after login and fails with an auth error, so
// the caller can send the user to the login view.
func requireAuth(ctx context.Context, sess domain.Session, views domain.ViewStateRepository, destination string, logger *zerolog.Logger) error {
	if sess.IsAuthenticated() {
		return nil
	}

	if views != nil && destination != "" {
		key := sess.SessionKey()
		state, err := views.GetView(ctx, key)
		if err != nil || state == nil {
			state = &models.ViewState{SessionKey: key}
		}
		state.RedirectAfterLogin = destination
		if err := views.SetView(ctx, state); err != nil {
			logger.Warn().Err(err).Str("session", key).Msg("failed to record login redirect")
		}
	}

	return &api.AuthError{Reason: "login required"}
}
