package repository

import (
	"context"
	"sync/atomic"
	"time"

	"fixly/internal/domain"
	"fixly/internal/models"

	"github.com/rs/zerolog"
)

// FailoverViewRepository prefers the primary store and degrades to the
// fallback when the primary errors, retrying the primary after a cooldown.
type FailoverViewRepository struct {
	primary   domain.ViewStateRepository
	fallback  domain.ViewStateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryInterval = time.Minute

func NewFailoverViewRepository(primary, fallback domain.ViewStateRepository, logger *zerolog.Logger) *FailoverViewRepository {
	return &FailoverViewRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverViewRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary view-state store failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverViewRepository) shouldRetryPrimary() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverViewRepository) GetView(ctx context.Context, key string) (*models.ViewState, error) {
	if !r.isDown.Load() {
		state, err := r.primary.GetView(ctx, key)
		if err == nil {
			return state, nil
		}
		r.markDown(err)
	} else if r.shouldRetryPrimary() {
		state, err := r.primary.GetView(ctx, key)
		if err == nil {
			r.isDown.Store(false)
			return state, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetView(ctx, key)
}

func (r *FailoverViewRepository) SetView(ctx context.Context, state *models.ViewState) error {
	if !r.isDown.Load() {
		err := r.primary.SetView(ctx, state)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetView(ctx, state)
}

func (r *FailoverViewRepository) ClearView(ctx context.Context, key string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearView(ctx, key)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearView(ctx, key)
}
