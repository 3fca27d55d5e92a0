package lifecycle

import (
	"testing"

	"fixly/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseBothVocabularies(t *testing.T) {
	assert.Equal(t, StatePending, Parse(models.StatusPending))
	assert.Equal(t, StateAccepted, Parse(models.StatusConfirmed))
	assert.Equal(t, StateAccepted, Parse(models.StatusAccepted))
	assert.Equal(t, StateCompleted, Parse(models.StatusCompleted))
	assert.Equal(t, StateCancelled, Parse(models.StatusCancelled))
	assert.Equal(t, StateRejected, Parse(models.StatusRejected))
	assert.Equal(t, StateUnknown, Parse("rescheduled"))
}

func TestLabelsRoundTrip(t *testing.T) {
	assert.Equal(t, "confirmed", StateAccepted.CustomerLabel())
	assert.Equal(t, "accepted", StateAccepted.ProviderLabel())
	assert.Equal(t, "pending", StatePending.CustomerLabel())
	assert.Equal(t, "rejected", StateRejected.ProviderLabel())
	// Customers never see "rejected"; it surfaces as cancelled.
	assert.Equal(t, "cancelled", StateRejected.CustomerLabel())
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		ok   bool
	}{
		{"pending to accepted", StatePending, StateAccepted, true},
		{"pending to cancelled", StatePending, StateCancelled, true},
		{"pending to rejected", StatePending, StateRejected, true},
		{"pending to completed skips accept", StatePending, StateCompleted, false},
		{"accepted to completed", StateAccepted, StateCompleted, true},
		{"accepted to cancelled", StateAccepted, StateCancelled, true},
		{"accepted to rejected", StateAccepted, StateRejected, false},
		{"completed is terminal", StateCompleted, StateCancelled, false},
		{"cancelled is terminal", StateCancelled, StatePending, false},
		{"rejected is terminal", StateRejected, StateAccepted, false},
		{"no re-entry to pending", StateAccepted, StatePending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []State{StatePending, StateAccepted, StateCompleted, StateCancelled, StateRejected}
	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			assert.Falsef(t, CanTransition(from, to), "%v -> %v should be illegal", from, to)
		}
	}
}

func TestStatusGuards(t *testing.T) {
	assert.True(t, CanCancel(models.StatusPending))
	assert.True(t, CanCancel(models.StatusConfirmed))
	assert.False(t, CanCancel(models.StatusCancelled))
	assert.False(t, CanCancel(models.StatusCompleted))

	assert.True(t, CanAccept(models.StatusPending))
	assert.False(t, CanAccept(models.StatusAccepted))

	assert.True(t, CanReject(models.StatusPending))
	assert.False(t, CanReject(models.StatusAccepted))

	assert.True(t, CanComplete(models.StatusAccepted))
	assert.False(t, CanComplete(models.StatusPending))
}
