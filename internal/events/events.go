package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventBookingAccepted  = "booking_accepted"
	EventBookingRejected  = "booking_rejected"
	EventBookingCompleted = "booking_completed"
	EventReviewSubmitted  = "review_submitted"
)

// BookingEventPayload is the minimal booking snapshot for event consumers.
// Status carries the vocabulary of the actor that triggered the change.
type BookingEventPayload struct {
	BookingID    string    `json:"booking_id"`
	ProviderID   string    `json:"provider_id"`
	ProviderName string    `json:"provider_name,omitempty"`
	Status       string    `json:"status"`
	BookingDate  string    `json:"booking_date"`
	BookingTime  string    `json:"booking_time,omitempty"`
	Actor        string    `json:"actor"` // "customer" or "provider"
	ChangedAt    time.Time `json:"changed_at"`
}

// ReviewEventPayload describes an accepted review submission.
type ReviewEventPayload struct {
	ProviderID string `json:"provider_id"`
	Rating     int    `json:"rating"`
	IsTrusted  bool   `json:"is_trusted"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run
// synchronously; the caller decides the concurrency model.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
