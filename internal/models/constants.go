package models

// Wire statuses. Customer views use pending/confirmed/completed/cancelled;
// provider views use pending/accepted/completed/cancelled/rejected. Both
// vocabularies describe the same lifecycle.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

const (
	// MinRating and MaxRating bound a review rating.
	MinRating = 1
	MaxRating = 5

	// TrustedMinRating is the lowest rating that may carry a
	// recommendation flag.
	TrustedMinRating = 4
)

const (
	// DefaultViewStateTTL время жизни состояния сессии в Redis
	DefaultViewStateTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultRequestTimeout таймаут HTTP-запроса в секундах
	DefaultRequestTimeout = 15

	// DefaultRateLimitRPS частота исходящих запросов по умолчанию
	DefaultRateLimitRPS = 10

	// DefaultRateLimitBurst всплеск исходящих запросов по умолчанию
	DefaultRateLimitBurst = 5
)
