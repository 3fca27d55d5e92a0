package models

// Request and response payloads exchanged with the marketplace API.
// Validation tags are enforced client-side before any network call.

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Password2   string `json:"password2" validate:"required,eqfield=Password"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
	Tokens  Tokens `json:"tokens"`
}

type CreateBookingRequest struct {
	ProviderID  string `json:"provider_id" validate:"required"`
	BookingDate Date   `json:"booking_date"`
	BookingTime string `json:"booking_time" validate:"required"`
	Notes       string `json:"notes,omitempty"`
}

type ReviewRequest struct {
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Comment   string `json:"comment,omitempty"`
	IsTrusted bool   `json:"is_trusted"`
}

// ReviewBuckets is the server-side split of a provider's reviews relative
// to the viewer's trust network.
type ReviewBuckets struct {
	FromContacts []Review `json:"from_contacts"`
	FromOthers   []Review `json:"from_others"`
}

// ProviderListing is one row of a category listing. TrustedBy is only
// present on authenticated calls.
type ProviderListing struct {
	Provider
	TrustedBy *TrustSummary `json:"trusted_by,omitempty"`
}

// ProviderDetail is the full provider page payload. Reviews may be absent
// entirely; consumers treat that as two empty lists.
type ProviderDetail struct {
	Provider  Provider      `json:"provider"`
	TrustedBy *TrustSummary `json:"trusted_by,omitempty"`
	Reviews   *ReviewBuckets `json:"reviews,omitempty"`
}

type DashboardStatistics struct {
	TotalBookings   int     `json:"total_bookings"`
	PendingRequests int     `json:"pending_requests"`
	MonthBookings   int     `json:"month_bookings"`
	AverageRating   float64 `json:"average_rating"`
}

type ProviderDashboard struct {
	Provider   Provider            `json:"provider"`
	Statistics DashboardStatistics `json:"statistics"`
}
