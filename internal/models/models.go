package models

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without a time-of-day. The marketplace API
// exchanges it as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone_number,omitempty"`
	IsProvider bool   `json:"is_provider,omitempty"`
}

// Tokens is the credential pair issued on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials is what the durable local store persists between runs.
type Credentials struct {
	User    User      `json:"user"`
	Tokens  Tokens    `json:"tokens"`
	SavedAt time.Time `json:"saved_at"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Provider is read-mostly on the client: the server owns rating and
// total_reviews, the profile-edit path replaces the remaining fields
// wholesale.
type Provider struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PhoneNumber     string  `json:"phone_number"`
	Email           string  `json:"email,omitempty"`
	CategoryName    string  `json:"category_name"`
	Rating          float64 `json:"rating"`
	TotalReviews    int     `json:"total_reviews"`
	ExperienceYears int     `json:"experience_years,omitempty"`
	Address         string  `json:"address,omitempty"`
	Description     string  `json:"description,omitempty"`
	IsVerified      bool    `json:"is_verified"`
	Availability    string  `json:"availability,omitempty"`
	ServiceArea     string  `json:"service_area,omitempty"`
	City            string  `json:"city,omitempty"`
}

type Review struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	ProviderID string    `json:"provider_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	IsTrusted  bool      `json:"is_trusted"`
	IsContact  bool      `json:"is_contact,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// TrustSummary describes how many of the viewer's contacts have used a
// provider. Names keep server order; the client never re-sorts or trims.
type TrustSummary struct {
	Count   int      `json:"count"`
	Message string   `json:"message"`
	Names   []string `json:"names"`
}

// ViewState is per-session client state: the selected city, the view the
// user is currently on, and where to resume after a forced login.
type ViewState struct {
	SessionKey         string `json:"session_key"`
	City               string `json:"city"`
	ActiveView         string `json:"active_view"`
	RedirectAfterLogin string `json:"redirect_after_login,omitempty"`
}
