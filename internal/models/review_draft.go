package models

// ReviewDraft is the in-progress review a user is editing. The
// recommendation flag is suppressed the moment the rating drops below the
// trusted threshold, not only at submit time.
type ReviewDraft struct {
	Rating    int
	Comment   string
	IsTrusted bool
}

// SetRating updates the rating and clears the recommendation flag when the
// new rating no longer qualifies.
func (d *ReviewDraft) SetRating(rating int) {
	d.Rating = rating
	if rating < TrustedMinRating {
		d.IsTrusted = false
	}
}

// SetTrusted flips the recommendation flag. It only sticks while the
// rating qualifies.
func (d *ReviewDraft) SetTrusted(trusted bool) {
	if trusted && d.Rating < TrustedMinRating {
		return
	}
	d.IsTrusted = trusted
}

// Request converts the draft to the wire payload, re-applying the
// suppression as a final guard.
func (d *ReviewDraft) Request() ReviewRequest {
	trusted := d.IsTrusted
	if d.Rating < TrustedMinRating {
		trusted = false
	}
	return ReviewRequest{
		Rating:    d.Rating,
		Comment:   d.Comment,
		IsTrusted: trusted,
	}
}
