package services

import (
	"time"

	"github.com/spesuez/recruitment/internal/pkg/wizard"
)

// RecruitmentSettings gates the public application form.
type RecruitmentSettings struct {
	// Open is the master switch. When false the form is closed no
	// matter what the window says.
	Open bool
	// OpensAt/ClosesAt bound the recruitment window; nil means
	// unbounded on that side.
	OpensAt  *time.Time
	ClosesAt *time.Time
	// ContactEmail is shown to applicants on the closed page and in
	// confirmation emails.
	ContactEmail string
	// ChoiceLimits bounds how many committees an applicant may pick.
	ChoiceLimits wizard.ChoiceLimits
}

// IsOpenAt reports whether the form accepts submissions at t.
func (s RecruitmentSettings) IsOpenAt(t time.Time) bool {
	if !s.Open {
		return false
	}
	if s.OpensAt != nil && t.Before(*s.OpensAt) {
		return false
	}
	if s.ClosesAt != nil && t.After(*s.ClosesAt) {
		return false
	}
	return true
}
