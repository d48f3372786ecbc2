package models

// AcademicYear represents the applicant's year of study
type AcademicYear string

const (
	YearPreparatory AcademicYear = "preparatory"
	YearFirst       AcademicYear = "first"
	YearSecond      AcademicYear = "second"
	YearThird       AcademicYear = "third"
	YearFourth      AcademicYear = "fourth"
	YearFifth       AcademicYear = "fifth"
)

// AcademicYears lists all valid academic year values in display order.
var AcademicYears = []AcademicYear{
	YearPreparatory, YearFirst, YearSecond, YearThird, YearFourth, YearFifth,
}

// AcademicYearLabels maps academic year values to their display labels,
// used by the public form payload.
var AcademicYearLabels = map[AcademicYear]string{
	YearPreparatory: "Preparatory Year",
	YearFirst:       "First Year",
	YearSecond:      "Second Year",
	YearThird:       "Third Year",
	YearFourth:      "Fourth Year",
	YearFifth:       "Fifth Year",
}

// IsValidAcademicYear reports whether the given value is a known academic year.
func IsValidAcademicYear(value string) bool {
	for _, y := range AcademicYears {
		if string(y) == value {
			return true
		}
	}
	return false
}

// ApplicationStatus represents the review state of an application
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists all valid statuses.
var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReviewed, StatusAccepted, StatusRejected,
}

// IsValidStatus reports whether the given value is a known application status.
func IsValidStatus(value string) bool {
	for _, s := range ApplicationStatuses {
		if string(s) == value {
			return true
		}
	}
	return false
}
