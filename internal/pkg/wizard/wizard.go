// Package wizard drives the five-step application form: per-step required
// field validation, gated navigation, and reconciliation of server-side
// validation errors back onto the step that owns the failing field.
package wizard

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TotalSteps is the number of wizard sections.
const TotalSteps = 5

// Step numbers in order.
const (
	StepIntroduction = 1
	StepPersonal     = 2
	StepEducation    = 3
	StepAboutChapter = 4
	StepCommittee    = 5
)

// ErrorNavigationDelay is how long callers should wait before navigating to
// an erroring step, so the error banner is visible before the view changes.
const ErrorNavigationDelay = 500 * time.Millisecond

// FormData is the flat record collected across all steps.
type FormData struct {
	FullName      string
	Email         string
	Mobile        string
	FacebookLink  string
	PersonalPhoto string // non-empty once a photo has been attached

	University   string
	Faculty      string
	Department   string
	AcademicYear string

	PreviousExperience string
	WhyApplying        string
	HowBenefit         string

	CommitteeChoices          []string
	WhyCommittee              string
	CommitteeResponsibilities string
	OpenSpace                 string
}

// ChoiceLimits bounds how many committees may be selected. The two form
// revisions disagreed (exactly one vs. one-to-two), so the bound is
// configurable rather than hardcoded.
type ChoiceLimits struct {
	Min int
	Max int
}

// DefaultChoiceLimits matches the current form revision: exactly one committee.
var DefaultChoiceLimits = ChoiceLimits{Min: 1, Max: 1}

// FieldLabels maps field names to the labels used in error messages.
var FieldLabels = map[string]string{
	"full_name":                  "Full Name",
	"email":                      "Email",
	"mobile":                     "Mobile Number",
	"facebook_link":              "Facebook Account Link",
	"personal_photo":             "Personal Photo",
	"university":                 "University",
	"faculty":                    "Faculty",
	"department":                 "Department",
	"academic_year":              "Academic Year",
	"previous_experience":        "Previous Experience",
	"why_applying":               "Application Motivation",
	"how_benefit":                "Expected Benefit",
	"committee_choices":          "Committee Selection",
	"why_committee":              "Committee Motivation",
	"committee_responsibilities": "Committee Responsibilities",
	"open_space":                 "Open Space",
}

// FieldStep maps every submitted field to the step that collects it.
var FieldStep = map[string]int{
	"full_name":                  StepPersonal,
	"email":                      StepPersonal,
	"mobile":                     StepPersonal,
	"facebook_link":              StepPersonal,
	"personal_photo":             StepPersonal,
	"university":                 StepEducation,
	"faculty":                    StepEducation,
	"department":                 StepEducation,
	"academic_year":              StepEducation,
	"previous_experience":        StepAboutChapter,
	"why_applying":               StepAboutChapter,
	"how_benefit":                StepAboutChapter,
	"committee_choices":          StepCommittee,
	"why_committee":              StepCommittee,
	"committee_responsibilities": StepCommittee,
	"open_space":                 StepCommittee,
}

// stepRequiredFields lists the required fields per step, in display order.
var stepRequiredFields = map[int][]string{
	StepPersonal:     {"full_name", "email", "mobile", "facebook_link", "personal_photo"},
	StepEducation:    {"university", "faculty", "department", "academic_year"},
	StepAboutChapter: {"previous_experience", "why_applying", "how_benefit"},
}

// stepFormMessages are the step-level banner messages shown when a section
// is incomplete.
var stepFormMessages = map[int]string{
	StepPersonal:     "Please complete all required personal details before continuing.",
	StepEducation:    "Please complete all required education details before continuing.",
	StepAboutChapter: "Please complete all questions in this section before continuing.",
	StepCommittee:    "Please complete the committee section before submitting your application.",
}

// Machine holds wizard state: the active step, which steps were completed,
// the collected form data, and the current field errors.
type Machine struct {
	current      int
	completed    map[int]bool
	limits       ChoiceLimits
	errors       map[string]string
	onTransition func(from, to int)

	Data FormData
}

// Option configures a Machine.
type Option func(*Machine)

// WithTransitionHook registers a callback fired on every step change. The
// form uses it to scroll the viewport back to the top.
func WithTransitionHook(fn func(from, to int)) Option {
	return func(m *Machine) { m.onTransition = fn }
}

// New creates a wizard machine positioned on the introduction step.
func New(limits ChoiceLimits, opts ...Option) *Machine {
	if limits.Min <= 0 {
		limits.Min = DefaultChoiceLimits.Min
	}
	if limits.Max < limits.Min {
		limits.Max = limits.Min
	}
	m := &Machine{
		current:   StepIntroduction,
		completed: make(map[int]bool),
		limits:    limits,
		errors:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the active step.
func (m *Machine) Current() int { return m.current }

// Limits returns the configured committee-choice bounds.
func (m *Machine) Limits() ChoiceLimits { return m.limits }

// Completed reports whether the given step has been completed.
func (m *Machine) Completed(step int) bool { return m.completed[step] }

// Errors returns a copy of the current field errors, including the
// synthetic "form" banner message when present.
func (m *Machine) Errors() map[string]string {
	out := make(map[string]string, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}

// fieldValue returns the trimmed value for a named field.
func (m *Machine) fieldValue(field string) string {
	switch field {
	case "full_name":
		return strings.TrimSpace(m.Data.FullName)
	case "email":
		return strings.TrimSpace(m.Data.Email)
	case "mobile":
		return strings.TrimSpace(m.Data.Mobile)
	case "facebook_link":
		return strings.TrimSpace(m.Data.FacebookLink)
	case "personal_photo":
		return strings.TrimSpace(m.Data.PersonalPhoto)
	case "university":
		return strings.TrimSpace(m.Data.University)
	case "faculty":
		return strings.TrimSpace(m.Data.Faculty)
	case "department":
		return strings.TrimSpace(m.Data.Department)
	case "academic_year":
		return strings.TrimSpace(m.Data.AcademicYear)
	case "previous_experience":
		return strings.TrimSpace(m.Data.PreviousExperience)
	case "why_applying":
		return strings.TrimSpace(m.Data.WhyApplying)
	case "how_benefit":
		return strings.TrimSpace(m.Data.HowBenefit)
	case "why_committee":
		return strings.TrimSpace(m.Data.WhyCommittee)
	case "committee_responsibilities":
		return strings.TrimSpace(m.Data.CommitteeResponsibilities)
	case "open_space":
		return strings.TrimSpace(m.Data.OpenSpace)
	}
	return ""
}

// SelectCommittee toggles a committee choice. Selecting an already-chosen
// committee removes it. When the selection is full and the limit is one,
// the new choice replaces the old one; with a larger limit the extra pick
// is ignored until a slot frees up.
func (m *Machine) SelectCommittee(name string) {
	for i, choice := range m.Data.CommitteeChoices {
		if choice == name {
			m.Data.CommitteeChoices = append(m.Data.CommitteeChoices[:i], m.Data.CommitteeChoices[i+1:]...)
			return
		}
	}
	if len(m.Data.CommitteeChoices) < m.limits.Max {
		m.Data.CommitteeChoices = append(m.Data.CommitteeChoices, name)
		return
	}
	if m.limits.Max == 1 {
		m.Data.CommitteeChoices = []string{name}
	}
}

// validateCommitteeSection checks the committee step rules and records
// field errors. Returns true when the section is complete.
func (m *Machine) validateCommitteeSection() bool {
	newErrors := make(map[string]string)

	count := len(m.Data.CommitteeChoices)
	switch {
	case count < m.limits.Min:
		newErrors["committee_choices"] = chooseMessage(m.limits)
	case count > m.limits.Max:
		newErrors["committee_choices"] = tooManyMessage(m.limits)
		newErrors["form"] = tooManyMessage(m.limits)
	}

	if m.fieldValue("why_committee") == "" {
		newErrors["why_committee"] = FieldLabels["why_committee"] + " is required."
	}
	if m.fieldValue("committee_responsibilities") == "" {
		newErrors["committee_responsibilities"] = FieldLabels["committee_responsibilities"] + " is required."
	}

	if len(newErrors) > 0 {
		if _, ok := newErrors["form"]; !ok {
			newErrors["form"] = stepFormMessages[StepCommittee]
		}
		for k, v := range newErrors {
			m.errors[k] = v
		}
		return false
	}

	delete(m.errors, "form")
	delete(m.errors, "committee_choices")
	delete(m.errors, "why_committee")
	delete(m.errors, "committee_responsibilities")
	return true
}

func chooseMessage(l ChoiceLimits) string {
	if l.Min == 1 && l.Max == 1 {
		return "Please select one committee."
	}
	return fmt.Sprintf("Please select at least %d committee(s).", l.Min)
}

func tooManyMessage(l ChoiceLimits) string {
	if l.Max == 1 {
		return "Please select only one committee."
	}
	return fmt.Sprintf("You may select at most %d committees.", l.Max)
}

// ValidateCurrentStep validates the active step against its required-field
// set. On failure it records per-field errors plus a step-level "form"
// message and leaves earlier errors for other steps untouched.
func (m *Machine) ValidateCurrentStep() bool {
	switch m.current {
	case StepIntroduction:
		m.errors = make(map[string]string)
		return true
	case StepPersonal, StepEducation, StepAboutChapter:
		var missing []string
		for _, field := range stepRequiredFields[m.current] {
			if m.fieldValue(field) == "" {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			newErrors := map[string]string{"form": stepFormMessages[m.current]}
			for _, field := range missing {
				newErrors[field] = FieldLabels[field] + " is required."
			}
			m.errors = newErrors
			return false
		}
	case StepCommittee:
		if !m.validateCommitteeSection() {
			return false
		}
	}
	m.errors = make(map[string]string)
	return true
}

// transition moves the active step and fires the transition hook.
func (m *Machine) transition(to int) {
	from := m.current
	m.current = to
	if from != to && from < to {
		m.completed[from] = true
	}
	if m.onTransition != nil {
		m.onTransition(from, to)
	}
}

// NextStep advances one step if the current one validates. Returns whether
// the step changed.
func (m *Machine) NextStep() bool {
	if m.current >= TotalSteps {
		return false
	}
	if !m.ValidateCurrentStep() {
		return false
	}
	m.transition(m.current + 1)
	return true
}

// PreviousStep moves one step back. Backward navigation is always allowed
// and clears transient errors.
func (m *Machine) PreviousStep() bool {
	if m.current <= StepIntroduction {
		return false
	}
	m.errors = make(map[string]string)
	m.transition(m.current - 1)
	return true
}

// GoToStep jumps to an arbitrary step. Backward jumps are always allowed;
// the only permitted forward jump is to the immediately following step, and
// only when the current one validates.
func (m *Machine) GoToStep(step int) bool {
	if step == m.current || step < StepIntroduction || step > TotalSteps {
		return false
	}
	if step < m.current {
		m.errors = make(map[string]string)
		m.transition(step)
		return true
	}
	if step == m.current+1 && m.ValidateCurrentStep() {
		m.transition(step)
		return true
	}
	return false
}

// ErrorSteps returns the sorted set of steps that currently own a field
// error. The synthetic "form" entry is excluded.
func (m *Machine) ErrorSteps() []int {
	seen := make(map[int]bool)
	for field := range m.errors {
		if field == "form" {
			continue
		}
		if step, ok := FieldStep[field]; ok {
			seen[step] = true
		}
	}
	steps := make([]int, 0, len(seen))
	for step := range seen {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	return steps
}

// ApplyServerErrors merges server-side validation errors into the wizard
// and navigates to the earliest step containing an erroring field. It
// returns the target step and the delay callers should apply before
// switching views so the banner is visible first. A zero target means no
// navigation is needed.
func (m *Machine) ApplyServerErrors(fields map[string]string) (target int, delay time.Duration) {
	for field, msg := range fields {
		m.errors[field] = msg
	}
	steps := m.ErrorSteps()
	if len(steps) == 0 {
		return 0, 0
	}
	target = steps[0]
	if target == m.current {
		return 0, 0
	}
	m.transition(target)
	return target, ErrorNavigationDelay
}
