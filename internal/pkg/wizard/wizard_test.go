package wizard

import (
	"testing"
)

func completePersonal(m *Machine) {
	m.Data.FullName = "Jane Doe"
	m.Data.Email = "jane@example.com"
	m.Data.Mobile = "01234567890"
	m.Data.FacebookLink = "https://facebook.com/jane"
	m.Data.PersonalPhoto = "photo.jpg"
}

func completeEducation(m *Machine) {
	m.Data.University = "Suez University"
	m.Data.Faculty = "Petroleum Engineering"
	m.Data.Department = "Petroleum"
	m.Data.AcademicYear = "third"
}

func completeAboutChapter(m *Machine) {
	m.Data.PreviousExperience = "None"
	m.Data.WhyApplying = "To learn"
	m.Data.HowBenefit = "Experience"
}

func completeCommittee(m *Machine) {
	m.Data.CommitteeChoices = []string{"Social Media"}
	m.Data.WhyCommittee = "I like it"
	m.Data.CommitteeResponsibilities = "Content"
}

func TestNextStepGatedByValidation(t *testing.T) {
	m := New(DefaultChoiceLimits)

	// Introduction has no required fields.
	if !m.NextStep() {
		t.Fatal("expected introduction step to advance")
	}
	if m.Current() != StepPersonal {
		t.Fatalf("current = %d, want %d", m.Current(), StepPersonal)
	}

	// Personal step is empty, so advancing must fail and record errors.
	if m.NextStep() {
		t.Fatal("expected incomplete personal step to block")
	}
	errs := m.Errors()
	if errs["form"] == "" {
		t.Error("expected a form-level message")
	}
	for _, field := range []string{"full_name", "email", "mobile", "facebook_link", "personal_photo"} {
		if errs[field] == "" {
			t.Errorf("expected error for %q", field)
		}
	}

	completePersonal(m)
	if !m.NextStep() {
		t.Fatal("expected completed personal step to advance")
	}
	if len(m.Errors()) != 0 {
		t.Errorf("errors not cleared after valid step: %v", m.Errors())
	}
	if !m.Completed(StepPersonal) {
		t.Error("personal step should be marked completed")
	}
}

func TestFullWalkthrough(t *testing.T) {
	m := New(ChoiceLimits{Min: 1, Max: 2})
	completePersonal(m)
	completeEducation(m)
	completeAboutChapter(m)
	completeCommittee(m)

	for step := StepIntroduction; step < TotalSteps; step++ {
		if !m.NextStep() {
			t.Fatalf("step %d did not advance: %v", step, m.Errors())
		}
	}
	if m.Current() != StepCommittee {
		t.Fatalf("current = %d, want %d", m.Current(), StepCommittee)
	}
	if !m.ValidateCurrentStep() {
		t.Fatalf("committee step should validate: %v", m.Errors())
	}
}

func TestSelectCommitteeToggleAndReplace(t *testing.T) {
	t.Run("toggle removes an existing choice", func(t *testing.T) {
		m := New(ChoiceLimits{Min: 1, Max: 2})
		m.SelectCommittee("Social Media")
		m.SelectCommittee("Multimedia")
		m.SelectCommittee("Social Media")
		got := m.Data.CommitteeChoices
		if len(got) != 1 || got[0] != "Multimedia" {
			t.Fatalf("choices = %v, want [Multimedia]", got)
		}
	})

	t.Run("single-choice limit replaces", func(t *testing.T) {
		m := New(ChoiceLimits{Min: 1, Max: 1})
		m.SelectCommittee("Social Media")
		m.SelectCommittee("Logistics")
		got := m.Data.CommitteeChoices
		if len(got) != 1 || got[0] != "Logistics" {
			t.Fatalf("choices = %v, want [Logistics]", got)
		}
	})

	t.Run("full multi-choice selection ignores extra picks", func(t *testing.T) {
		m := New(ChoiceLimits{Min: 1, Max: 2})
		m.SelectCommittee("Social Media")
		m.SelectCommittee("Logistics")
		m.SelectCommittee("Academy")
		got := m.Data.CommitteeChoices
		if len(got) != 2 || got[0] != "Social Media" || got[1] != "Logistics" {
			t.Fatalf("choices = %v, want [Social Media Logistics]", got)
		}
	})
}

func TestCommitteeSectionValidation(t *testing.T) {
	tests := []struct {
		name      string
		limits    ChoiceLimits
		prepare   func(m *Machine)
		wantField string
	}{
		{
			name:      "no selection",
			limits:    ChoiceLimits{Min: 1, Max: 1},
			prepare:   func(m *Machine) {},
			wantField: "committee_choices",
		},
		{
			name:   "missing motivation",
			limits: ChoiceLimits{Min: 1, Max: 1},
			prepare: func(m *Machine) {
				m.Data.CommitteeChoices = []string{"Academy"}
				m.Data.CommitteeResponsibilities = "Training"
			},
			wantField: "why_committee",
		},
		{
			name:   "missing responsibilities",
			limits: ChoiceLimits{Min: 1, Max: 1},
			prepare: func(m *Machine) {
				m.Data.CommitteeChoices = []string{"Academy"}
				m.Data.WhyCommittee = "Growth"
			},
			wantField: "committee_responsibilities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.limits)
			m.current = StepCommittee
			tt.prepare(m)
			if m.ValidateCurrentStep() {
				t.Fatal("expected validation to fail")
			}
			if m.Errors()[tt.wantField] == "" {
				t.Errorf("expected error for %q, got %v", tt.wantField, m.Errors())
			}
		})
	}
}

func TestGoToStep(t *testing.T) {
	m := New(DefaultChoiceLimits)
	m.NextStep() // -> personal
	completePersonal(m)
	m.NextStep() // -> education

	// Backward jumps are always allowed.
	if !m.GoToStep(StepIntroduction) {
		t.Fatal("backward jump should be allowed")
	}
	// Forward jump beyond the next step is not.
	if m.GoToStep(StepEducation) {
		t.Fatal("jump over unvisited steps should be rejected")
	}
	// Forward jump to the immediate next step is allowed when valid.
	if !m.GoToStep(StepPersonal) {
		t.Fatal("jump to immediate next step should be allowed")
	}
}

func TestApplyServerErrorsNavigatesToEarliestStep(t *testing.T) {
	m := New(ChoiceLimits{Min: 1, Max: 2})
	completePersonal(m)
	completeEducation(m)
	completeAboutChapter(m)
	completeCommittee(m)
	for m.Current() < StepCommittee {
		if !m.NextStep() {
			t.Fatalf("setup walkthrough stalled at %d: %v", m.Current(), m.Errors())
		}
	}

	var transitions [][2]int
	m.onTransition = func(from, to int) {
		transitions = append(transitions, [2]int{from, to})
	}

	target, delay := m.ApplyServerErrors(map[string]string{
		"email":             "This email has already been used for an application.",
		"committee_choices": "One or more selected committees are either invalid or currently closed.",
	})

	if target != StepPersonal {
		t.Fatalf("target = %d, want %d", target, StepPersonal)
	}
	if delay != ErrorNavigationDelay {
		t.Fatalf("delay = %v, want %v", delay, ErrorNavigationDelay)
	}
	if m.Current() != StepPersonal {
		t.Fatalf("current = %d, want %d", m.Current(), StepPersonal)
	}
	if len(transitions) != 1 || transitions[0] != [2]int{StepCommittee, StepPersonal} {
		t.Fatalf("transitions = %v", transitions)
	}

	steps := m.ErrorSteps()
	if len(steps) != 2 || steps[0] != StepPersonal || steps[1] != StepCommittee {
		t.Fatalf("ErrorSteps = %v, want [2 5]", steps)
	}
}

func TestApplyServerErrorsOnCurrentStep(t *testing.T) {
	m := New(DefaultChoiceLimits)
	m.NextStep() // -> personal

	target, delay := m.ApplyServerErrors(map[string]string{
		"email": "The email field must be a valid email address.",
	})
	if target != 0 || delay != 0 {
		t.Fatalf("expected no navigation, got target=%d delay=%v", target, delay)
	}
}
