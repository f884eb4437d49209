package wizard

import "fmt"

// Step identifies one of the four editable pages.
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepExperience
	StepDocuments
	StepQuestions
)

// StepCount is the number of editable steps.
const StepCount = 4

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal-info"
	case StepExperience:
		return "experience"
	case StepDocuments:
		return "documents"
	case StepQuestions:
		return "questions"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// State is the wizard's position. The zero value is not a valid state;
// wizards always start in StateStep1.
type State int

const (
	StateStep1 State = iota + 1
	StateStep2
	StateStep3
	StateStep4
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateStep1, StateStep2, StateStep3, StateStep4:
		return fmt.Sprintf("step%d", int(s))
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Step reports the editable step for StateStep1..StateStep4.
func (s State) Step() (Step, bool) {
	if s >= StateStep1 && s <= StateStep4 {
		return Step(s), true
	}
	return 0, false
}

// Editing reports whether the record can be changed in this state.
func (s State) Editing() bool {
	_, ok := s.Step()
	return ok
}

func stateFor(step Step) State {
	return State(step)
}

// Progress is the "Step N of 4" indicator.
type Progress struct {
	Current int
	Total   int
	Percent int
}

func progressFor(s State) Progress {
	switch {
	case s.Editing():
		return Progress{Current: int(s), Total: StepCount, Percent: int(s) * 100 / StepCount}
	default:
		return Progress{Current: StepCount, Total: StepCount, Percent: 100}
	}
}
