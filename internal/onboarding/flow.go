// Package onboarding models the five-step setup wizard as a linear state
// machine over a step index and the captured answers.
package onboarding

// Step names the fixed wizard sequence. The integer index is what gets
// persisted to the credential store.
type Step int

const (
	StepWelcome Step = iota
	StepInterests
	StepGmail
	StepCalendar
	StepComplete

	stepCount = 5
)

var stepNames = [stepCount]string{"welcome", "interests", "gmail", "calendar", "complete"}

func (s Step) String() string {
	if s < 0 || int(s) >= stepCount {
		return "unknown"
	}
	return stepNames[s]
}

// Answers holds what the wizard captures along the way.
type Answers struct {
	Interests         []string
	GmailConnected    bool
	CalendarConnected bool
}

// Flow is the wizard position plus answers. The step only advances through
// Next; completion is terminal.
type Flow struct {
	Step      Step
	Answers   Answers
	Completed bool
}

// Clamp bounds an untrusted persisted index to the valid range.
func Clamp(step int) Step {
	if step < 0 {
		return StepWelcome
	}
	if step >= stepCount {
		return StepComplete
	}
	return Step(step)
}

// CanProceed reports whether the current step's predicate holds. Only the
// interests step has one: at least one selected topic.
func (f *Flow) CanProceed() bool {
	if f.Step == StepInterests {
		return len(f.Answers.Interests) > 0
	}
	return true
}

// Next advances one step when the predicate holds and the flow is not already
// terminal. It reports whether the transition happened.
func (f *Flow) Next() bool {
	if f.Completed || f.Step >= StepComplete || !f.CanProceed() {
		return false
	}
	f.Step++
	return true
}

// Back always succeeds except from the first step.
func (f *Flow) Back() bool {
	if f.Step <= StepWelcome {
		return false
	}
	f.Step--
	return true
}

// Complete marks the terminal state reached by finishing the wizard.
func (f *Flow) Complete() {
	f.Step = StepComplete
	f.Completed = true
}

// Skip marks completion without requiring any step's predicate.
func (f *Flow) Skip() {
	f.Completed = true
}
