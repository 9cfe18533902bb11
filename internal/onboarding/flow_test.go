package onboarding

import "testing"

func TestNext_InterestsPredicate(t *testing.T) {
	f := &Flow{Step: StepInterests}

	if f.Next() {
		t.Fatal("interests step must not advance without a selected topic")
	}
	f.Answers.Interests = []string{"Technology"}
	if !f.Next() {
		t.Fatal("interests step should advance with one topic")
	}
	if f.Step != StepGmail {
		t.Fatalf("expected gmail step, got %s", f.Step)
	}
}

func TestNext_OtherStepsUnconditional(t *testing.T) {
	for _, start := range []Step{StepWelcome, StepGmail, StepCalendar} {
		f := &Flow{Step: start}
		if !f.Next() {
			t.Fatalf("step %s should be unconditionally passable", start)
		}
	}
}

func TestNext_TerminalStepDoesNotAdvance(t *testing.T) {
	f := &Flow{Step: StepComplete}
	if f.Next() {
		t.Fatal("complete step must not advance")
	}
}

func TestBack(t *testing.T) {
	f := &Flow{Step: StepWelcome}
	if f.Back() {
		t.Fatal("cannot go back from step 0")
	}

	f.Step = StepCalendar
	if !f.Back() || f.Step != StepGmail {
		t.Fatalf("back transition failed, at %s", f.Step)
	}
}

func TestSkip_CompletesWithoutPredicates(t *testing.T) {
	f := &Flow{Step: StepInterests} // predicate would fail
	f.Skip()
	if !f.Completed {
		t.Fatal("skip must mark completion")
	}
}

func TestComplete_Terminal(t *testing.T) {
	f := &Flow{Step: StepCalendar}
	f.Complete()
	if !f.Completed || f.Step != StepComplete {
		t.Fatalf("complete must land on the terminal step, got %s", f.Step)
	}
	if f.Next() {
		t.Fatal("completed flow must not advance")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		in   int
		want Step
	}{
		{-3, StepWelcome},
		{0, StepWelcome},
		{2, StepGmail},
		{4, StepComplete},
		{99, StepComplete},
	}
	for _, tc := range cases {
		if got := Clamp(tc.in); got != tc.want {
			t.Fatalf("Clamp(%d) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestStepNames(t *testing.T) {
	want := []string{"welcome", "interests", "gmail", "calendar", "complete"}
	for i, name := range want {
		if Step(i).String() != name {
			t.Fatalf("step %d = %s, want %s", i, Step(i), name)
		}
	}
	if Step(7).String() != "unknown" {
		t.Fatal("out-of-range step should stringify as unknown")
	}
}
