package model

import "testing"

func TestToggleFillsFirstEmptySlot(t *testing.T) {
	var s Selection
	s = s.Toggle("1")
	if s != (Selection{"1", ""}) {
		t.Fatalf("expected slot 1 filled, got %v", s)
	}
	s = s.Toggle("2")
	if s != (Selection{"1", "2"}) {
		t.Fatalf("expected slot 2 filled, got %v", s)
	}
	if got := s.Toggle("3"); got != s {
		t.Fatalf("expected toggle on a full selection to be a no-op, got %v", got)
	}
}

func TestToggleRemovingFirstPromotesSecond(t *testing.T) {
	s := NewSelection("1", "2").Toggle("1")
	if s != (Selection{"2", ""}) {
		t.Fatalf("expected slot 2 promoted, got %v", s)
	}
	s = s.Toggle("2")
	if s != (Selection{}) {
		t.Fatalf("expected empty selection, got %v", s)
	}
}

func TestToggleRemovingSecondEmptiesIt(t *testing.T) {
	s := NewSelection("1", "2").Toggle("2")
	if s != (Selection{"1", ""}) {
		t.Fatalf("expected slot 2 emptied, got %v", s)
	}
}

func TestToggleIgnoresBlankIDs(t *testing.T) {
	s := NewSelection("1")
	if got := s.Toggle("  "); got != s {
		t.Fatalf("expected blank toggle to be a no-op, got %v", got)
	}
}

func TestSelectionPriority(t *testing.T) {
	s := NewSelection("4", "9")
	if s.Priority("4") != 1 || s.Priority("9") != 2 || s.Priority("5") != 0 {
		t.Fatalf("unexpected priorities for %v", s)
	}
	if s.Len() != 2 || !s.Full() {
		t.Fatalf("expected a full selection, got %v", s)
	}
}

func TestErrorsFieldRoundTrip(t *testing.T) {
	var errs Errors
	errs = errs.WithMessage(FieldEmail, "bad email").WithMessage(FieldTitle, "missing")
	fields := errs.Fields()
	if fields["email"] != "bad email" || fields["judul"] != "missing" {
		t.Fatalf("unexpected field map: %+v", fields)
	}
	fields["unknown"] = "x"
	back, unknown := FieldErrors(fields)
	if back != errs {
		t.Fatalf("expected %+v, got %+v", errs, back)
	}
	if unknown["unknown"] != "x" {
		t.Fatalf("expected unknown key to be reported, got %+v", unknown)
	}
	step, ok := back.FirstInvalid()
	if !ok || step != StepManuscript {
		t.Fatalf("expected step 2 to be first invalid, got %d %v", step, ok)
	}
}

func TestWithStepReplacesOnlyThatStep(t *testing.T) {
	base := Errors{Step1: Step1Errors{Publishers: "x"}, Step3: Step3Errors{Email: "y"}}
	merged := base.WithStep(StepAuthor, Errors{})
	if merged.HasStep(StepAuthor) {
		t.Fatalf("expected step 3 cleared, got %+v", merged)
	}
	if !merged.HasStep(StepPublishers) {
		t.Fatalf("expected step 1 kept, got %+v", merged)
	}
}
