// Package wizard drives the four-step manuscript submission flow.
//
// A Wizard is a plain value. Every transition returns the next value and
// leaves the receiver untouched, so callers can keep one per session (or per
// terminal program) and swap it atomically.
package wizard

import (
	"errors"
	"strings"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
)

// Phase is the coarse state of the wizard.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseConfirming
	PhaseSubmitting
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseConfirming:
		return "confirming"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Publisher is an entry of the publisher list loaded when the wizard opens.
type Publisher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Receipt is returned by the submission endpoint on success.
type Receipt struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Wizard is the full state of one submission flow.
type Wizard struct {
	Form       model.FormState
	Step       model.Step
	Phase      Phase
	Errors     model.Errors
	Alert      string
	Receipt    *Receipt
	Publishers []Publisher
}

// New opens a wizard on step 1. A non-empty flash message comes from the
// redirect after a successful submission and opens the success state directly.
func New(publishers []Publisher, flash string) Wizard {
	w := Wizard{
		Step:       model.FirstStep,
		Phase:      PhaseEditing,
		Publishers: append([]Publisher(nil), publishers...),
	}
	if flash = strings.TrimSpace(flash); flash != "" {
		w.Phase = PhaseSucceeded
		w.Receipt = &Receipt{Message: flash}
	}
	return w
}

// PublisherName resolves id against the loaded publisher list.
func (w Wizard) PublisherName(id string) string {
	for _, p := range w.Publishers {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// Accessible reports which steps the step bar may link to.
func (w Wizard) Accessible() map[model.Step]bool {
	return forms.Accessible(w.Form, w.Step)
}

// Update applies form edits. Edits are ignored outside the editing phase.
func (w Wizard) Update(updates ...model.Update) Wizard {
	if w.Phase != PhaseEditing {
		return w
	}
	w.Form = model.Apply(w.Form, updates...)
	w.Alert = ""
	return w
}

// Next validates the current step and advances when it is clean. The current
// step's error record is replaced either way; other steps keep theirs.
func (w Wizard) Next() Wizard {
	if w.Phase != PhaseEditing || w.Step >= model.LastStep {
		return w
	}
	errs := forms.ValidateStep(w.Form, w.Step)
	w.Errors = w.Errors.WithStep(w.Step, errs)
	if errs.HasStep(w.Step) {
		return w
	}
	w.Step++
	return w
}

// Back moves one step back without validating.
func (w Wizard) Back() Wizard {
	if w.Phase != PhaseEditing || w.Step <= model.FirstStep {
		return w
	}
	w.Step--
	return w
}

// GoTo jumps to target when the step gate allows it.
func (w Wizard) GoTo(target model.Step) (Wizard, error) {
	if w.Phase != PhaseEditing {
		return w, ErrNotEditing
	}
	if !forms.CanNavigate(w.Form, w.Step, target) {
		return w, ErrStepGated
	}
	w.Step = target
	return w, nil
}

// RequestSubmit validates every step. Errors are rebuilt from scratch and the
// wizard moves to the first invalid step; a clean form moves to confirmation.
// It is accepted from any editing step, not only the last: the web form only
// offers it on step 4, while the terminal wizard (ctrl+s) and the check and
// submit commands call it on a form filled in one go. Full validation makes
// the starting step irrelevant to the outcome.
func (w Wizard) RequestSubmit() Wizard {
	if w.Phase != PhaseEditing {
		return w
	}
	errs := forms.ValidateAll(w.Form)
	w.Errors = errs
	if step, invalid := errs.FirstInvalid(); invalid {
		w.Step = step
		return w
	}
	w.Phase = PhaseConfirming
	w.Alert = ""
	return w
}

// Cancel leaves the confirmation dialog and returns to the last step.
func (w Wizard) Cancel() Wizard {
	if w.Phase != PhaseConfirming {
		return w
	}
	w.Phase = PhaseEditing
	w.Step = model.LastStep
	return w
}

// Confirm marks the submission as in flight.
func (w Wizard) Confirm() (Wizard, error) {
	switch w.Phase {
	case PhaseSubmitting:
		return w, ErrSubmissionInFlight
	case PhaseConfirming:
		w.Phase = PhaseSubmitting
		w.Alert = ""
		return w, nil
	default:
		return w, ErrNotConfirming
	}
}

// Complete records the outcome of a submission. Success resets the form and
// opens the success state. Field errors from the server send the wizard back
// to the first step they belong to; any other failure returns to the
// confirmation dialog with an alert.
func (w Wizard) Complete(receipt Receipt, err error) Wizard {
	if w.Phase != PhaseSubmitting {
		return w
	}
	if err == nil {
		w.Form = model.Reset()
		w.Errors = model.Errors{}
		w.Step = model.FirstStep
		w.Phase = PhaseSucceeded
		w.Alert = ""
		w.Receipt = &receipt
		return w
	}

	var rejected *RejectedError
	if errors.As(err, &rejected) {
		w.Alert = rejected.Error()
		errs := rejected.Errors()
		if step, ok := errs.FirstInvalid(); ok {
			w.Errors = errs
			w.Step = step
			w.Phase = PhaseEditing
			return w
		}
		w.Phase = PhaseConfirming
		return w
	}

	w.Alert = MsgSubmitFailed
	w.Phase = PhaseConfirming
	return w
}

// Restart opens a fresh wizard after a successful submission.
func (w Wizard) Restart() Wizard {
	if w.Phase != PhaseSucceeded {
		return w
	}
	return New(w.Publishers, "")
}

// Dismiss clears the blocking alert.
func (w Wizard) Dismiss() Wizard {
	w.Alert = ""
	return w
}
