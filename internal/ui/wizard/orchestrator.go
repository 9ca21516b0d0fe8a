package wizard

import (
	"context"
	"errors"

	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/logging"
)

// Submitter delivers a validated form to the submission endpoint.
type Submitter interface {
	Submit(ctx context.Context, form model.FormState) (Receipt, error)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, form model.FormState) (Receipt, error)

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, form model.FormState) (Receipt, error) {
	return f(ctx, form)
}

// Orchestrator runs the confirm, submit, complete sequence.
type Orchestrator struct {
	Submitter Submitter
	Logger    *logging.Logger
}

// ErrNoSubmitter is returned when the orchestrator has nowhere to send forms.
var ErrNoSubmitter = errors.New("wizard: submitter is not configured")

// Submit confirms w, sends its form and records the outcome. The returned
// wizard always reflects that outcome. The error is the transition error when
// w was not awaiting confirmation, or the submission failure for callers that
// want to log it.
func (o *Orchestrator) Submit(ctx context.Context, w Wizard) (Wizard, error) {
	if o == nil || o.Submitter == nil {
		return w, ErrNoSubmitter
	}
	next, err := w.Confirm()
	if err != nil {
		return w, err
	}

	o.log(logging.INFO, "submission started", map[string]any{
		"title":      next.Form.Title,
		"publishers": next.Form.Publishers.IDs(),
	})

	receipt, err := o.Submitter.Submit(ctx, next.Form)
	next = next.Complete(receipt, err)
	if err != nil {
		if o.Logger != nil {
			o.Logger.Error("wizard", "submission failed", err, map[string]any{
				"phase": next.Phase.String(),
				"step":  int(next.Step),
			})
		}
		return next, err
	}

	o.log(logging.INFO, "submission accepted", map[string]any{"id": receipt.ID})
	return next, nil
}

func (o *Orchestrator) log(level logging.Level, msg string, fields map[string]any) {
	if o.Logger == nil {
		return
	}
	o.Logger.Log(level, "wizard", msg, fields)
}
