package wizard

import (
	"errors"
	"sort"
	"strings"

	"github.com/penerbit-id/naskah/internal/ui/model"
)

var (
	// ErrStepGated is returned by GoTo when an earlier step does not validate.
	ErrStepGated = errors.New("wizard: step is not reachable yet")
	// ErrNotEditing is returned by transitions that only apply while editing.
	ErrNotEditing = errors.New("wizard: not editing")
	// ErrNotConfirming is returned by Confirm outside the confirmation phase.
	ErrNotConfirming = errors.New("wizard: nothing to confirm")
	// ErrSubmissionInFlight is returned by Confirm while a submission is running.
	ErrSubmissionInFlight = errors.New("wizard: submission already in progress")
)

// MsgSubmitFailed is the alert shown when a submission fails for a reason the
// server did not explain.
const MsgSubmitFailed = "Naskah gagal dikirim. Periksa koneksi Anda lalu coba lagi."

// RejectedError reports a submission refused by the server's own validation.
// Fields is keyed by wire field name.
type RejectedError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

// Error joins the server message and every field message into one line.
func (e *RejectedError) Error() string {
	if e == nil {
		return ""
	}
	var parts []string
	seen := make(map[string]bool)
	add := func(msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" || seen[msg] {
			return
		}
		seen[msg] = true
		parts = append(parts, msg)
	}
	add(e.Message)
	for _, field := range model.ErrorFields {
		add(e.Fields[string(field)])
	}
	if msg := e.Fields[string(model.FieldPublisher2)]; msg != "" {
		add(msg)
	}
	extra := make([]string, 0)
	for key := range e.Fields {
		if _, ok := model.StepOf(model.Field(key)); !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		add(e.Fields[key])
	}
	if len(parts) == 0 {
		return "naskah ditolak"
	}
	return strings.Join(parts, " ")
}

// Errors maps the field messages back onto the wizard steps.
func (e *RejectedError) Errors() model.Errors {
	if e == nil {
		return model.Errors{}
	}
	errs, _ := model.FieldErrors(e.Fields)
	return errs
}
