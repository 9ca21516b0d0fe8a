package wizard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
)

var testPublishers = []Publisher{
	{ID: "1", Name: "Penerbit Satu"},
	{ID: "2", Name: "Penerbit Dua"},
}

func filledWizard() Wizard {
	w := New(testPublishers, "")
	return w.Update(
		model.TogglePublisher("1"),
		model.SetAll(map[model.Field]string{
			model.FieldTitle:         "Judul X",
			model.FieldSynopsis:      "Sinopsis singkat",
			model.FieldCategory:      "Fiksi",
			model.FieldReaderSegment: "dewasa",
			model.FieldAuthorName:    "Budi",
			model.FieldNationalID:    "1111111111111111",
			model.FieldPhone:         "081234567890",
			model.FieldEmail:         "budi@mail.com",
			model.FieldPromotionPlan: "Promosi lewat komunitas",
		}),
		model.Attach(&model.Upload{
			Filename:    "naskah.pdf",
			ContentType: "application/pdf",
			Size:        4,
			Content:     []byte("%PDF"),
		}),
	)
}

func TestNewStartsOnFirstStep(t *testing.T) {
	w := New(testPublishers, "")
	if w.Step != model.StepPublishers || w.Phase != PhaseEditing {
		t.Fatalf("unexpected initial state: step=%d phase=%s", w.Step, w.Phase)
	}
	if w.Receipt != nil {
		t.Fatalf("expected no receipt")
	}
}

func TestNewWithFlashOpensSuccess(t *testing.T) {
	w := New(testPublishers, "Naskah diterima.")
	if w.Phase != PhaseSucceeded || w.Receipt == nil || w.Receipt.Message != "Naskah diterima." {
		t.Fatalf("expected success state, got %+v", w)
	}
	restarted := w.Restart()
	if restarted.Phase != PhaseEditing || restarted.Receipt != nil {
		t.Fatalf("expected restart to open a fresh wizard, got %+v", restarted)
	}
}

func TestNextBlocksOnInvalidStep(t *testing.T) {
	w := New(testPublishers, "")
	next := w.Next()
	if next.Step != model.StepPublishers {
		t.Fatalf("expected to stay on step 1, got %d", next.Step)
	}
	if next.Errors.Step1.Publishers != forms.MsgPublisherRequired {
		t.Fatalf("expected publisher error, got %+v", next.Errors)
	}
	if w.Errors.HasStep(model.StepPublishers) {
		t.Fatalf("receiver must not be mutated")
	}
}

func TestNextMergesOnlyCurrentStep(t *testing.T) {
	w := New(testPublishers, "")
	w.Errors = w.Errors.WithMessage(model.FieldEmail, "lama")
	w = w.Update(model.TogglePublisher("1")).Next()
	if w.Step != model.StepManuscript {
		t.Fatalf("expected step 2, got %d", w.Step)
	}
	if w.Errors.HasStep(model.StepPublishers) {
		t.Fatalf("expected step 1 errors cleared, got %+v", w.Errors.Step1)
	}
	if w.Errors.Step3.Email != "lama" {
		t.Fatalf("expected other steps untouched, got %+v", w.Errors.Step3)
	}
}

func TestBackNeverGoesBelowFirstStep(t *testing.T) {
	w := New(testPublishers, "").Back()
	if w.Step != model.StepPublishers {
		t.Fatalf("expected step 1, got %d", w.Step)
	}
	w = filledWizard().Next().Next().Back()
	if w.Step != model.StepManuscript {
		t.Fatalf("expected step 2, got %d", w.Step)
	}
}

func TestGoToRespectsGate(t *testing.T) {
	w := New(testPublishers, "")
	if _, err := w.GoTo(model.StepAuthor); !errors.Is(err, ErrStepGated) {
		t.Fatalf("expected ErrStepGated, got %v", err)
	}
	w, err := filledWizard().GoTo(model.StepPromotion)
	if err != nil {
		t.Fatalf("expected jump to succeed: %v", err)
	}
	if w.Step != model.StepPromotion {
		t.Fatalf("expected step 4, got %d", w.Step)
	}
}

func TestRequestSubmitJumpsToFirstInvalidStep(t *testing.T) {
	w := filledWizard().Update(model.Set(model.FieldEmail, "bukan-email"))
	w, _ = w.GoTo(model.StepPromotion)
	w = w.RequestSubmit()
	if w.Phase != PhaseEditing || w.Step != model.StepAuthor {
		t.Fatalf("expected editing step 3, got phase=%s step=%d", w.Phase, w.Step)
	}
	if w.Errors.Step3.Email != forms.MsgEmailInvalid {
		t.Fatalf("expected email error, got %+v", w.Errors.Step3)
	}
}

func TestRequestSubmitOutcomeIgnoresStartingStep(t *testing.T) {
	for _, step := range model.Steps {
		w := filledWizard()
		w.Step = step
		if got := w.RequestSubmit(); got.Phase != PhaseConfirming {
			t.Fatalf("from step %d: expected confirming, got %s", step, got.Phase)
		}

		w = w.Update(model.Set(model.FieldTitle, " "))
		got := w.RequestSubmit()
		if got.Phase != PhaseEditing || got.Step != model.StepManuscript {
			t.Fatalf("from step %d: expected editing step 2, got phase=%s step=%d", step, got.Phase, got.Step)
		}
	}
}

func TestConfirmationSummary(t *testing.T) {
	w := filledWizard().RequestSubmit()
	if w.Phase != PhaseConfirming {
		t.Fatalf("expected confirming, got %s (%+v)", w.Phase, w.Errors)
	}
	want := Summary{
		Title:          "Judul X",
		PublisherCount: 1,
		PublisherNames: []string{"Penerbit Satu"},
		Category:       "Fiksi",
		ReaderSegment:  "dewasa",
		FileName:       "naskah.pdf",
		FileSize:       "4 B",
		AuthorName:     "Budi",
		Email:          "budi@mail.com",
	}
	if diff := cmp.Diff(want, w.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelReturnsToLastStep(t *testing.T) {
	w := filledWizard().RequestSubmit().Cancel()
	if w.Phase != PhaseEditing || w.Step != model.StepPromotion {
		t.Fatalf("expected editing step 4, got phase=%s step=%d", w.Phase, w.Step)
	}
}

func TestConfirmRejectsDoubleSubmit(t *testing.T) {
	w := filledWizard()
	if _, err := w.Confirm(); !errors.Is(err, ErrNotConfirming) {
		t.Fatalf("expected ErrNotConfirming, got %v", err)
	}
	w, err := w.RequestSubmit().Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if w.Phase != PhaseSubmitting {
		t.Fatalf("expected submitting, got %s", w.Phase)
	}
	if _, err := w.Confirm(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
}

func TestCompleteSuccessResetsForm(t *testing.T) {
	w, _ := filledWizard().RequestSubmit().Confirm()
	w = w.Complete(Receipt{ID: "abc", Message: "ok"}, nil)
	if w.Phase != PhaseSucceeded || w.Receipt == nil || w.Receipt.ID != "abc" {
		t.Fatalf("expected success, got %+v", w)
	}
	if w.Form != (model.FormState{}) {
		t.Fatalf("expected empty form, got %+v", w.Form)
	}
	if len(w.Publishers) != len(testPublishers) {
		t.Fatalf("expected publishers kept")
	}
}

func TestCompleteNetworkFailureReturnsToConfirmation(t *testing.T) {
	w, _ := filledWizard().RequestSubmit().Confirm()
	w = w.Complete(Receipt{}, errors.New("dial tcp: connection refused"))
	if w.Phase != PhaseConfirming || w.Alert != MsgSubmitFailed {
		t.Fatalf("expected confirming with alert, got phase=%s alert=%q", w.Phase, w.Alert)
	}
	if w.Form.Title != "Judul X" {
		t.Fatalf("expected form to be kept")
	}
}

func TestCompleteMapsServerFieldErrors(t *testing.T) {
	w, _ := filledWizard().RequestSubmit().Confirm()
	rejected := &RejectedError{
		Message: "Data tidak valid.",
		Fields: map[string]string{
			"judul": "Judul sudah dipakai.",
			"email": "Email diblokir.",
		},
	}
	w = w.Complete(Receipt{}, rejected)
	if w.Phase != PhaseEditing || w.Step != model.StepManuscript {
		t.Fatalf("expected editing step 2, got phase=%s step=%d", w.Phase, w.Step)
	}
	if w.Errors.Step2.Title != "Judul sudah dipakai." || w.Errors.Step3.Email != "Email diblokir." {
		t.Fatalf("expected field errors mapped, got %+v", w.Errors)
	}
	if w.Alert != "Data tidak valid. Judul sudah dipakai. Email diblokir." {
		t.Fatalf("unexpected alert %q", w.Alert)
	}
}

func TestCompleteRejectionWithoutFieldsStaysConfirming(t *testing.T) {
	w, _ := filledWizard().RequestSubmit().Confirm()
	w = w.Complete(Receipt{}, &RejectedError{Message: "Penerbit sedang tutup."})
	if w.Phase != PhaseConfirming || w.Alert != "Penerbit sedang tutup." {
		t.Fatalf("expected confirming with server message, got phase=%s alert=%q", w.Phase, w.Alert)
	}
}

func TestUpdateIgnoredOutsideEditing(t *testing.T) {
	w := filledWizard().RequestSubmit()
	if got := w.Update(model.Set(model.FieldTitle, "Lain")); got.Form.Title != "Judul X" {
		t.Fatalf("expected edits ignored while confirming")
	}
}
