package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

type fakeBackend struct {
	publishers []wizard.Publisher
	pubErr     error
	submitErr  error
	submitted  []model.FormState
}

func (f *fakeBackend) Publishers(context.Context) ([]wizard.Publisher, error) {
	return f.publishers, f.pubErr
}

func (f *fakeBackend) Submit(_ context.Context, form model.FormState) (wizard.Receipt, error) {
	f.submitted = append(f.submitted, form)
	if f.submitErr != nil {
		return wizard.Receipt{}, f.submitErr
	}
	return wizard.Receipt{ID: "n-1", Message: "Naskah berhasil dikirim."}, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{publishers: []wizard.Publisher{
		{ID: "1", Name: "Gramedia"},
		{ID: "2", Name: "Mizan"},
	}}
}

var (
	keyCtrlN = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyCtrlP = tea.KeyMsg{Type: tea.KeyCtrlP}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = send(t, m, runeKey(r))
	}
	return m
}

func startModel(t *testing.T, backend *fakeBackend) Model {
	t.Helper()
	m := NewModel(context.Background(), backend, nil)
	m, _ = send(t, m, m.Init()())
	return m
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "judul-x.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

// fillForm walks all four steps and stops at the confirmation dialog.
func fillForm(t *testing.T, m Model, pdf string) Model {
	t.Helper()
	m, _ = send(t, m, keySpace, keyCtrlN)
	if m.wiz.Step != model.StepManuscript {
		t.Fatalf("expected step 2, got %d", m.wiz.Step)
	}

	m = typeText(t, m, "Judul X")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "Kisah tentang naskah.")
	m, _ = send(t, m, keyTab, keyRight, keyTab, keyRight, keyRight, keyRight, keyTab)
	m = typeText(t, m, pdf)
	m, _ = send(t, m, keyCtrlN)
	if m.wiz.Step != model.StepAuthor {
		t.Fatalf("expected step 3, got %d (errors %+v)", m.wiz.Step, m.wiz.Errors)
	}

	m = typeText(t, m, "Budi")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "1111111111111111")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "081234567890")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "budi@mail.com")
	m, _ = send(t, m, keyCtrlN)
	if m.wiz.Step != model.StepPromotion {
		t.Fatalf("expected step 4, got %d (errors %+v)", m.wiz.Step, m.wiz.Errors)
	}

	m = typeText(t, m, "Bedah buku di kampus.")
	m, _ = send(t, m, keyCtrlN)
	if m.wiz.Phase != wizard.PhaseConfirming {
		t.Fatalf("expected confirmation, got %s (errors %+v)", m.wiz.Phase, m.wiz.Errors)
	}
	return m
}

func TestWizardEndToEnd(t *testing.T) {
	backend := newBackend()
	m := fillForm(t, startModel(t, backend), writePDF(t))

	view := m.View()
	for _, want := range []string{"Konfirmasi pengiriman", "Judul X", "Penerbit (1)", "Gramedia", "Dewasa", "Budi", "budi@mail.com"} {
		if !strings.Contains(view, want) {
			t.Fatalf("confirmation view is missing %q:\n%s", want, view)
		}
	}

	m, cmd := send(t, m, runeKey('y'))
	if m.wiz.Phase != wizard.PhaseSubmitting || cmd == nil {
		t.Fatalf("expected a submission in flight, got %s", m.wiz.Phase)
	}
	m, _ = send(t, m, runeKey('y'))
	if len(backend.submitted) != 0 {
		t.Fatalf("keys while submitting must not send anything")
	}

	m, _ = send(t, m, cmd())
	if m.wiz.Phase != wizard.PhaseSucceeded || m.wiz.Receipt == nil || m.wiz.Receipt.ID != "n-1" {
		t.Fatalf("expected success, got %s %+v", m.wiz.Phase, m.wiz.Receipt)
	}
	if len(backend.submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(backend.submitted))
	}
	form := backend.submitted[0]
	got := map[string]string{
		"penerbit_1":     form.Publishers.First(),
		"judul":          form.Title,
		"kategori":       form.Category,
		"segmen_pembaca": form.ReaderSegment,
		"file_naskah":    form.Manuscript.Filename,
		"content_type":   form.Manuscript.ContentType,
		"nik":            form.NationalID,
	}
	want := map[string]string{
		"penerbit_1":     "1",
		"judul":          "Judul X",
		"kategori":       forms.CategoryOptions[0].Value,
		"segmen_pembaca": "dewasa",
		"file_naskah":    "judul-x.pdf",
		"content_type":   "application/pdf",
		"nik":            "1111111111111111",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted form mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "Naskah berhasil dikirim.") {
		t.Fatalf("expected the success message in the view")
	}

	m, _ = send(t, m, keyEnter)
	if m.wiz.Phase != wizard.PhaseEditing || m.wiz.Step != model.StepPublishers || m.wiz.Form.Title != "" {
		t.Fatalf("expected a fresh wizard, got %s step %d %+v", m.wiz.Phase, m.wiz.Step, m.wiz.Form)
	}
	if m.texts[model.FieldTitle].Value() != "" {
		t.Fatalf("expected inputs to be cleared")
	}
}

func TestWizardServerRejectionReturnsToStep(t *testing.T) {
	backend := newBackend()
	backend.submitErr = &wizard.RejectedError{
		Message: "Data naskah belum lengkap atau tidak valid.",
		Fields:  map[string]string{"nik": "NIK sudah terdaftar."},
	}
	m := fillForm(t, startModel(t, backend), writePDF(t))

	m, cmd := send(t, m, keyEnter)
	m, _ = send(t, m, cmd())
	if m.wiz.Phase != wizard.PhaseEditing || m.wiz.Step != model.StepAuthor {
		t.Fatalf("expected step 3 editing, got %s step %d", m.wiz.Phase, m.wiz.Step)
	}
	if got := m.wiz.Errors.Message(model.FieldNationalID); got != "NIK sudah terdaftar." {
		t.Fatalf("unexpected nik error %q", got)
	}
	if m.texts[model.FieldAuthorName].Value() != "Budi" {
		t.Fatalf("inputs must survive a rejection")
	}
	if !strings.Contains(m.View(), "NIK sudah terdaftar.") {
		t.Fatalf("expected the field error in the view")
	}
}

func TestWizardNetworkFailureStaysOnConfirmation(t *testing.T) {
	backend := newBackend()
	backend.submitErr = errors.New("connection refused")
	m := fillForm(t, startModel(t, backend), writePDF(t))

	m, cmd := send(t, m, keyEnter)
	m, _ = send(t, m, cmd())
	if m.wiz.Phase != wizard.PhaseConfirming || m.wiz.Alert != wizard.MsgSubmitFailed {
		t.Fatalf("expected confirmation with alert, got %s %q", m.wiz.Phase, m.wiz.Alert)
	}

	m, _ = send(t, m, keyEsc)
	if m.wiz.Phase != wizard.PhaseEditing || m.wiz.Step != model.LastStep {
		t.Fatalf("cancel should return to the last step, got %s step %d", m.wiz.Phase, m.wiz.Step)
	}
}

func TestWizardStepJumpsAreGated(t *testing.T) {
	m := startModel(t, newBackend())

	m, _ = send(t, m, altKey('3'))
	if m.wiz.Step != model.StepPublishers || m.notice != MsgStepLocked {
		t.Fatalf("expected a locked jump, got step %d notice %q", m.wiz.Step, m.notice)
	}

	m, _ = send(t, m, keyDown, keySpace, altKey('2'))
	if m.wiz.Step != model.StepManuscript || m.notice != "" {
		t.Fatalf("expected step 2, got %d notice %q", m.wiz.Step, m.notice)
	}
	if m.wiz.Form.Publishers.First() != "2" {
		t.Fatalf("expected Mizan selected, got %v", m.wiz.Form.Publishers)
	}

	m, _ = send(t, m, altKey('4'))
	if m.wiz.Step != model.StepManuscript || m.notice != MsgStepLocked {
		t.Fatalf("step 4 must stay locked while step 2 is empty")
	}

	m, _ = send(t, m, keyCtrlP)
	if m.wiz.Step != model.StepPublishers {
		t.Fatalf("expected back on step 1, got %d", m.wiz.Step)
	}
}

func TestWizardNextShowsStepErrors(t *testing.T) {
	m := startModel(t, newBackend())
	m, _ = send(t, m, keyCtrlN)
	if m.wiz.Step != model.StepPublishers {
		t.Fatalf("next must not leave an invalid step")
	}
	if !strings.Contains(m.View(), forms.MsgPublisherRequired) {
		t.Fatalf("expected the publisher error in the view:\n%s", m.View())
	}
}

func TestWizardPublisherToggleLimit(t *testing.T) {
	backend := newBackend()
	backend.publishers = append(backend.publishers, wizard.Publisher{ID: "3", Name: "Erlangga"})
	m := startModel(t, backend)

	m, _ = send(t, m, keySpace, keyDown, keySpace, keyDown, keySpace)
	if diff := cmp.Diff([]string{"1", "2"}, m.wiz.Form.Publishers.IDs()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	m, _ = send(t, m, keyDown, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, keySpace)
	if diff := cmp.Diff([]string{"2"}, m.wiz.Form.Publishers.IDs()); diff != "" {
		t.Fatalf("removing priority 1 should promote priority 2 (-want +got):\n%s", diff)
	}
}

func TestWizardPublisherLoadFailure(t *testing.T) {
	backend := newBackend()
	backend.pubErr = errors.New("boom")
	m := startModel(t, backend)
	if m.pubErr != MsgPublishersFailed || !strings.Contains(m.View(), MsgPublishersFailed) {
		t.Fatalf("expected the publisher load error in the view")
	}
}

func TestWizardMissingFileIsReported(t *testing.T) {
	m := startModel(t, newBackend())
	m, _ = send(t, m, keySpace, keyCtrlN)
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, keyTab)
	}
	m = typeText(t, m, filepath.Join(t.TempDir(), "tidak-ada.pdf"))
	m, _ = send(t, m, keyEnter)
	if m.fileErr != MsgFileUnreadable || m.wiz.Form.Manuscript != nil {
		t.Fatalf("expected an unreadable file, got %q %+v", m.fileErr, m.wiz.Form.Manuscript)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/naskah.pdf"); got != filepath.Join(home, "naskah.pdf") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandHome("/tmp/~naskah.pdf"); got != "/tmp/~naskah.pdf" {
		t.Fatalf("only a leading ~ expands, got %q", got)
	}
}

func TestCycleOption(t *testing.T) {
	opts := forms.SegmentOptions
	if got := cycleOption(opts, "", 1); got != opts[0].Value {
		t.Fatalf("expected first option, got %q", got)
	}
	if got := cycleOption(opts, "", -1); got != opts[len(opts)-1].Value {
		t.Fatalf("expected last option, got %q", got)
	}
	if got := cycleOption(opts, opts[len(opts)-1].Value, 1); got != opts[0].Value {
		t.Fatalf("expected wrap around, got %q", got)
	}
}
