package manuscripts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/penerbit-id/naskah/internal/metadata"
	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, opts Options) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(
		storage.Publisher{Name: "Gramedia"},
		storage.Publisher{Name: "Mizan"},
	)
	files, err := storage.NewFileStore(t.TempDir(), forms.MaxManuscriptBytes)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	opts.Store = store
	opts.Files = files
	opts.Now = func() time.Time { return fixedNow }
	svc, err := New(opts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func validForm() model.FormState {
	return model.FormState{
		Publishers:    model.NewSelection("1", "2"),
		Title:         " Judul X ",
		Synopsis:      "Sinopsis",
		Category:      "Fiksi",
		ReaderSegment: "dewasa",
		Manuscript: &model.Upload{
			Filename:    "judul-x.pdf",
			ContentType: "application/pdf",
			Size:        8,
			Content:     []byte("%PDF-1.4"),
		},
		AuthorName:    "Budi",
		NationalID:    "1234-5678-9012-3456",
		Phone:         "+62 812 3456 7890",
		Email:         "budi@mail.com",
		PromotionPlan: "Bedah buku di kampus",
	}
}

func TestSubmitStoresSubmissionAndFile(t *testing.T) {
	svc, store := newService(t, Options{})
	receipt, err := svc.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.ID == "" {
		t.Fatalf("expected receipt id")
	}
	wantMsg := `Naskah "Judul X" diterima dengan nomor ` + receipt.ID + "."
	if receipt.Message != wantMsg {
		t.Fatalf("expected %q, got %q", wantMsg, receipt.Message)
	}

	sub, err := store.GetSubmission(context.Background(), receipt.ID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if sub.NationalID != "1234567890123456" || sub.Phone != "+6281234567890" {
		t.Fatalf("expected normalized identity fields, got %q %q", sub.NationalID, sub.Phone)
	}
	if diff := cmp.Diff([]int64{1, 2}, sub.PublisherIDs); diff != "" {
		t.Fatalf("publisher ids mismatch:\n%s", diff)
	}
	if sub.Status != storage.StatusPending || len(sub.History) != 1 {
		t.Fatalf("unexpected submission state %+v", sub)
	}

	_, rc, err := svc.OpenManuscript(context.Background(), receipt.ID)
	if err != nil {
		t.Fatalf("open manuscript: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected stored content %q", data)
	}
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	svc, _ := newService(t, Options{})
	form := validForm()
	form.Email = "a@b"
	form.Title = ""
	_, err := svc.Submit(context.Background(), form)
	var rejected *wizard.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	want := map[string]string{
		"judul": forms.MsgTitleRequired,
		"email": forms.MsgEmailInvalid,
	}
	if diff := cmp.Diff(want, rejected.Fields); diff != "" {
		t.Fatalf("field errors mismatch:\n%s", diff)
	}
}

func TestSubmitRejectsUnknownPublisher(t *testing.T) {
	svc, _ := newService(t, Options{})
	form := validForm()
	form.Publishers = model.NewSelection("99")
	_, err := svc.Submit(context.Background(), form)
	var rejected *wizard.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Fields["penerbit_1"] != forms.MsgPublisherInvalid {
		t.Fatalf("expected penerbit_1 error, got %+v", rejected.Fields)
	}
}

func TestSubmitRejectsEmptyBody(t *testing.T) {
	svc, _ := newService(t, Options{})
	form := validForm()
	form.Manuscript.Content = []byte{}
	_, err := svc.Submit(context.Background(), form)
	var rejected *wizard.RejectedError
	if !errors.As(err, &rejected) || rejected.Fields["file_naskah"] != forms.MsgFileEmpty {
		t.Fatalf("expected empty file rejection, got %v", err)
	}
}

func TestReviewWorkflow(t *testing.T) {
	svc, _ := newService(t, Options{})
	ctx := context.Background()
	receipt, err := svc.Submit(ctx, validForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Review(ctx, ReviewRequest{ID: receipt.ID, Action: "publish"}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := svc.Review(ctx, ReviewRequest{Action: ActionApprove}); !errors.Is(err, ErrMissingIdentifier) {
		t.Fatalf("expected ErrMissingIdentifier, got %v", err)
	}
	if _, err := svc.Advance(ctx, receipt.ID); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}

	result, err := svc.Review(ctx, ReviewRequest{ID: receipt.ID, Action: ActionRevise, Note: "Perbaiki bab 2"})
	if err != nil {
		t.Fatalf("revise: %v", err)
	}
	if result.Submission.Status != storage.StatusRevision || result.Submission.ReviewNote != "Perbaiki bab 2" {
		t.Fatalf("unexpected revision state %+v", result.Submission)
	}

	result, err = svc.Review(ctx, ReviewRequest{ID: receipt.ID, Action: " APPROVE "})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if result.Status != ActionApprove || result.Submission.Stage != storage.StageEditing {
		t.Fatalf("unexpected approval %+v", result)
	}
	if _, err := svc.Review(ctx, ReviewRequest{ID: receipt.ID, Action: ActionReject}); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	var sub storage.Submission
	for _, want := range []storage.Stage{storage.StageLayout, storage.StageProofreading, storage.StagePrinting, storage.StagePublished} {
		sub, err = svc.Advance(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("advance to %s: %v", want, err)
		}
		if sub.Stage != want {
			t.Fatalf("expected stage %s, got %s", want, sub.Stage)
		}
	}
	if _, err := svc.Advance(ctx, receipt.ID); !errors.Is(err, ErrFinalStage) {
		t.Fatalf("expected ErrFinalStage, got %v", err)
	}
	// submitted, revise, approve, and four stage moves
	if len(sub.History) != 7 {
		t.Fatalf("expected 7 history events, got %d", len(sub.History))
	}
}

func TestReviewUnknownSubmission(t *testing.T) {
	svc, _ := newService(t, Options{})
	if _, err := svc.Review(context.Background(), ReviewRequest{ID: "nope", Action: ActionReject}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	svc, _ := newService(t, Options{})
	ctx := context.Background()
	first, err := svc.Submit(ctx, validForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	second := validForm()
	second.Publishers = model.NewSelection("2")
	second.Category = "Puisi"
	if _, err := svc.Submit(ctx, second); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Review(ctx, ReviewRequest{ID: first.ID, Action: ActionApprove}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{
		Total:       2,
		ByStatus:    map[string]int{"approved": 1, "pending": 1},
		ByStage:     map[string]int{"editing": 1},
		ByCategory:  map[string]int{"Fiksi": 1, "Puisi": 1},
		BySegment:   map[string]int{"dewasa": 2},
		ByPublisher: map[string]int{"Gramedia": 1, "Mizan": 2},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

type fakeFetcher struct {
	meta *metadata.Metadata
	err  error
}

func (f fakeFetcher) Fetch(context.Context, string) (*metadata.Metadata, error) {
	return f.meta, f.err
}

func TestAddPublisherUsesWebsiteMetadata(t *testing.T) {
	svc, _ := newService(t, Options{Metadata: fakeFetcher{meta: &metadata.Metadata{
		Title:       "Beranda",
		SiteName:    "Penerbit Nusantara",
		Description: "Penerbit buku anak",
	}}})
	p, err := svc.AddPublisher(context.Background(), PublisherRequest{Website: "https://nusantara.example"})
	if err != nil {
		t.Fatalf("add publisher: %v", err)
	}
	if p.Name != "Penerbit Nusantara" || p.Description != "Penerbit buku anak" || p.ID != 3 {
		t.Fatalf("unexpected publisher %+v", p)
	}

	list, err := svc.WizardPublishers(context.Background())
	if err != nil {
		t.Fatalf("wizard publishers: %v", err)
	}
	if len(list) != 3 || list[2].ID != "3" || list[2].Name != "Penerbit Nusantara" {
		t.Fatalf("unexpected wizard list %+v", list)
	}
}

func TestAddPublisherRequiresName(t *testing.T) {
	svc, _ := newService(t, Options{Metadata: fakeFetcher{err: errors.New("offline")}})
	_, err := svc.AddPublisher(context.Background(), PublisherRequest{Website: "https://x.example"})
	if !errors.Is(err, ErrPublisherName) {
		t.Fatalf("expected ErrPublisherName, got %v", err)
	}
	p, err := svc.AddPublisher(context.Background(), PublisherRequest{Name: "  Republika  "})
	if err != nil || strings.TrimSpace(p.Name) != p.Name {
		t.Fatalf("expected trimmed name, got %+v %v", p, err)
	}
}
