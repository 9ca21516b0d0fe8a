// Package manuscripts accepts wizard submissions and runs the editorial
// workflow that follows them.
package manuscripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penerbit-id/naskah/internal/metadata"
	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
	"github.com/penerbit-id/naskah/logging"
)

// MsgInvalidSubmission heads the rejection returned for invalid forms.
const MsgInvalidSubmission = "Data naskah belum lengkap atau tidak valid."

// MetadataFetcher looks up a publisher website.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*metadata.Metadata, error)
}

// Options configures the Service.
type Options struct {
	Store    storage.Store
	Files    *storage.FileStore
	Metadata MetadataFetcher
	Logger   *logging.Logger
	Now      func() time.Time
}

// Service implements manuscript intake, review and production tracking.
type Service struct {
	store    storage.Store
	files    *storage.FileStore
	metadata MetadataFetcher
	logger   *logging.Logger
	now      func() time.Time
}

// New constructs a Service with the provided options.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("manuscripts: store is not configured")
	}
	if opts.Files == nil {
		return nil, errors.New("manuscripts: file store is not configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("manuscripts", logging.INFO, io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store:    opts.Store,
		files:    opts.Files,
		metadata: opts.Metadata,
		logger:   logger,
		now:      now,
	}, nil
}

var _ wizard.Submitter = (*Service)(nil)

// Submit validates form again, stores the manuscript file and records a
// pending submission. Validation failures come back as *wizard.RejectedError.
func (s *Service) Submit(ctx context.Context, form model.FormState) (wizard.Receipt, error) {
	if errs := forms.ValidateAll(form); !errs.Empty() {
		return wizard.Receipt{}, &wizard.RejectedError{Message: MsgInvalidSubmission, Fields: errs.Fields()}
	}

	publisherIDs, err := s.resolvePublishers(ctx, form.Publishers)
	if err != nil {
		return wizard.Receipt{}, err
	}

	ref, err := s.saveUpload(form.Manuscript)
	if err != nil {
		return wizard.Receipt{}, err
	}

	now := s.now()
	sub := storage.Submission{
		Title:         strings.TrimSpace(form.Title),
		Synopsis:      strings.TrimSpace(form.Synopsis),
		Category:      strings.TrimSpace(form.Category),
		ReaderSegment: strings.TrimSpace(form.ReaderSegment),
		PublisherIDs:  publisherIDs,
		AuthorName:    strings.TrimSpace(form.AuthorName),
		NationalID:    forms.NormalizeNationalID(form.NationalID),
		Phone:         forms.NormalizePhone(form.Phone),
		Email:         strings.TrimSpace(form.Email),
		PromotionPlan: strings.TrimSpace(form.PromotionPlan),
		Manuscript:    ref,
		Status:        storage.StatusPending,
		SubmittedAt:   now,
		History: []storage.Event{
			{At: now, Kind: "submitted", Status: storage.StatusPending},
		},
	}
	saved, err := s.store.CreateSubmission(ctx, sub)
	if err != nil {
		_ = s.files.Remove(ref)
		s.logger.Error("submission", "store submission", err, map[string]any{"title": sub.Title})
		return wizard.Receipt{}, fmt.Errorf("store submission: %w", err)
	}

	s.logger.Info("submission", "manuscript received", map[string]any{
		"id":         saved.ID,
		"title":      saved.Title,
		"publishers": saved.PublisherIDs,
		"bytes":      ref.Size,
	})
	return wizard.Receipt{
		ID:      saved.ID,
		Message: fmt.Sprintf("Naskah \"%s\" diterima dengan nomor %s.", saved.Title, saved.ID),
	}, nil
}

func (s *Service) resolvePublishers(ctx context.Context, sel model.Selection) ([]int64, error) {
	ids := make([]int64, 0, model.MaxPublishers)
	for _, raw := range sel.IDs() {
		id, ok := forms.ParsePublisherID(raw)
		if !ok {
			return nil, rejectField(model.FieldPublisher1, forms.MsgPublisherInvalid)
		}
		if _, err := s.store.GetPublisher(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, rejectField(model.FieldPublisher1, forms.MsgPublisherInvalid)
			}
			return nil, fmt.Errorf("lookup publisher %d: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) saveUpload(upload *model.Upload) (storage.FileRef, error) {
	body, err := upload.Open()
	if err != nil {
		if errors.Is(err, model.ErrNoContent) {
			return storage.FileRef{}, rejectField(model.FieldManuscript, forms.MsgFileEmpty)
		}
		return storage.FileRef{}, fmt.Errorf("open upload: %w", err)
	}
	defer body.Close()

	ref, err := s.files.Save(body, upload.Filename, upload.ContentType)
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return storage.FileRef{}, rejectField(model.FieldManuscript, forms.MsgFileTooLarge)
	case err != nil:
		return storage.FileRef{}, fmt.Errorf("save upload: %w", err)
	}
	if ref.Size == 0 {
		_ = s.files.Remove(ref)
		return storage.FileRef{}, rejectField(model.FieldManuscript, forms.MsgFileEmpty)
	}
	if ref.ContentType == "" {
		ref.ContentType = "application/pdf"
	}
	return ref, nil
}

func rejectField(field model.Field, msg string) *wizard.RejectedError {
	return &wizard.RejectedError{
		Message: MsgInvalidSubmission,
		Fields:  map[string]string{string(field): msg},
	}
}

// List returns submissions matching filter, newest first.
func (s *Service) List(ctx context.Context, filter storage.Filter) ([]storage.Submission, error) {
	return s.store.ListSubmissions(ctx, filter)
}

// Get returns one submission.
func (s *Service) Get(ctx context.Context, id string) (storage.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Submission{}, ErrMissingIdentifier
	}
	return s.store.GetSubmission(ctx, id)
}

// OpenManuscript returns the stored file of a submission.
func (s *Service) OpenManuscript(ctx context.Context, id string) (storage.Submission, io.ReadCloser, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return storage.Submission{}, nil, err
	}
	rc, err := s.files.Open(sub.Manuscript)
	if err != nil {
		return storage.Submission{}, nil, err
	}
	return sub, rc, nil
}
