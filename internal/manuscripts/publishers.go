package manuscripts

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

// ErrPublisherName is returned when a publisher has no name and none could be fetched.
var ErrPublisherName = errors.New("publisher name is required")

// PublisherRequest is the admin payload for registering a publisher.
type PublisherRequest struct {
	Name        string `json:"name" yaml:"name"`
	Website     string `json:"website" yaml:"website"`
	Description string `json:"description" yaml:"description"`
	Email       string `json:"email" yaml:"email"`
}

// Publishers lists every registered publisher.
func (s *Service) Publishers(ctx context.Context) ([]storage.Publisher, error) {
	return s.store.ListPublishers(ctx)
}

// WizardPublishers returns the publisher list in the shape the wizard loads.
func (s *Service) WizardPublishers(ctx context.Context) ([]wizard.Publisher, error) {
	publishers, err := s.store.ListPublishers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]wizard.Publisher, 0, len(publishers))
	for _, p := range publishers {
		out = append(out, wizard.Publisher{ID: strconv.FormatInt(p.ID, 10), Name: p.Name})
	}
	return out, nil
}

// AddPublisher registers a publisher. Missing name or description are filled
// from the website when a metadata fetcher is configured.
func (s *Service) AddPublisher(ctx context.Context, req PublisherRequest) (storage.Publisher, error) {
	p := storage.Publisher{
		Name:        strings.TrimSpace(req.Name),
		Website:     strings.TrimSpace(req.Website),
		Description: strings.TrimSpace(req.Description),
		Email:       strings.TrimSpace(req.Email),
	}
	if (p.Name == "" || p.Description == "") && p.Website != "" && s.metadata != nil {
		meta, err := s.metadata.Fetch(ctx, p.Website)
		if err != nil {
			s.logger.Warn("storage", "publisher metadata unavailable", map[string]any{
				"website": p.Website,
				"error":   err.Error(),
			})
		} else if meta != nil {
			if p.Name == "" {
				p.Name = firstNonBlank(meta.SiteName, meta.Title)
			}
			if p.Description == "" {
				p.Description = meta.Description
			}
		}
	}
	if p.Name == "" {
		return storage.Publisher{}, ErrPublisherName
	}
	saved, err := s.store.CreatePublisher(ctx, p)
	if err != nil {
		return storage.Publisher{}, err
	}
	s.logger.Info("storage", "publisher registered", map[string]any{"id": saved.ID, "name": saved.Name})
	return saved, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
