package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JSONStore persists publishers and submissions to JSON files on disk.
type JSONStore struct {
	mu              sync.Mutex
	publishersPath  string
	submissionsPath string
}

// NewJSONStore returns a configured store that reads and writes JSON payloads.
func NewJSONStore(publishersPath, submissionsPath string) (*JSONStore, error) {
	if publishersPath == "" {
		return nil, errors.New("storage: publishers path is required")
	}
	if submissionsPath == "" {
		return nil, errors.New("storage: submissions path is required")
	}
	store := &JSONStore{
		publishersPath:  publishersPath,
		submissionsPath: submissionsPath,
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates both files when they do not exist yet.
func (s *JSONStore) EnsureSchema(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ensureFile(s.publishersPath); err != nil {
		return err
	}
	return ensureFile(s.submissionsPath)
}

// ListPublishers returns every publisher ordered by id.
func (s *JSONStore) ListPublishers(context.Context) ([]Publisher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var publishers []Publisher
	if err := readJSON(s.publishersPath, &publishers); err != nil {
		return nil, err
	}
	return publishers, nil
}

// GetPublisher returns the publisher with id.
func (s *JSONStore) GetPublisher(_ context.Context, id int64) (Publisher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var publishers []Publisher
	if err := readJSON(s.publishersPath, &publishers); err != nil {
		return Publisher{}, err
	}
	for _, p := range publishers {
		if p.ID == id {
			return p, nil
		}
	}
	return Publisher{}, ErrNotFound
}

// CreatePublisher appends a publisher and assigns the next numeric id.
func (s *JSONStore) CreatePublisher(_ context.Context, p Publisher) (Publisher, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Publisher{}, errors.New("storage: publisher name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var publishers []Publisher
	if err := readJSON(s.publishersPath, &publishers); err != nil {
		return Publisher{}, err
	}
	var maxID int64
	for _, existing := range publishers {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	publishers = append(publishers, p)
	if err := writeJSON(s.publishersPath, publishers); err != nil {
		return Publisher{}, err
	}
	return p, nil
}

// ListSubmissions returns the submissions matching filter, newest first.
func (s *JSONStore) ListSubmissions(_ context.Context, filter Filter) ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var submissions []Submission
	if err := readJSON(s.submissionsPath, &submissions); err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(submissions))
	for i := len(submissions) - 1; i >= 0; i-- {
		if filter.Match(submissions[i]) {
			out = append(out, submissions[i])
		}
	}
	return out, nil
}

// GetSubmission returns the submission with id.
func (s *JSONStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var submissions []Submission
	if err := readJSON(s.submissionsPath, &submissions); err != nil {
		return Submission{}, err
	}
	if i := indexOf(submissions, id); i >= 0 {
		return submissions[i], nil
	}
	return Submission{}, ErrNotFound
}

// CreateSubmission stores a new submission, assigning an id when missing.
func (s *JSONStore) CreateSubmission(_ context.Context, sub Submission) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var submissions []Submission
	if err := readJSON(s.submissionsPath, &submissions); err != nil {
		return Submission{}, err
	}
	sub = prepareSubmission(sub)
	submissions = append(submissions, sub)
	if err := writeJSON(s.submissionsPath, submissions); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// UpdateSubmission replaces an existing submission.
func (s *JSONStore) UpdateSubmission(_ context.Context, sub Submission) (Submission, error) {
	if sub.ID == "" {
		return Submission{}, errors.New("storage: update requires submission id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var submissions []Submission
	if err := readJSON(s.submissionsPath, &submissions); err != nil {
		return Submission{}, err
	}
	i := indexOf(submissions, sub.ID)
	if i < 0 {
		return Submission{}, ErrNotFound
	}
	submissions[i] = sub
	if err := writeJSON(s.submissionsPath, submissions); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func prepareSubmission(sub Submission) Submission {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	if sub.Status == "" {
		sub.Status = StatusPending
	}
	if sub.History == nil {
		sub.History = []Event{}
	}
	if sub.PublisherIDs == nil {
		sub.PublisherIDs = []int64{}
	}
	return sub
}

func indexOf(submissions []Submission, id string) int {
	for i, sub := range submissions {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("[]\n"), 0o644)
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("storage: decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path through a temp file so readers never see a partial write.
func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
