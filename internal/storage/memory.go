package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore provides an in-memory implementation of Store for tests and
// throwaway servers.
type MemoryStore struct {
	mu          sync.RWMutex
	publishers  []Publisher
	submissions []Submission
}

// NewMemoryStore constructs a MemoryStore seeded with publishers.
func NewMemoryStore(publishers ...Publisher) *MemoryStore {
	m := &MemoryStore{}
	for _, p := range publishers {
		_, _ = m.CreatePublisher(context.Background(), p)
	}
	return m
}

// EnsureSchema satisfies the Store interface. No-op for memory store.
func (m *MemoryStore) EnsureSchema(context.Context) error {
	return nil
}

func (m *MemoryStore) ListPublishers(context.Context) ([]Publisher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Publisher(nil), m.publishers...), nil
}

func (m *MemoryStore) GetPublisher(_ context.Context, id int64) (Publisher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.publishers {
		if p.ID == id {
			return p, nil
		}
	}
	return Publisher{}, ErrNotFound
}

// CreatePublisher keeps an explicit id when it is free, otherwise assigns the next one.
func (m *MemoryStore) CreatePublisher(_ context.Context, p Publisher) (Publisher, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Publisher{}, errors.New("storage: publisher name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var maxID int64
	taken := false
	for _, existing := range m.publishers {
		if existing.ID > maxID {
			maxID = existing.ID
		}
		if existing.ID == p.ID {
			taken = true
		}
	}
	if p.ID <= 0 || taken {
		p.ID = maxID + 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.publishers = append(m.publishers, p)
	sort.Slice(m.publishers, func(i, j int) bool { return m.publishers[i].ID < m.publishers[j].ID })
	return p, nil
}

func (m *MemoryStore) ListSubmissions(_ context.Context, filter Filter) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Submission, 0, len(m.submissions))
	for i := len(m.submissions) - 1; i >= 0; i-- {
		if filter.Match(m.submissions[i]) {
			out = append(out, cloneSubmission(m.submissions[i]))
		}
	}
	return out, nil
}

func (m *MemoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := indexOf(m.submissions, id); i >= 0 {
		return cloneSubmission(m.submissions[i]), nil
	}
	return Submission{}, ErrNotFound
}

func (m *MemoryStore) CreateSubmission(_ context.Context, sub Submission) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub = prepareSubmission(cloneSubmission(sub))
	m.submissions = append(m.submissions, sub)
	return cloneSubmission(sub), nil
}

func (m *MemoryStore) UpdateSubmission(_ context.Context, sub Submission) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.submissions, sub.ID)
	if i < 0 {
		return Submission{}, ErrNotFound
	}
	m.submissions[i] = cloneSubmission(sub)
	return cloneSubmission(sub), nil
}

func cloneSubmission(sub Submission) Submission {
	sub.PublisherIDs = append([]int64(nil), sub.PublisherIDs...)
	if sub.History != nil {
		sub.History = append([]Event{}, sub.History...)
	}
	if sub.ReviewedAt != nil {
		at := *sub.ReviewedAt
		sub.ReviewedAt = &at
	}
	return sub
}
