package manuscripts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNoMetadata is returned by CheckPublishers when no fetcher is configured.
var ErrNoMetadata = errors.New("metadata fetcher is not configured")

const publisherCheckWorkers = 4

// PublisherCheckResult summarises a website check over every publisher.
type PublisherCheckResult struct {
	Checked   int                     `json:"checked"`
	Reachable int                     `json:"reachable"`
	Skipped   int                     `json:"skipped"`
	Failed    int                     `json:"failed"`
	Failures  []PublisherCheckFailure `json:"failures,omitempty"`
}

// PublisherCheckFailure captures details about a publisher whose website did not answer.
type PublisherCheckFailure struct {
	PublisherID int64  `json:"publisherId"`
	Name        string `json:"name"`
	Website     string `json:"website"`
	Error       string `json:"error"`
}

// CheckPublishers fetches every publisher website concurrently and reports
// which ones could not be read. Publishers without a website are skipped.
func (s *Service) CheckPublishers(ctx context.Context) (PublisherCheckResult, error) {
	var result PublisherCheckResult
	if s.metadata == nil {
		return result, ErrNoMetadata
	}
	publishers, err := s.store.ListPublishers(ctx)
	if err != nil {
		return result, err
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, publisherCheckWorkers)
	)
	for _, p := range publishers {
		if strings.TrimSpace(p.Website) == "" {
			result.Skipped++
			continue
		}
		result.Checked++
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// the fetcher bounds each site once its throttle slot is granted
			_, err := s.metadata.Fetch(ctx, p.Website)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Failures = append(result.Failures, PublisherCheckFailure{
					PublisherID: p.ID,
					Name:        p.Name,
					Website:     p.Website,
					Error:       err.Error(),
				})
				return
			}
			result.Reachable++
		}()
	}
	wg.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].PublisherID < result.Failures[j].PublisherID
	})
	s.logger.Info("storage", "publisher websites checked", map[string]any{
		"checked":   result.Checked,
		"reachable": result.Reachable,
		"failed":    result.Failed,
	})
	return result, nil
}
