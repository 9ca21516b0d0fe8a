package manuscripts

import (
	"context"
	"strconv"

	"github.com/penerbit-id/naskah/internal/storage"
)

// Stats aggregates submissions for the admin dashboard.
type Stats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"byStatus"`
	ByStage     map[string]int `json:"byStage"`
	ByCategory  map[string]int `json:"byCategory"`
	BySegment   map[string]int `json:"bySegment"`
	ByPublisher map[string]int `json:"byPublisher"`
}

// Stats counts every submission along each dimension. A submission naming two
// publishers counts once for each.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	subs, err := s.store.ListSubmissions(ctx, storage.Filter{})
	if err != nil {
		return Stats{}, err
	}
	publishers, err := s.store.ListPublishers(ctx)
	if err != nil {
		return Stats{}, err
	}
	names := make(map[int64]string, len(publishers))
	for _, p := range publishers {
		names[p.ID] = p.Name
	}

	out := Stats{
		Total:       len(subs),
		ByStatus:    map[string]int{},
		ByStage:     map[string]int{},
		ByCategory:  map[string]int{},
		BySegment:   map[string]int{},
		ByPublisher: map[string]int{},
	}
	for _, sub := range subs {
		out.ByStatus[string(sub.Status)]++
		if sub.Stage != storage.StageNone {
			out.ByStage[string(sub.Stage)]++
		}
		out.ByCategory[sub.Category]++
		out.BySegment[sub.ReaderSegment]++
		for _, id := range sub.PublisherIDs {
			name := names[id]
			if name == "" {
				name = strconv.FormatInt(id, 10)
			}
			out.ByPublisher[name]++
		}
	}
	return out, nil
}
