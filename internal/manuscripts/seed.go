package manuscripts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// seedFile is the layout of a publisher seed file.
type seedFile struct {
	Publishers []PublisherRequest `json:"publishers" yaml:"publishers"`
}

// LoadSeed reads publisher requests from a YAML or JSON file, chosen by extension.
func LoadSeed(path string) ([]PublisherRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed seedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &seed)
	default:
		err = json.Unmarshal(data, &seed)
	}
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return seed.Publishers, nil
}

// SeedPublishers registers every request whose name is not taken yet and
// reports how many were added. Running it twice adds nothing the second time.
func (s *Service) SeedPublishers(ctx context.Context, reqs []PublisherRequest) (int, error) {
	existing, err := s.store.ListPublishers(ctx)
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[strings.ToLower(strings.TrimSpace(p.Name))] = true
	}

	added := 0
	for _, req := range reqs {
		key := strings.ToLower(strings.TrimSpace(req.Name))
		if key != "" && taken[key] {
			continue
		}
		p, err := s.AddPublisher(ctx, req)
		if err != nil {
			return added, fmt.Errorf("seed publisher %q: %w", req.Name, err)
		}
		taken[strings.ToLower(p.Name)] = true
		added++
	}
	return added, nil
}
