package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

var _ research.PhytochemicalDatabase = (*PhytochemicalIndex)(nil)

// PhytochemicalIndex answers plant lookups from the compound index.
type PhytochemicalIndex struct {
	client *Client
	index  string
	size   int
	logger logging.Logger
}

// NewPhytochemicalIndex reads from index, returning at most size compounds
// per lookup (100 when size <= 0).
func NewPhytochemicalIndex(client *Client, index string, size int, logger logging.Logger) *PhytochemicalIndex {
	if size <= 0 {
		size = 100
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PhytochemicalIndex{client: client, index: index, size: size, logger: logger}
}

// lookupQuery matches the plant exactly, narrows by part when given and
// keeps documents listed in any of the selected databases.
func lookupQuery(plant, part string, databases []string, size int) map[string]any {
	filters := []any{
		map[string]any{"term": map[string]any{"plant": plant}},
		map[string]any{"terms": map[string]any{"databases": databases}},
	}
	if part != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"plant_part": part}})
	}
	return map[string]any{
		"size":  size,
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
		"sort":  []any{map[string]any{"compound_id": "asc"}},
	}
}

// Lookup implements research.PhytochemicalDatabase.  The same compound
// found through several parts is returned once.
func (p *PhytochemicalIndex) Lookup(ctx context.Context, plantName, plantPart string, databases research.DatabaseFlags) ([]research.Compound, error) {
	plantName = strings.TrimSpace(plantName)
	if plantName == "" {
		return nil, errors.Validation("plantName", "plant name is required")
	}
	if !databases.Any() {
		return nil, errors.Validation("databases", "select at least one database")
	}

	body, err := json.Marshal(lookupQuery(plantName, strings.TrimSpace(plantPart), databases.Names(), p.size))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode lookup query")
	}
	resp, err := opensearchapi.SearchRequest{
		Index: []string{p.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, p.client.GetClient())
	if err != nil {
		return nil, errors.ServiceUnavailable(research.ServicePhytochemicals, err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		msg, _ := io.ReadAll(resp.Body)
		return nil, errors.ServiceUnavailable(research.ServicePhytochemicals,
			errors.Newf(errors.ErrCodeInternal, "search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source CompoundDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode search response")
	}

	seen := make(map[string]bool, len(result.Hits.Hits))
	out := make([]research.Compound, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		if seen[h.Source.CompoundID] {
			continue
		}
		seen[h.Source.CompoundID] = true
		out = append(out, h.Source.Compound())
	}
	p.logger.Debug("Phytochemical lookup",
		logging.String("plant", plantName),
		logging.String("part", plantPart),
		logging.Int("compounds", len(out)))
	return out, nil
}
