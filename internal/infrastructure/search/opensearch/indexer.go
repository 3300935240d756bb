package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// CompoundDocument is the indexed form of one phytochemical of one plant
// part.
type CompoundDocument struct {
	CompoundID      string   `json:"compound_id"`
	Name            string   `json:"name"`
	Source          string   `json:"source,omitempty"`
	SMILES          string   `json:"smiles,omitempty"`
	Formula         string   `json:"formula,omitempty"`
	MolecularWeight float64  `json:"molecular_weight,omitempty"`
	InChI           string   `json:"inchi,omitempty"`
	Plant           string   `json:"plant"`
	PlantPart       string   `json:"plant_part"`
	Databases       []string `json:"databases"`
}

// DocumentFor builds the document of c as found in plant/part.
func DocumentFor(plant, part string, c research.Compound, databases []string) CompoundDocument {
	return CompoundDocument{
		CompoundID:      c.ID,
		Name:            c.Name,
		Source:          c.Source,
		SMILES:          c.SMILES,
		Formula:         c.Formula,
		MolecularWeight: c.MolecularWeight,
		InChI:           c.InChI,
		Plant:           plant,
		PlantPart:       part,
		Databases:       append([]string(nil), databases...),
	}
}

// Compound converts the document back into a record.
func (d CompoundDocument) Compound() research.Compound {
	return research.Compound{
		ID:              d.CompoundID,
		Name:            d.Name,
		Source:          d.Source,
		SMILES:          d.SMILES,
		Formula:         d.Formula,
		MolecularWeight: d.MolecularWeight,
		InChI:           d.InChI,
	}
}

// docID keeps one document per compound, plant and part.
func (d CompoundDocument) docID() string {
	return strings.ToLower(strings.Join([]string{d.Plant, d.PlantPart, d.CompoundID}, "|"))
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "compound_id":      {"type": "keyword"},
      "name":             {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "source":           {"type": "keyword"},
      "smiles":           {"type": "keyword", "index": false},
      "formula":          {"type": "keyword"},
      "molecular_weight": {"type": "float"},
      "inchi":            {"type": "keyword", "index": false},
      "plant":            {"type": "keyword", "normalizer": "lowercase"},
      "plant_part":       {"type": "keyword", "normalizer": "lowercase"},
      "databases":        {"type": "keyword"}
    }
  },
  "settings": {
    "analysis": {"normalizer": {"lowercase": {"type": "custom", "filter": ["lowercase"]}}}
  }
}`

// Indexer creates the phytochemical index and loads documents into it.
type Indexer struct {
	client  *Client
	index   string
	refresh string
	logger  logging.Logger
}

// NewIndexer writes into index.  refresh is passed to every bulk request
// ("true", "false" or "wait_for").
func NewIndexer(client *Client, index, refresh string, logger logging.Logger) *Indexer {
	if refresh == "" {
		refresh = "false"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Indexer{client: client, index: index, refresh: refresh, logger: logger}
}

// EnsureIndex creates the index with its mapping unless it exists.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := opensearchapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.ServiceUnavailable(ServiceName, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	resp, err := opensearchapi.IndicesCreateRequest{
		Index: i.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.ServiceUnavailable(ServiceName, err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		body, _ := io.ReadAll(resp.Body)
		return errors.Newf(errors.ErrCodeInternal, "create index %s: %s", i.index, strings.TrimSpace(string(body)))
	}
	i.logger.Info("Created index", logging.String("index", i.index))
	return nil
}

// BulkIndex writes docs with one bulk request and returns how many items
// the cluster rejected.
func (i *Indexer) BulkIndex(ctx context.Context, docs []CompoundDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		meta := map[string]map[string]string{"index": {"_index": i.index, "_id": d.docID()}}
		if err := enc.Encode(meta); err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeSerialization, "encode bulk meta")
		}
		if err := enc.Encode(d); err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeSerialization, "encode bulk document")
		}
	}

	resp, err := opensearchapi.BulkRequest{Body: &buf, Refresh: i.refresh}.Do(ctx, i.client.GetClient())
	if err != nil {
		return 0, errors.ServiceUnavailable(ServiceName, err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return 0, errors.Newf(errors.ErrCodeServiceUnavailable, "bulk request returned status %d", resp.StatusCode)
	}

	var result struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeSerialization, "decode bulk response")
	}
	failed := 0
	if result.Errors {
		for _, item := range result.Items {
			for _, op := range item {
				if op.Status >= 300 {
					failed++
				}
			}
		}
	}
	i.logger.Info("Bulk indexed compounds",
		logging.String("index", i.index),
		logging.Int("documents", len(docs)),
		logging.Int("failed", failed))
	if failed > 0 {
		return failed, errors.New(errors.ErrCodeInternal, fmt.Sprintf("%d of %d documents rejected", failed, len(docs)))
	}
	return 0, nil
}
