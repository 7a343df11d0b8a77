package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/chenterphai/releasehub/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

const DefaultReleaseIndex = "releases"

// ReleaseIndex mirrors release records into Elasticsearch for the
// search endpoint. All writes are best effort; the database stays the
// source of truth.
type ReleaseIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewReleaseIndex(es *elasticsearch.Client, index string) *ReleaseIndex {
	if index == "" {
		index = DefaultReleaseIndex
	}
	return &ReleaseIndex{ES: es, Index: index}
}

func (ix *ReleaseIndex) Enabled() bool {
	return ix != nil && ix.ES != nil
}

func (ix *ReleaseIndex) IndexRelease(ctx context.Context, rel *models.Release) error {
	if !ix.Enabled() {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(rel); err != nil {
		return fmt.Errorf("encode release: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithDocumentID(rel.ID.String()),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index release: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index release: %s", res.Status())
	}
	return nil
}

func (ix *ReleaseIndex) DeleteRelease(ctx context.Context, id string) error {
	if !ix.Enabled() {
		return nil
	}

	res, err := ix.ES.Delete(ix.Index, id, ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete release from index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete release from index: %s", res.Status())
	}
	return nil
}

func (ix *ReleaseIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Release, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search releases: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search releases: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Release `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	releases := make([]models.Release, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		releases[i] = hit.Source
	}
	return r.Hits.Total.Value, releases, nil
}
