package content

import (
	"context"
	"strings"

	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/models"
)

// CareerIndexMapping is the Elasticsearch mapping of the careers index.
const CareerIndexMapping = `{
	"mappings": {
		"properties": {
			"id":           {"type": "keyword"},
			"title":        {"type": "text"},
			"department":   {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"location":     {"type": "text"},
			"type":         {"type": "keyword"},
			"experience":   {"type": "keyword"},
			"description":  {"type": "text"},
			"requirements": {"type": "text"},
			"benefits":     {"type": "text"},
			"isActive":     {"type": "boolean"},
			"featured":     {"type": "boolean"},
			"postedDate":   {"type": "date"}
		}
	}
}`

const DefaultSearchLimit = 20

// SearchBackend runs a raw query body against an index.
// *database.ElasticsearchClient implements it.
type SearchBackend interface {
	Search(ctx context.Context, index string, query map[string]interface{}, dest interface{}) error
}

// Indexer stores documents in an index.
type Indexer interface {
	EnsureIndex(ctx context.Context, index, mapping string) error
	IndexDocument(ctx context.Context, index, id string, doc interface{}) error
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Career `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search finds active careers matching free text.
type Search struct {
	backend SearchBackend
	index   string
	logger  logger.Logger
}

func NewSearch(backend SearchBackend, index string, log logger.Logger) *Search {
	return &Search{
		backend: backend,
		index:   index,
		logger:  log.WithFields(map[string]interface{}{"component": "career-search"}),
	}
}

// Careers returns up to limit active careers matching q, best match first.
// A blank query matches nothing.
func (s *Search) Careers(ctx context.Context, q string, limit int) ([]models.Career, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Career{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var res searchResponse
	if err := s.backend.Search(ctx, s.index, buildSearchQuery(q, limit), &res); err != nil {
		s.logger.Error("career search failed", map[string]interface{}{"query": q, "error": err})
		return nil, apperrors.NewSearchQueryFailedError(q, err)
	}

	careers := make([]models.Career, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		careers = append(careers, hit.Source)
	}
	return careers, nil
}

func buildSearchQuery(q string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     q,
							"fields":    []string{"title^3", "department^2", "description", "requirements", "location"},
							"type":      "best_fields",
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"isActive": true}},
				},
			},
		},
	}
}

// IndexCareers creates the index if needed and indexes every career by id.
func IndexCareers(ctx context.Context, idx Indexer, index string, careers []models.Career) error {
	if err := idx.EnsureIndex(ctx, index, CareerIndexMapping); err != nil {
		return err
	}
	for _, c := range careers {
		if err := idx.IndexDocument(ctx, index, c.ID, c); err != nil {
			return err
		}
	}
	return nil
}
