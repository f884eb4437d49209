package content

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techflow-careers/internal/common/config"
	"techflow-careers/internal/common/database"
	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newElasticsearchServer(t *testing.T, handler http.HandlerFunc) *database.ElasticsearchClient {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearch_Careers(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	es := newElasticsearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = io.WriteString(w, `{
			"hits": {"total": {"value": 1}, "hits": [
				{"_id": "2", "_source": {"id": "2", "title": "DevOps Engineer", "department": "Engineering", "isActive": true}}
			]}
		}`)
	})

	search := NewSearch(es, "careers", logger.NewTestLogger(t))
	careers, err := search.Careers(context.Background(), "  devops ", 5)

	require.NoError(t, err)
	require.Len(t, careers, 1)
	assert.Equal(t, "DevOps Engineer", careers[0].Title)
	assert.Equal(t, "/careers/_search", gotPath)
	assert.EqualValues(t, 5, gotBody["size"])

	must := gotBody["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})
	match := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "devops", match["query"])
}

func TestSearch_Careers_BackendError(t *testing.T) {
	es := newElasticsearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"type": "index_not_found_exception"}}`)
	})

	_, err := NewSearch(es, "careers", logger.NewTestLogger(t)).Careers(context.Background(), "go", 0)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, apperrors.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), "Career search failed"))
}

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Search(ctx context.Context, index string, query map[string]interface{}, dest interface{}) error {
	return m.Called(ctx, index, query, dest).Error(0)
}

func TestSearch_Careers_BlankQuery(t *testing.T) {
	backend := new(MockBackend)

	careers, err := NewSearch(backend, "careers", logger.NewTestLogger(t)).Careers(context.Background(), "   ", 10)

	require.NoError(t, err)
	assert.Empty(t, careers)
	backend.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_Careers_DefaultLimit(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Search", mock.Anything, "careers", mock.MatchedBy(func(q map[string]interface{}) bool {
		return q["size"] == DefaultSearchLimit
	}), mock.Anything).Return(nil)

	_, err := NewSearch(backend, "careers", logger.NewTestLogger(t)).Careers(context.Background(), "design", 0)

	require.NoError(t, err)
	backend.AssertExpectations(t)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) EnsureIndex(ctx context.Context, index, mapping string) error {
	return m.Called(ctx, index, mapping).Error(0)
}

func (m *MockIndexer) IndexDocument(ctx context.Context, index, id string, doc interface{}) error {
	return m.Called(ctx, index, id, doc).Error(0)
}

func TestIndexCareers(t *testing.T) {
	careers := []models.Career{{ID: "1"}, {ID: "2"}}

	t.Run("indexes every career", func(t *testing.T) {
		idx := new(MockIndexer)
		idx.On("EnsureIndex", mock.Anything, "careers", CareerIndexMapping).Return(nil)
		idx.On("IndexDocument", mock.Anything, "careers", "1", careers[0]).Return(nil)
		idx.On("IndexDocument", mock.Anything, "careers", "2", careers[1]).Return(nil)

		require.NoError(t, IndexCareers(context.Background(), idx, "careers", careers))
		idx.AssertExpectations(t)
	})

	t.Run("stops on index creation failure", func(t *testing.T) {
		idx := new(MockIndexer)
		idx.On("EnsureIndex", mock.Anything, "careers", CareerIndexMapping).Return(errors.New("forbidden"))

		assert.Error(t, IndexCareers(context.Background(), idx, "careers", careers))
		idx.AssertNotCalled(t, "IndexDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
