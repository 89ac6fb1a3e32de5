package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zeko/internal/config"
	"zeko/internal/models"
)

type esDoc struct {
	id     int
	source string
}

var defaultDocs = []esDoc{
	{6, `{"id":6,"concert_name":"Mazzika","created_at":"2024-06-01T10:00:00Z"}`},
	{13, `{"id":"13","concert_name":"Yatch Festival","created_at":"2024-06-02T10:00:00Z"}`},
}

type fakeCluster struct {
	mu          sync.Mutex
	indexExists bool
	created     bool
	bodies      map[string]string
	docs        []esDoc
	searches    []string
}

// search отдает страницу документов, отсортированных по id, после search_after
func (f *fakeCluster) search(body []byte) string {
	var req struct {
		Size        int   `json:"size"`
		SearchAfter []int `json:"search_after"`
	}
	_ = json.Unmarshal(body, &req)

	docs := f.docs
	if docs == nil {
		docs = defaultDocs
	}

	hits := make([]string, 0)
	for _, d := range docs {
		if len(req.SearchAfter) > 0 && d.id <= req.SearchAfter[0] {
			continue
		}
		if len(hits) == req.Size {
			break
		}
		hits = append(hits, fmt.Sprintf(`{"_source":%s,"sort":[%d]}`, d.source, d.id))
	}
	return `{"hits":{"hits":[` + strings.Join(hits, ",") + `]}}`
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/concerts":
		if f.indexExists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/concerts":
		f.created = true
		f.indexExists = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		f.bodies["search"] = string(body)
		f.searches = append(f.searches, string(body))
		_, _ = w.Write([]byte(f.search(body)))
	case strings.HasSuffix(r.URL.Path, "/_count"):
		f.bodies["count"] = string(body)
		_, _ = w.Write([]byte(`{"count":1}`))
	case strings.HasPrefix(r.URL.Path, "/concerts/_doc/"):
		f.bodies["index:"+strings.TrimPrefix(r.URL.Path, "/concerts/_doc/")] = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}
}

func newTestClient(t *testing.T, cluster *fakeCluster) *ElasticsearchClient {
	t.Helper()
	return newTestClientWithPageSize(t, cluster, 50)
}

func newTestClientWithPageSize(t *testing.T, cluster *fakeCluster, pageSize int) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := NewElasticsearchClient(config.ElasticsearchConfig{
		URL:             srv.URL,
		Index:           "concerts",
		MaxRetries:      0,
		Timeout:         5 * time.Second,
		CatalogPageSize: pageSize,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientCreatesMissingIndex(t *testing.T) {
	cluster := &fakeCluster{bodies: map[string]string{}}
	newTestClient(t, cluster)
	assert.True(t, cluster.created)
}

func TestNewClientKeepsExistingIndex(t *testing.T) {
	cluster := &fakeCluster{indexExists: true, bodies: map[string]string{}}
	newTestClient(t, cluster)
	assert.False(t, cluster.created)
}

func TestListConcerts(t *testing.T) {
	cluster := &fakeCluster{indexExists: true, bodies: map[string]string{}}
	client := newTestClient(t, cluster)

	concerts, err := client.ListConcerts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, concerts, 2)
	assert.Equal(t, "6", concerts[0].ID.Canonical())
	assert.Equal(t, "Mazzika", concerts[0].ConcertName)
	assert.Equal(t, "13", concerts[1].ID.Canonical())

	var query map[string]any
	require.NoError(t, json.Unmarshal([]byte(cluster.bodies["search"]), &query))
	assert.Contains(t, query["query"], "match_all")
	assert.EqualValues(t, 50, query["size"])
}

func TestListConcertsPagesThroughCatalog(t *testing.T) {
	cluster := &fakeCluster{indexExists: true, bodies: map[string]string{}}
	for id := 1; id <= 5; id++ {
		cluster.docs = append(cluster.docs, esDoc{id, fmt.Sprintf(`{"id":%d,"concert_name":"Concert %d"}`, id, id)})
	}
	client := newTestClientWithPageSize(t, cluster, 2)

	concerts, err := client.ListConcerts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, concerts, 5)
	for i, c := range concerts {
		assert.Equal(t, fmt.Sprint(i+1), c.ID.Canonical())
	}

	require.Len(t, cluster.searches, 3)
	assert.NotContains(t, cluster.searches[0], "search_after")
	assert.Contains(t, cluster.searches[1], `"search_after":[2]`)
	assert.Contains(t, cluster.searches[2], `"search_after":[4]`)
}

func TestCountConcertsScoped(t *testing.T) {
	cluster := &fakeCluster{indexExists: true, bodies: map[string]string{}}
	client := newTestClient(t, cluster)

	concert := models.ID("013")
	count, err := client.CountConcerts(context.Background(), &concert)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.JSONEq(t, `{"query":{"term":{"id":"13"}}}`, cluster.bodies["count"])
}

func TestIndexConcert(t *testing.T) {
	cluster := &fakeCluster{indexExists: true, bodies: map[string]string{}}
	client := newTestClient(t, cluster)

	concert := &models.Concert{ID: models.IDFromInt(6), ConcertName: "Mazzika"}
	require.NoError(t, client.IndexConcert(context.Background(), concert))
	assert.False(t, concert.CreatedAt.IsZero())
	assert.Contains(t, cluster.bodies["index:6"], `"concert_name":"Mazzika"`)
}
