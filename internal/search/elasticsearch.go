package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"zeko/internal/config"
	"zeko/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient хранит каталог концертов в индексе Elasticsearch
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

// NewElasticsearchClient создает клиент и при необходимости индекс концертов
func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), client.timeout())
	defer cancel()

	if err := client.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) timeout() time.Duration {
	if c.config.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.config.Timeout
}

// ensureIndex создает индекс если он не существует
func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "long",
				},
				"concert_name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"created_at": map[string]interface{}{
					"type": "date",
				},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  bytes.NewReader(body),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// concertQuery ограничивает выборку одним концертом, если он задан
func concertQuery(concertID *models.ID) map[string]interface{} {
	if concertID == nil {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}
	return map[string]interface{}{
		"term": map[string]interface{}{
			"id": concertID.Canonical(),
		},
	}
}

// ListConcerts возвращает весь каталог концертов в порядке id, читая его
// страницами через search_after
func (c *ElasticsearchClient) ListConcerts(ctx context.Context, concertID *models.ID) ([]models.Concert, error) {
	size := c.config.CatalogPageSize
	if size <= 0 {
		size = 1000
	}

	concerts := make([]models.Concert, 0)
	var searchAfter []json.RawMessage
	for {
		page, lastSort, err := c.searchConcerts(ctx, concertID, size, searchAfter)
		if err != nil {
			return nil, err
		}
		concerts = append(concerts, page...)
		if len(page) < size || lastSort == nil {
			break
		}
		searchAfter = lastSort
	}

	return concerts, nil
}

func (c *ElasticsearchClient) searchConcerts(ctx context.Context, concertID *models.ID, size int, searchAfter []json.RawMessage) ([]models.Concert, []json.RawMessage, error) {
	searchRequest := map[string]interface{}{
		"query": concertQuery(concertID),
		"sort": []map[string]interface{}{
			{"id": map[string]interface{}{"order": "asc"}},
		},
		"size": size,
	}
	if searchAfter != nil {
		searchRequest["search_after"] = searchAfter
	}

	body, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.Concert    `json:"_source"`
				Sort   []json.RawMessage `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	concerts := make([]models.Concert, len(response.Hits.Hits))
	var lastSort []json.RawMessage
	for i, hit := range response.Hits.Hits {
		concerts[i] = hit.Source
		lastSort = hit.Sort
	}

	return concerts, lastSort, nil
}

// CountConcerts возвращает количество концертов в индексе
func (c *ElasticsearchClient) CountConcerts(ctx context.Context, concertID *models.ID) (int64, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": concertQuery(concertID),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal count query: %w", err)
	}

	req := esapi.CountRequest{
		Index: []string{c.config.Index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count error: %s", res.String())
	}

	var response struct {
		Count int64 `json:"count"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}

	return response.Count, nil
}

// IndexConcert добавляет или обновляет концерт
func (c *ElasticsearchClient) IndexConcert(ctx context.Context, concert *models.Concert) error {
	if concert.CreatedAt.IsZero() {
		concert.CreatedAt = time.Now()
	}

	body, err := json.Marshal(concert)
	if err != nil {
		return fmt.Errorf("failed to marshal concert: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: concert.ID.Canonical(),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index concert: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// HealthCheck проверяет состояние Elasticsearch
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
