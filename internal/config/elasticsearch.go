package config

import (
	"os"
	"strconv"
	"time"
)

// ElasticsearchConfig содержит конфигурацию для подключения к Elasticsearch.
// Пустой URL отключает индекс концертов, каталог читается из Postgres.
type ElasticsearchConfig struct {
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
	Timeout    time.Duration
	// CatalogPageSize - размер страницы при чтении каталога концертов
	CatalogPageSize int
}

// LoadElasticsearchConfig загружает конфигурацию Elasticsearch из переменных окружения
func LoadElasticsearchConfig() ElasticsearchConfig {
	maxRetries := 3
	if val := os.Getenv("ELASTICSEARCH_MAX_RETRIES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			maxRetries = parsed
		}
	}

	timeout := 30 * time.Second
	if val := os.Getenv("ELASTICSEARCH_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			timeout = parsed
		}
	}

	return ElasticsearchConfig{
		URL:             os.Getenv("ELASTICSEARCH_URL"),
		Index:           getEnv("ELASTICSEARCH_INDEX", "concerts"),
		Username:        os.Getenv("ELASTICSEARCH_USERNAME"),
		Password:        os.Getenv("ELASTICSEARCH_PASSWORD"),
		MaxRetries:      maxRetries,
		Timeout:         timeout,
		CatalogPageSize: getEnvInt("ELASTICSEARCH_CATALOG_PAGE_SIZE", 1000),
	}
}

// Enabled reports whether a concert index is configured
func (c ElasticsearchConfig) Enabled() bool {
	return c.URL != ""
}
