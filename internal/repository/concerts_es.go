package repository

import (
	"context"

	"zeko/internal/models"
	"zeko/internal/search"
)

// ConcertElasticsearchRepository читает каталог концертов из индекса Elasticsearch
type ConcertElasticsearchRepository struct {
	client *search.ElasticsearchClient
}

func NewConcertElasticsearchRepository(client *search.ElasticsearchClient) *ConcertElasticsearchRepository {
	return &ConcertElasticsearchRepository{client: client}
}

func (r *ConcertElasticsearchRepository) List(ctx context.Context, concertID *models.ID) ([]models.Concert, error) {
	return r.client.ListConcerts(ctx, concertID)
}

func (r *ConcertElasticsearchRepository) Count(ctx context.Context, concertID *models.ID) (int64, error) {
	return r.client.CountConcerts(ctx, concertID)
}

// Index добавляет или обновляет концерт в индексе
func (r *ConcertElasticsearchRepository) Index(ctx context.Context, concert *models.Concert) error {
	return r.client.IndexConcert(ctx, concert)
}
