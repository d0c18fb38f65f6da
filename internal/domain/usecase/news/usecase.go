package news

import (
	"context"

	"countries-informer/internal/domain/model"
)

type UseCase interface {
	// GetNews returns top headlines for a query, cached under its canonical sorted form
	GetNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error)

	// RefreshNews fetches the headlines of a query and overwrites the cached feed
	RefreshNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error)
}
