package api

import (
	"context"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/model/external"
)

// NewsGateway fetches top headlines from NewsAPI
type NewsGateway interface {
	GetNews(ctx context.Context, query model.NewsQuery) (*external.NewsAPIResponse, error)
}
