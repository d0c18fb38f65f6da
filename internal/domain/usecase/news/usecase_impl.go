package news

import (
	"context"
	"fmt"

	"countries-informer/internal/domain/gateway/api"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/cacheaside"
	"countries-informer/internal/infra/metrics"
)

const upstreamName = "news"

type newsUseCase struct {
	apiGateway api.NewsGateway
	loader     *cacheaside.Loader[model.NewsFeedDTO]
	metrics    *metrics.Metrics
}

func NewNewsUseCase(apiGateway api.NewsGateway, namespace cache.Namespace, singleFlight bool, m *metrics.Metrics) UseCase {
	return &newsUseCase{
		apiGateway: apiGateway,
		loader:     cacheaside.New[model.NewsFeedDTO](namespace, singleFlight),
		metrics:    m,
	}
}

func (uc *newsUseCase) GetNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}
	return uc.loader.Load(ctx, normalized.CacheKey(), uc.fetchNews(normalized))
}

func (uc *newsUseCase) RefreshNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}
	return uc.loader.Refresh(ctx, normalized.CacheKey(), uc.fetchNews(normalized))
}

func (uc *newsUseCase) fetchNews(query model.NewsQuery) cacheaside.FetchFunc[model.NewsFeedDTO] {
	return func(ctx context.Context) (*model.NewsFeedDTO, error) {
		raw, err := uc.apiGateway.GetNews(ctx, query)
		if err != nil || raw == nil {
			return nil, err
		}

		feed, err := model.NormalizeNews(raw)
		if err != nil {
			cacheaside.ReportInvalid(uc.metrics, upstreamName, query.CacheKey(), err)
			return nil, fmt.Errorf("failed to normalize news for %s: %w", query.CacheKey(), err)
		}
		return feed, nil
	}
}
