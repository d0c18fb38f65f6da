package api

import (
	"context"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/model/external"
)

const topHeadlinesPath = "/v2/top-headlines"

type newsGatewayImpl struct {
	*upstream
}

// NewNewsGateway creates a NewsGateway authenticated with the X-Api-Key header
func NewNewsGateway(opts UpstreamOptions) NewsGateway {
	return &newsGatewayImpl{
		upstream: newUpstream(opts, map[string]string{"X-Api-Key": opts.APIKey}, false),
	}
}

func (n *newsGatewayImpl) GetNews(ctx context.Context, query model.NewsQuery) (*external.NewsAPIResponse, error) {
	resp, err := n.get(ctx, query.CacheKey(), topHeadlinesPath, query.Params(),
		&external.NewsAPIResponse{}, &external.NewsAPIError{})
	if resp == nil || err != nil {
		return nil, err
	}
	return resp.(*external.NewsAPIResponse), nil
}
