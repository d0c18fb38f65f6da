package api

import (
	"context"

	"countries-informer/internal/domain/model/external"
)

const exchangeRatesPath = "/exchangerates_data/latest"

type currencyGatewayImpl struct {
	*upstream
}

// NewCurrencyGateway creates a CurrencyGateway authenticated with the apikey header
func NewCurrencyGateway(opts UpstreamOptions) CurrencyGateway {
	return &currencyGatewayImpl{
		upstream: newUpstream(opts, map[string]string{"apikey": opts.APIKey}, false),
	}
}

func (c *currencyGatewayImpl) GetRates(ctx context.Context, base string) (*external.ExchangeRatesResponse, error) {
	resp, err := c.get(ctx, base, exchangeRatesPath, map[string]string{"base": base},
		&external.ExchangeRatesResponse{}, &external.ApilayerError{})
	if resp == nil || err != nil {
		return nil, err
	}
	return resp.(*external.ExchangeRatesResponse), nil
}
