package api

import (
	"context"
	"net/url"

	"countries-informer/internal/domain/model/external"
)

const countryByNamePath = "/geo/country/name/"

type countryGatewayImpl struct {
	*upstream
}

// NewCountryGateway creates a CountryGateway. A 404 answer is treated as no data.
func NewCountryGateway(opts UpstreamOptions) CountryGateway {
	return &countryGatewayImpl{
		upstream: newUpstream(opts, map[string]string{"apikey": opts.APIKey}, true),
	}
}

func (c *countryGatewayImpl) FindCountries(ctx context.Context, name string) ([]external.ApilayerCountry, error) {
	resp, err := c.get(ctx, name, countryByNamePath+url.PathEscape(name), nil,
		&[]external.ApilayerCountry{}, &external.ApilayerError{})
	if resp == nil || err != nil {
		return nil, err
	}
	return *resp.(*[]external.ApilayerCountry), nil
}
