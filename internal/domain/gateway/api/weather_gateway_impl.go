package api

import (
	"context"

	"countries-informer/internal/domain/model/external"
)

const openWeatherPath = "/data/2.5/weather"

// weatherGatewayImpl implements the WeatherGateway interface
type weatherGatewayImpl struct {
	*upstream
	apiKey string
}

// NewWeatherGateway creates a WeatherGateway. The API key travels as the appid query parameter.
func NewWeatherGateway(opts UpstreamOptions) WeatherGateway {
	return &weatherGatewayImpl{
		upstream: newUpstream(opts, nil, false),
		apiKey:   opts.APIKey,
	}
}

func (w *weatherGatewayImpl) GetWeather(ctx context.Context, location string) (*external.OpenWeatherResponse, error) {
	resp, err := w.get(ctx, location, openWeatherPath, map[string]string{
		"q":     location,
		"units": "metric",
		"appid": w.apiKey,
	}, &external.OpenWeatherResponse{}, &external.OpenWeatherError{})
	if resp == nil || err != nil {
		return nil, err
	}
	return resp.(*external.OpenWeatherResponse), nil
}
