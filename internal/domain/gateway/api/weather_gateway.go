package api

import (
	"context"

	"countries-informer/internal/domain/model/external"
)

// WeatherGateway fetches current weather from OpenWeather
type WeatherGateway interface {
	// GetWeather queries the current weather of a "{city},{alpha2code}" location.
	// A nil response means the upstream had no usable answer.
	GetWeather(ctx context.Context, location string) (*external.OpenWeatherResponse, error)
}
