package weather

import (
	"context"

	"countries-informer/internal/domain/model"
)

type UseCase interface {
	// GetWeather returns the current weather of a city, cached per "{city},{alpha2code}".
	// A nil result without error means the upstream had no data.
	GetWeather(ctx context.Context, alpha2Code string, city string) (*model.WeatherDTO, error)

	// GetWeatherInfo returns the flat summary of GetWeather
	GetWeatherInfo(ctx context.Context, alpha2Code string, city string) (*model.WeatherInfoDTO, error)
}
