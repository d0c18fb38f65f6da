package weather

import (
	"context"
	"fmt"

	"countries-informer/internal/domain/gateway/api"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/cacheaside"
	"countries-informer/internal/infra/metrics"
)

const upstreamName = "weather"

type weatherUseCase struct {
	apiGateway api.WeatherGateway
	loader     *cacheaside.Loader[model.WeatherDTO]
	metrics    *metrics.Metrics
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, namespace cache.Namespace, singleFlight bool, m *metrics.Metrics) UseCase {
	return &weatherUseCase{
		apiGateway: apiGateway,
		loader:     cacheaside.New[model.WeatherDTO](namespace, singleFlight),
		metrics:    m,
	}
}

func (uc *weatherUseCase) GetWeather(ctx context.Context, alpha2Code string, city string) (*model.WeatherDTO, error) {
	location, err := model.NewCountryCity(alpha2Code, city)
	if err != nil {
		return nil, err
	}

	return uc.loader.Load(ctx, location.Query(), func(ctx context.Context) (*model.WeatherDTO, error) {
		return uc.fetchWeather(ctx, location)
	})
}

func (uc *weatherUseCase) fetchWeather(ctx context.Context, location model.CountryCityDTO) (*model.WeatherDTO, error) {
	raw, err := uc.apiGateway.GetWeather(ctx, location.Query())
	if err != nil || raw == nil {
		return nil, err
	}

	weather, err := model.NormalizeWeather(raw)
	if err != nil {
		cacheaside.ReportInvalid(uc.metrics, upstreamName, location.String(), err)
		return nil, fmt.Errorf("failed to normalize weather of %s: %w", location, err)
	}
	return weather, nil
}

func (uc *weatherUseCase) GetWeatherInfo(ctx context.Context, alpha2Code string, city string) (*model.WeatherInfoDTO, error) {
	weather, err := uc.GetWeather(ctx, alpha2Code, city)
	if err != nil || weather == nil {
		return nil, err
	}
	info := weather.Info()
	return &info, nil
}
