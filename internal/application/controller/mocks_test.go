package controller

import (
	"context"
	"net/http/httptest"
	"strings"

	"countries-informer/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type mockWeatherUseCase struct {
	mock.Mock
}

func (m *mockWeatherUseCase) GetWeather(ctx context.Context, alpha2Code string, city string) (*model.WeatherDTO, error) {
	args := m.Called(ctx, alpha2Code, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeatherDTO), args.Error(1)
}

func (m *mockWeatherUseCase) GetWeatherInfo(ctx context.Context, alpha2Code string, city string) (*model.WeatherInfoDTO, error) {
	args := m.Called(ctx, alpha2Code, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeatherInfoDTO), args.Error(1)
}

type mockCurrencyUseCase struct {
	mock.Mock
}

func (m *mockCurrencyUseCase) GetCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CurrencyRatesDTO), args.Error(1)
}

func (m *mockCurrencyUseCase) RefreshCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CurrencyRatesDTO), args.Error(1)
}

type mockNewsUseCase struct {
	mock.Mock
}

func (m *mockNewsUseCase) GetNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsFeedDTO), args.Error(1)
}

func (m *mockNewsUseCase) RefreshNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsFeedDTO), args.Error(1)
}

type mockCountryUseCase struct {
	mock.Mock
}

func (m *mockCountryUseCase) FindCountries(ctx context.Context, name string) ([]model.CountryDTO, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CountryDTO), args.Error(1)
}

func (m *mockCountryUseCase) FindByAlpha2(ctx context.Context, alpha2Code string) (*model.CountryDTO, error) {
	args := m.Called(ctx, alpha2Code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CountryDTO), args.Error(1)
}

func (m *mockCountryUseCase) FindCities(ctx context.Context, alpha2Code string, page int, size int) (*model.Page[model.CityDTO], error) {
	args := m.Called(ctx, alpha2Code, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.CityDTO]), args.Error(1)
}

type mockImportUseCase struct {
	mock.Mock
}

func (m *mockImportUseCase) ImportPlaces(ctx context.Context, message model.PlacesImportMessage) (*model.ImportResult, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

func (m *mockImportUseCase) EnqueuePlaces(ctx context.Context, message model.PlacesImportMessage) (*model.EnqueueResult, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EnqueueResult), args.Error(1)
}

type stubHealthUseCase struct {
	response model.HealthResponse
}

func (s stubHealthUseCase) CheckHealth(context.Context) model.HealthResponse { return s.response }

// serve routes one request through an echo instance with the /api group.
func serve(register func(api *echo.Group), method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	register(e.Group("/api"))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
