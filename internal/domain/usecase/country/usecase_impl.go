package country

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"countries-informer/internal/domain/entity"
	"countries-informer/internal/domain/gateway/api"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/gateway/db"
	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/cacheaside"
	"countries-informer/internal/infra/metrics"
)

const upstreamName = "countries"

type countryUseCase struct {
	apiGateway api.CountryGateway
	dbGateway  db.CountryGateway
	countries  *cacheaside.Loader[[]model.CountryDTO]
	country    *cacheaside.Loader[model.CountryDTO]
	metrics    *metrics.Metrics
}

// NewCountryUseCase wires the country lookups. dbGateway may be nil when the database is disabled.
func NewCountryUseCase(apiGateway api.CountryGateway, dbGateway db.CountryGateway, namespace cache.Namespace, singleFlight bool, m *metrics.Metrics) UseCase {
	return &countryUseCase{
		apiGateway: apiGateway,
		dbGateway:  dbGateway,
		countries:  cacheaside.New[[]model.CountryDTO](namespace, singleFlight),
		country:    cacheaside.New[model.CountryDTO](namespace, singleFlight),
		metrics:    m,
	}
}

func (uc *countryUseCase) FindCountries(ctx context.Context, name string) ([]model.CountryDTO, error) {
	name, err := model.NormalizeCountryName(name)
	if err != nil {
		return nil, err
	}

	key := "countries:" + strings.ToLower(name)
	countries, err := uc.countries.Load(ctx, key, func(ctx context.Context) (*[]model.CountryDTO, error) {
		return uc.searchCountries(ctx, name)
	})
	if err != nil || countries == nil {
		return nil, err
	}
	return *countries, nil
}

func (uc *countryUseCase) searchCountries(ctx context.Context, name string) (*[]model.CountryDTO, error) {
	if uc.dbGateway != nil {
		stored, err := uc.dbGateway.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to search stored countries: %w", err)
		}
		if len(stored) > 0 {
			return toCountryDTOs(stored), nil
		}
	}

	raw, err := uc.apiGateway.FindCountries(ctx, name)
	if err != nil || len(raw) == 0 {
		return nil, err
	}

	countries, err := model.NormalizeCountries(raw)
	if err != nil {
		cacheaside.ReportInvalid(uc.metrics, upstreamName, name, err)
		return nil, fmt.Errorf("failed to normalize countries named %s: %w", name, err)
	}

	if uc.dbGateway == nil {
		return &countries, nil
	}

	entities := make([]entity.Country, len(countries))
	for i, c := range countries {
		entities[i] = entity.NewCountry(c)
	}
	stored, err := uc.dbGateway.UpsertCountries(ctx, entities)
	if err != nil {
		return nil, fmt.Errorf("failed to store countries: %w", err)
	}
	return toCountryDTOs(stored), nil
}

func (uc *countryUseCase) FindByAlpha2(ctx context.Context, alpha2Code string) (*model.CountryDTO, error) {
	code, err := model.NormalizeAlpha2(alpha2Code)
	if err != nil {
		return nil, err
	}
	if uc.dbGateway == nil {
		return nil, ErrStoreDisabled
	}

	return uc.country.Load(ctx, CacheKey(code), func(ctx context.Context) (*model.CountryDTO, error) {
		stored, err := uc.dbGateway.FindByAlpha2(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to find country %s: %w", code, err)
		}
		if stored == nil {
			return nil, nil
		}
		dto := stored.ToDTO()
		return &dto, nil
	})
}

func (uc *countryUseCase) FindCities(ctx context.Context, alpha2Code string, page int, size int) (*model.Page[model.CityDTO], error) {
	if uc.dbGateway == nil {
		return nil, ErrStoreDisabled
	}
	if alpha2Code != "" {
		code, err := model.NormalizeAlpha2(alpha2Code)
		if err != nil {
			return nil, err
		}
		alpha2Code = code
	}
	if page < 0 || size < 1 || size > MaxCitiesPageSize {
		return nil, fmt.Errorf("%w: page must be >= 0 and size between 1 and %d", model.ErrInvalidQuery, MaxCitiesPageSize)
	}

	cities, totalElements, err := uc.fetchCitiesAndCountInParallel(ctx, alpha2Code, page, size)
	if err != nil {
		return nil, err
	}

	content := make([]model.CityDTO, len(cities))
	for i, c := range cities {
		content[i] = c.ToDTO()
	}
	return model.NewPage(content, page, size, totalElements), nil
}

func (uc *countryUseCase) fetchCitiesAndCountInParallel(ctx context.Context, alpha2Code string, page int, size int) ([]entity.City, int64, error) {
	var wg sync.WaitGroup
	var cities []entity.City
	var totalElements int64
	var citiesErr, countErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		cities, citiesErr = uc.dbGateway.FindCities(ctx, alpha2Code, page, size)
	}()
	go func() {
		defer wg.Done()
		totalElements, countErr = uc.dbGateway.CountCities(ctx, alpha2Code)
	}()
	wg.Wait()

	if citiesErr != nil {
		return nil, 0, fmt.Errorf("failed to find cities: %w", citiesErr)
	}
	if countErr != nil {
		return nil, 0, fmt.Errorf("failed to count cities: %w", countErr)
	}
	return cities, totalElements, nil
}

// CacheKey is the default namespace key of a single country
func CacheKey(alpha2Code string) string {
	return "country:" + alpha2Code
}

func toCountryDTOs(countries []entity.Country) *[]model.CountryDTO {
	dtos := make([]model.CountryDTO, len(countries))
	for i, c := range countries {
		dtos[i] = c.ToDTO()
	}
	return &dtos
}
