package country

import (
	"context"
	"errors"

	"countries-informer/internal/domain/model"
)

// ErrStoreDisabled is returned by lookups that need the database when it is not configured
var ErrStoreDisabled = errors.New("country store is disabled")

const (
	DefaultCitiesPageSize = 20
	MaxCitiesPageSize     = 100
)

type UseCase interface {
	// FindCountries searches countries by name in the store, falling back to the apilayer API.
	// Results are cached in the default namespace. A nil slice means nothing matched.
	FindCountries(ctx context.Context, name string) ([]model.CountryDTO, error)

	// FindByAlpha2 returns a stored country or nil when unknown
	FindByAlpha2(ctx context.Context, alpha2Code string) (*model.CountryDTO, error)

	// FindCities returns a page of stored cities, optionally restricted to one country
	FindCities(ctx context.Context, alpha2Code string, page int, size int) (*model.Page[model.CityDTO], error)
}
