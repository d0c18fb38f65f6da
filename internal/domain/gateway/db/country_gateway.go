package db

import (
	"context"

	"countries-informer/internal/domain/entity"
)

type CountryGateway interface {
	// FindByName matches country names case-insensitively by prefix
	FindByName(ctx context.Context, name string) ([]entity.Country, error)
	FindByAlpha2(ctx context.Context, alpha2Code string) (*entity.Country, error)
	FindByAlpha2Codes(ctx context.Context, alpha2Codes []string) ([]entity.Country, error)

	// UpsertCountries inserts or updates by alpha-2 code and returns the stored rows
	UpsertCountries(ctx context.Context, countries []entity.Country) ([]entity.Country, error)

	// FindCities pages the cities of a country ordered by name. An empty code lists every city.
	FindCities(ctx context.Context, alpha2Code string, page int, size int) ([]entity.City, error)
	CountCities(ctx context.Context, alpha2Code string) (int64, error)

	// UpsertCities inserts or updates by (country, name) and returns the number of rows written
	UpsertCities(ctx context.Context, cities []entity.City) (int64, error)
}
