package api

import (
	"context"

	"countries-informer/internal/domain/model/external"
)

// CountryGateway looks countries up in the apilayer geo API
type CountryGateway interface {
	// FindCountries searches countries by name. Unknown names give a nil slice.
	FindCountries(ctx context.Context, name string) ([]external.ApilayerCountry, error)
}
