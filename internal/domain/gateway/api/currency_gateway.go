package api

import (
	"context"

	"countries-informer/internal/domain/model/external"
)

// CurrencyGateway fetches exchange rates from apilayer
type CurrencyGateway interface {
	// GetRates returns the latest rates of a base currency, or nil when none are available.
	GetRates(ctx context.Context, base string) (*external.ExchangeRatesResponse, error)
}
