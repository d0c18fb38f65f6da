package currency

import (
	"context"

	"countries-informer/internal/domain/model"
)

type UseCase interface {
	// GetCurrency returns the rate sheet of a base currency, cached per upper-cased code
	GetCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error)

	// RefreshCurrency fetches the rate sheet and overwrites the cached one
	RefreshCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error)
}
