package currency

import (
	"context"
	"fmt"

	"countries-informer/internal/domain/gateway/api"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/cacheaside"
	"countries-informer/internal/infra/metrics"
)

const upstreamName = "currency"

type currencyUseCase struct {
	apiGateway api.CurrencyGateway
	loader     *cacheaside.Loader[model.CurrencyRatesDTO]
	metrics    *metrics.Metrics
}

func NewCurrencyUseCase(apiGateway api.CurrencyGateway, namespace cache.Namespace, singleFlight bool, m *metrics.Metrics) UseCase {
	return &currencyUseCase{
		apiGateway: apiGateway,
		loader:     cacheaside.New[model.CurrencyRatesDTO](namespace, singleFlight),
		metrics:    m,
	}
}

func (uc *currencyUseCase) GetCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error) {
	code, err := model.NormalizeCurrencyCode(base)
	if err != nil {
		return nil, err
	}
	return uc.loader.Load(ctx, code, uc.fetchRates(code))
}

func (uc *currencyUseCase) RefreshCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error) {
	code, err := model.NormalizeCurrencyCode(base)
	if err != nil {
		return nil, err
	}
	return uc.loader.Refresh(ctx, code, uc.fetchRates(code))
}

func (uc *currencyUseCase) fetchRates(code string) cacheaside.FetchFunc[model.CurrencyRatesDTO] {
	return func(ctx context.Context) (*model.CurrencyRatesDTO, error) {
		raw, err := uc.apiGateway.GetRates(ctx, code)
		if err != nil || raw == nil {
			return nil, err
		}

		rates, err := model.NormalizeCurrencyRates(raw)
		if err != nil {
			cacheaside.ReportInvalid(uc.metrics, upstreamName, code, err)
			return nil, fmt.Errorf("failed to normalize rates of %s: %w", code, err)
		}
		return rates, nil
	}
}
