package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"countries-informer/internal/domain/model/external"
)

// CurrencyRatesDTO is the rate sheet of one base currency on one date (YYYY-MM-DD).
type CurrencyRatesDTO struct {
	Base string `json:"base"`
	Date string `json:"date"`

	rates map[string]float64
}

// Rates returns a copy of the code to rate mapping.
func (c CurrencyRatesDTO) Rates() map[string]float64 {
	return maps.Clone(c.rates)
}

func (c CurrencyRatesDTO) Rate(code string) (float64, bool) {
	rate, ok := c.rates[strings.ToUpper(code)]
	return rate, ok
}

func (c CurrencyRatesDTO) Equal(other CurrencyRatesDTO) bool {
	return reflect.DeepEqual(c, other)
}

func (c CurrencyRatesDTO) Hash() uint64 {
	return hashOf(c)
}

type currencyAlias CurrencyRatesDTO

func (c CurrencyRatesDTO) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		currencyAlias
		Rates map[string]float64 `json:"rates"`
	}{currencyAlias(c), c.rates})
}

func (c *CurrencyRatesDTO) UnmarshalJSON(data []byte) error {
	aux := struct {
		*currencyAlias
		Rates map[string]float64 `json:"rates"`
	}{currencyAlias: (*currencyAlias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.rates = aux.Rates
	return nil
}

// NormalizeCurrencyRates validates an exchange rates payload. Currency codes are upper-cased.
func NormalizeCurrencyRates(raw *external.ExchangeRatesResponse) (*CurrencyRatesDTO, error) {
	const schema = "currency"
	if raw == nil {
		return nil, &ValidationError{Schema: schema, Fields: []FieldError{{Field: schema, Rule: "required"}}}
	}
	if err := validateStruct(schema, raw); err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(raw.Rates))
	for code, rate := range raw.Rates {
		rates[strings.ToUpper(code)] = rate
	}

	return &CurrencyRatesDTO{
		Base:  strings.ToUpper(*raw.Base),
		Date:  *raw.Date,
		rates: rates,
	}, nil
}

// NormalizeCurrencyCode upper-cases an ISO 4217 code and rejects anything but three letters.
func NormalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validate.Var(code, "required,len=3,alpha"); err != nil {
		return "", fmt.Errorf("%w: currency code %q", ErrInvalidQuery, code)
	}
	return code, nil
}
