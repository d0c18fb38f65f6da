package external

import "fmt"

// ExchangeRatesResponse is the apilayer /exchangerates_data/latest payload.
type ExchangeRatesResponse struct {
	Success   *bool              `json:"success"`
	Error     *ApilayerFailure   `json:"error"`
	Timestamp *float64           `json:"timestamp"`
	Base      *string            `json:"base" validate:"required,len=3,alpha"`
	Date      *string            `json:"date" validate:"required,datetime=2006-01-02"`
	Rates     map[string]float64 `json:"rates" validate:"required"`
}

// ApilayerFailure is the error object apilayer embeds in a 200 answer with success false.
type ApilayerFailure struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// Failure describes why apilayer refused the request, or returns "" when it did not.
func (r *ExchangeRatesResponse) Failure() string {
	if r.Success == nil || *r.Success {
		return ""
	}
	if r.Error == nil {
		return "success false"
	}
	return fmt.Sprintf("code %d %s: %s", r.Error.Code, r.Error.Type, r.Error.Info)
}

// ApilayerCountry is one entry of the apilayer /geo/country/name/{name} answer.
type ApilayerCountry struct {
	Name        *string            `json:"name" validate:"required"`
	Alpha2Code  *string            `json:"alpha2code" validate:"required,len=2,alpha"`
	Alpha3Code  *string            `json:"alpha3code" validate:"omitempty,len=3,alpha"`
	Capital     *string            `json:"capital"`
	Region      *string            `json:"region"`
	Subregion   *string            `json:"subregion"`
	Population  *float64           `json:"population"`
	Latitude    *float64           `json:"latitude"`
	Longitude   *float64           `json:"longitude"`
	Demonym     *string            `json:"demonym"`
	Area        *float64           `json:"area"`
	NumericCode *string            `json:"numeric_code"`
	Flag        *string            `json:"flag"`
	Currencies  []ApilayerCurrency `json:"currencies" validate:"dive"`
	Languages   []ApilayerLanguage `json:"languages" validate:"dive"`
}

type ApilayerCurrency struct {
	Code   string `json:"code" validate:"required"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type ApilayerLanguage struct {
	Iso6391    string `json:"iso639_1"`
	Iso6392    string `json:"iso639_2"`
	Name       string `json:"name" validate:"required"`
	NativeName string `json:"native_name"`
}

// ApilayerError is the body apilayer sends with non-2xx answers.
type ApilayerError struct {
	Message string `json:"message"`
}
