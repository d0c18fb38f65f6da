package model

import (
	"fmt"
	"strings"

	"countries-informer/internal/domain/model/external"
)

type CountryDTO struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name" validate:"required"`
	Alpha2Code  string   `json:"alpha2code" validate:"required,len=2,alpha"`
	Alpha3Code  string   `json:"alpha3code" validate:"omitempty,len=3,alpha"`
	Capital     string   `json:"capital"`
	Region      string   `json:"region"`
	Subregion   string   `json:"subregion"`
	Population  int64    `json:"population" validate:"min=0"`
	Latitude    float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64  `json:"longitude" validate:"min=-180,max=180"`
	Demonym     string   `json:"demonym"`
	Area        float64  `json:"area" validate:"min=0"`
	NumericCode string   `json:"numeric_code"`
	Flag        string   `json:"flag"`
	Currencies  []string `json:"currencies"`
	Languages   []string `json:"languages"`
}

type CityDTO struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name" validate:"required"`
	Region    string      `json:"region"`
	Latitude  float64     `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64     `json:"longitude" validate:"min=-180,max=180"`
	Country   *CountryDTO `json:"country,omitempty"`
}

// NormalizeCountry maps one apilayer country entry. Currencies and languages keep their codes and names.
func NormalizeCountry(raw *external.ApilayerCountry) (*CountryDTO, error) {
	const schema = "country"
	if raw == nil {
		return nil, &ValidationError{Schema: schema, Fields: []FieldError{{Field: schema, Rule: "required"}}}
	}
	if err := validateStruct(schema, raw); err != nil {
		return nil, err
	}

	fe := &fieldErrors{schema: schema}
	dto := &CountryDTO{
		Name:        *raw.Name,
		Alpha2Code:  strings.ToUpper(*raw.Alpha2Code),
		Alpha3Code:  strings.ToUpper(deref(raw.Alpha3Code)),
		Capital:     deref(raw.Capital),
		Region:      deref(raw.Region),
		Subregion:   deref(raw.Subregion),
		Latitude:    deref(raw.Latitude),
		Longitude:   deref(raw.Longitude),
		Demonym:     deref(raw.Demonym),
		Area:        deref(raw.Area),
		NumericCode: deref(raw.NumericCode),
		Flag:        deref(raw.Flag),
		Currencies:  make([]string, 0, len(raw.Currencies)),
		Languages:   make([]string, 0, len(raw.Languages)),
	}
	if raw.Population != nil {
		dto.Population = fe.toInt64("population", *raw.Population)
	}
	for _, c := range raw.Currencies {
		dto.Currencies = append(dto.Currencies, strings.ToUpper(c.Code))
	}
	for _, l := range raw.Languages {
		dto.Languages = append(dto.Languages, l.Name)
	}

	if err := fe.err(); err != nil {
		return nil, err
	}
	if err := validateStruct(schema, dto); err != nil {
		return nil, err
	}
	return dto, nil
}

// NormalizeCountries maps every entry, failing on the first invalid one.
func NormalizeCountries(raw []external.ApilayerCountry) ([]CountryDTO, error) {
	countries := make([]CountryDTO, 0, len(raw))
	for i := range raw {
		dto, err := NormalizeCountry(&raw[i])
		if err != nil {
			return nil, fmt.Errorf("country %d: %w", i, err)
		}
		countries = append(countries, *dto)
	}
	return countries, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// NormalizeCountryName trims a country search term.
func NormalizeCountryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required,max=100"); err != nil {
		return "", fmt.Errorf("%w: country name %q", ErrInvalidQuery, name)
	}
	return name, nil
}

// NormalizeAlpha2 upper-cases an ISO 3166-1 alpha-2 code.
func NormalizeAlpha2(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validate.Var(code, "required,len=2,alpha"); err != nil {
		return "", fmt.Errorf("%w: alpha-2 code %q", ErrInvalidQuery, code)
	}
	return code, nil
}
