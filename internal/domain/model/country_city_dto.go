package model

import (
	"fmt"
	"strings"
)

// CountryCityDTO identifies a city inside a country. It is comparable and used as a lookup key.
type CountryCityDTO struct {
	Alpha2Code string `json:"alpha2code" param:"alpha2code" validate:"required,len=2,alpha"`
	City       string `json:"city" param:"city" validate:"required,max=120"`
}

// NewCountryCity trims the city and upper-cases the country code before validating both.
func NewCountryCity(alpha2Code, city string) (CountryCityDTO, error) {
	key := CountryCityDTO{
		Alpha2Code: strings.ToUpper(strings.TrimSpace(alpha2Code)),
		City:       strings.TrimSpace(city),
	}
	if err := validate.Struct(key); err != nil {
		return CountryCityDTO{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return key, nil
}

// Query renders the "{city},{alpha2code}" form used as weather cache key and upstream location query.
func (k CountryCityDTO) Query() string {
	return k.City + "," + k.Alpha2Code
}

func (k CountryCityDTO) String() string {
	return k.Query()
}
