package model

import (
	"encoding/json"
	"testing"

	"countries-informer/internal/domain/model/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCountryCity(t *testing.T) {
	key, err := NewCountryCity("ru", " Moscow ")
	require.NoError(t, err)
	assert.Equal(t, CountryCityDTO{Alpha2Code: "RU", City: "Moscow"}, key)
	assert.Equal(t, "Moscow,RU", key.Query())

	seen := map[CountryCityDTO]bool{key: true}
	other, _ := NewCountryCity("RU", "Moscow")
	assert.True(t, seen[other])

	_, err = NewCountryCity("RUS", "Moscow")
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = NewCountryCity("RU", "  ")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestNormalizeCountries(t *testing.T) {
	payload := `[{"name":"Germany","alpha2code":"de","alpha3code":"DEU","capital":"Berlin","region":"Europe",
	  "population":83240525,"latitude":51,"longitude":9,"area":357114,
	  "currencies":[{"code":"eur","name":"Euro","symbol":"€"}],"languages":[{"iso639_1":"de","name":"German"}]}]`
	var raw []external.ApilayerCountry
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	countries, err := NormalizeCountries(raw)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "DE", countries[0].Alpha2Code)
	assert.Equal(t, int64(83240525), countries[0].Population)
	assert.Equal(t, []string{"EUR"}, countries[0].Currencies)
	assert.Equal(t, []string{"German"}, countries[0].Languages)
}

func TestNormalizeCountries_Invalid(t *testing.T) {
	var raw []external.ApilayerCountry
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"Nowhere","alpha2code":"N0"}]`), &raw))

	_, err := NormalizeCountries(raw)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidatePlacesImport(t *testing.T) {
	assert.NoError(t, ValidatePlacesImport(PlacesImportMessage{
		Countries: []CountryDTO{{Name: "Germany", Alpha2Code: "DE"}},
		Cities:    []CityImportDTO{{Name: "Berlin", Alpha2Code: "DE", Latitude: 52.5, Longitude: 13.4}},
	}))
	assert.ErrorIs(t, ValidatePlacesImport(PlacesImportMessage{
		Cities: []CityImportDTO{{Name: "Berlin", Alpha2Code: "DEU"}},
	}), ErrValidation)
}

func TestHealthResponse_Overall(t *testing.T) {
	response := HealthResponse{
		Database: UpStatus(nil),
		Queue:    ComponentHealthStatus{Status: StatusUnknown},
		Cache:    map[string]ComponentHealthStatus{"weather": UpStatus(nil)},
	}
	assert.Equal(t, StatusUp, response.Overall())

	response.Cache["news"] = ComponentHealthStatus{Status: StatusDown}
	assert.Equal(t, StatusDown, response.Overall())
}
