package model

import (
	"encoding/json"
	"errors"
	"testing"

	"countries-informer/internal/domain/model/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeWeather(t *testing.T, payload string) *external.OpenWeatherResponse {
	t.Helper()
	var raw external.OpenWeatherResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return &raw
}

func TestNormalizeWeather_Moscow(t *testing.T) {
	dto, err := NormalizeWeather(decodeWeather(t, moscowPayload))
	require.NoError(t, err)

	assert.Equal(t, 3.8, dto.Main.Temp)
	assert.Equal(t, 1025, dto.Main.Pressure)
	assert.Equal(t, 1025, dto.Main.SeaLevel)
	assert.Equal(t, 3.24, dto.Wind.Speed)
	assert.Equal(t, "RU", dto.Sys.Country)
	assert.Equal(t, Some(2), dto.Sys.Type)
	assert.Equal(t, int64(1700000000), dto.Dt)
	assert.Equal(t, "Moscow", dto.Name)
	require.Len(t, dto.Conditions(), 1)

	assert.Equal(t, WeatherInfoDTO{
		Temp:        3.8,
		Pressure:    1025,
		Humidity:    81,
		Visibility:  10000,
		WindSpeed:   3.24,
		Description: "overcast clouds",
	}, dto.Info())
}

func TestNormalizeWeather_IsDeterministic(t *testing.T) {
	first, err := NormalizeWeather(decodeWeather(t, moscowPayload))
	require.NoError(t, err)
	second, err := NormalizeWeather(decodeWeather(t, moscowPayload))
	require.NoError(t, err)

	assert.True(t, first.Equal(*second))
	assert.Equal(t, first.Hash(), second.Hash())
	assert.NotZero(t, first.Hash())
}

func TestNormalizeWeather_JSONRoundTripKeepsEquality(t *testing.T) {
	dto, err := NormalizeWeather(decodeWeather(t, moscowPayload))
	require.NoError(t, err)

	data, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"weather":[{"id":804`)

	var decoded WeatherDTO
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, dto.Equal(decoded))
	assert.Equal(t, dto.Hash(), decoded.Hash())
}

func TestNormalizeWeather_MissingMain(t *testing.T) {
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(moscowPayload), &payload))
	delete(payload, "main")
	data, _ := json.Marshal(payload)

	dto, err := NormalizeWeather(decodeWeather(t, string(data)))
	assert.Nil(t, dto)
	require.ErrorIs(t, err, ErrValidation)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "weather", validationErr.Schema)
	assert.Contains(t, validationErr.Fields, FieldError{Field: "main", Rule: "required"})
}

func TestNormalizeWeather_OptionalSysFields(t *testing.T) {
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(moscowPayload), &payload))
	sys := payload["sys"].(map[string]any)
	delete(sys, "type")
	sys["id"] = nil
	data, _ := json.Marshal(payload)

	dto, err := NormalizeWeather(decodeWeather(t, string(data)))
	require.NoError(t, err)
	assert.False(t, dto.Sys.Type.Valid)
	assert.False(t, dto.Sys.ID.Valid)

	out, err := json.Marshal(dto.Sys)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":null,"id":null,"country":"RU","sunrise":1699937283,"sunset":1699967354}`, string(out))
}

func TestNormalizeWeather_RejectsFractionalIntegers(t *testing.T) {
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(moscowPayload), &payload))
	payload["main"].(map[string]any)["humidity"] = 81.5
	data, _ := json.Marshal(payload)

	_, err := NormalizeWeather(decodeWeather(t, string(data)))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []FieldError{{Field: "main.humidity", Rule: "integer"}}, validationErr.Fields)
}

func TestNormalizeWeather_EmptyConditions(t *testing.T) {
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(moscowPayload), &payload))
	payload["weather"] = []any{}
	data, _ := json.Marshal(payload)

	_, err := NormalizeWeather(decodeWeather(t, string(data)))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalizeWeather_Nil(t *testing.T) {
	_, err := NormalizeWeather(nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWeatherDTO_ConditionsAreCopied(t *testing.T) {
	dto, err := NormalizeWeather(decodeWeather(t, moscowPayload))
	require.NoError(t, err)

	conditions := dto.Conditions()
	conditions[0].Description = "changed"
	assert.Equal(t, "overcast clouds", dto.Info().Description)
}
