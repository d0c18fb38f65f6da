package controller

import (
	"net/http"
	"net/url"

	"countries-informer/internal/domain/usecase/weather"

	"github.com/labstack/echo/v4"
)

type WeatherController struct {
	api     *echo.Group
	useCase weather.UseCase
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase) *WeatherController {
	return &WeatherController{api: api, useCase: useCase}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.GET("/weather/:alpha2code/:city", controller.GetWeather)
	controller.api.GET("/weather/:alpha2code/:city/summary", controller.GetWeatherInfo)
}

// GetWeather godoc
// @Summary Get the current weather of a city
// @Description Returns the normalized OpenWeather payload, cached per city and country
// @Tags weather
// @Produce json
// @Param alpha2code path string true "ISO 3166-1 alpha-2 country code"
// @Param city path string true "City name"
// @Success 200 {object} model.WeatherDTO
// @Failure 400 {object} ErrorResponse "Invalid location"
// @Failure 404 {object} ErrorResponse "No weather data"
// @Failure 502 {object} ErrorResponse "Upstream payload failed validation"
// @Failure 503 {object} ErrorResponse "Cache unavailable"
// @Router /weather/{alpha2code}/{city} [get]
func (controller *WeatherController) GetWeather(c echo.Context) error {
	city, err := url.PathUnescape(c.Param("city"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	result, err := controller.useCase.GetWeather(c.Request().Context(), c.Param("alpha2code"), city)
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		return respondNotFound(c, "weather not found for "+city)
	}
	return c.JSON(http.StatusOK, result)
}

// GetWeatherInfo godoc
// @Summary Get a weather summary of a city
// @Tags weather
// @Produce json
// @Param alpha2code path string true "ISO 3166-1 alpha-2 country code"
// @Param city path string true "City name"
// @Success 200 {object} model.WeatherInfoDTO
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /weather/{alpha2code}/{city}/summary [get]
func (controller *WeatherController) GetWeatherInfo(c echo.Context) error {
	city, err := url.PathUnescape(c.Param("city"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	result, err := controller.useCase.GetWeatherInfo(c.Request().Context(), c.Param("alpha2code"), city)
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		return respondNotFound(c, "weather not found for "+city)
	}
	return c.JSON(http.StatusOK, result)
}
