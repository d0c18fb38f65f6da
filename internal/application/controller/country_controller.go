package controller

import (
	"net/http"

	"countries-informer/internal/domain/usecase/country"
	"countries-informer/pkg/util/numberutils"

	"github.com/labstack/echo/v4"
)

type CountryController struct {
	api     *echo.Group
	useCase country.UseCase
}

func NewCountryController(api *echo.Group, useCase country.UseCase) *CountryController {
	return &CountryController{api: api, useCase: useCase}
}

// InitCountryRoutes initializes country and city routes
func (controller *CountryController) InitCountryRoutes() {
	controller.api.GET("/countries", controller.FindCountries)
	controller.api.GET("/countries/:alpha2code", controller.FindByAlpha2)
	controller.api.GET("/cities", controller.FindCities)
}

// FindCountries godoc
// @Summary Search countries by name
// @Description Searches the store by name prefix and falls back to the apilayer API
// @Tags countries
// @Produce json
// @Param name query string true "Country name or prefix"
// @Success 200 {array} model.CountryDTO
// @Failure 400 {object} ErrorResponse "Invalid name"
// @Failure 404 {object} ErrorResponse "No country matched"
// @Failure 502 {object} ErrorResponse "Upstream payload failed validation"
// @Router /countries [get]
func (controller *CountryController) FindCountries(c echo.Context) error {
	name := c.QueryParam("name")

	countries, err := controller.useCase.FindCountries(c.Request().Context(), name)
	if err != nil {
		return respondError(c, err)
	}
	if len(countries) == 0 {
		return respondNotFound(c, "no country found for "+name)
	}
	return c.JSON(http.StatusOK, countries)
}

// FindByAlpha2 godoc
// @Summary Get a stored country
// @Tags countries
// @Produce json
// @Param alpha2code path string true "ISO 3166-1 alpha-2 country code"
// @Success 200 {object} model.CountryDTO
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Store disabled"
// @Router /countries/{alpha2code} [get]
func (controller *CountryController) FindByAlpha2(c echo.Context) error {
	code := c.Param("alpha2code")

	result, err := controller.useCase.FindByAlpha2(c.Request().Context(), code)
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		return respondNotFound(c, "country not found: "+code)
	}
	return c.JSON(http.StatusOK, result)
}

// FindCities godoc
// @Summary List stored cities
// @Tags countries
// @Produce json
// @Param alpha2code query string false "Restrict to one country"
// @Param page query int false "Page number" default(0)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} model.Page[model.CityDTO]
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Store disabled"
// @Router /cities [get]
func (controller *CountryController) FindCities(c echo.Context) error {
	page, err := numberutils.ParseNonNegative(c.QueryParam("page"), 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "page: " + err.Error()})
	}
	size, err := numberutils.ParseNonNegative(c.QueryParam("size"), country.DefaultCitiesPageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "size: " + err.Error()})
	}

	cities, err := controller.useCase.FindCities(c.Request().Context(), c.QueryParam("alpha2code"), page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cities)
}
