package controller

import (
	"net/http"

	"countries-informer/internal/domain/usecase/currency"

	"github.com/labstack/echo/v4"
)

type CurrencyController struct {
	api     *echo.Group
	useCase currency.UseCase
}

func NewCurrencyController(api *echo.Group, useCase currency.UseCase) *CurrencyController {
	return &CurrencyController{api: api, useCase: useCase}
}

// InitCurrencyRoutes initializes currency routes
func (controller *CurrencyController) InitCurrencyRoutes() {
	controller.api.GET("/currency/:base", controller.GetCurrency)
}

// GetCurrency godoc
// @Summary Get exchange rates of a base currency
// @Tags currency
// @Produce json
// @Param base path string true "ISO 4217 currency code"
// @Success 200 {object} model.CurrencyRatesDTO
// @Failure 400 {object} ErrorResponse "Invalid currency code"
// @Failure 404 {object} ErrorResponse "No rates available"
// @Failure 502 {object} ErrorResponse "Upstream payload failed validation"
// @Failure 503 {object} ErrorResponse "Cache unavailable"
// @Router /currency/{base} [get]
func (controller *CurrencyController) GetCurrency(c echo.Context) error {
	base := c.Param("base")

	rates, err := controller.useCase.GetCurrency(c.Request().Context(), base)
	if err != nil {
		return respondError(c, err)
	}
	if rates == nil {
		return respondNotFound(c, "rates not found for "+base)
	}
	return c.JSON(http.StatusOK, rates)
}
