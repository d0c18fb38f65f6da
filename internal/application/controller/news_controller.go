package controller

import (
	"net/http"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/news"

	"github.com/labstack/echo/v4"
)

type NewsController struct {
	api     *echo.Group
	useCase news.UseCase
}

func NewNewsController(api *echo.Group, useCase news.UseCase) *NewsController {
	return &NewsController{api: api, useCase: useCase}
}

// InitNewsRoutes initializes news routes
func (controller *NewsController) InitNewsRoutes() {
	controller.api.GET("/news", controller.GetNews)
}

// GetNews godoc
// @Summary Get top headlines
// @Description At least one of country, q or category is required
// @Tags news
// @Produce json
// @Param country query string false "ISO 3166-1 alpha-2 country code"
// @Param q query string false "Search text"
// @Param category query string false "business, entertainment, general, health, science, sports or technology"
// @Param page_size query int false "Number of headlines" default(20)
// @Success 200 {array} model.NewsItemDTO
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 404 {object} ErrorResponse "No headlines available"
// @Failure 502 {object} ErrorResponse "Upstream payload failed validation"
// @Router /news [get]
func (controller *NewsController) GetNews(c echo.Context) error {
	var query model.NewsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	feed, err := controller.useCase.GetNews(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	if feed == nil {
		return respondNotFound(c, "no headlines found")
	}
	return c.JSON(http.StatusOK, feed)
}
