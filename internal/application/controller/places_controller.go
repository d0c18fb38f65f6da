package controller

import (
	"net/http"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/importer"

	"github.com/labstack/echo/v4"
)

type PlacesController struct {
	api     *echo.Group
	useCase importer.UseCase
}

func NewPlacesController(api *echo.Group, useCase importer.UseCase) *PlacesController {
	return &PlacesController{api: api, useCase: useCase}
}

// InitPlacesRoutes initializes places import routes
func (controller *PlacesController) InitPlacesRoutes() {
	controller.api.POST("/places/import", controller.EnqueuePlaces)
}

// EnqueuePlaces godoc
// @Summary Enqueue a places import batch
// @Description Splits the batch into places_import queue messages processed by the import worker
// @Tags places
// @Accept json
// @Produce json
// @Param batch body model.PlacesImportMessage true "Countries and cities to import"
// @Success 202 {object} model.EnqueueResult
// @Failure 400 {object} ErrorResponse "Invalid batch"
// @Failure 503 {object} ErrorResponse "Queue disabled"
// @Router /places/import [post]
func (controller *PlacesController) EnqueuePlaces(c echo.Context) error {
	var batch model.PlacesImportMessage
	if err := c.Bind(&batch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	result, err := controller.useCase.EnqueuePlaces(c.Request().Context(), batch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, result)
}
