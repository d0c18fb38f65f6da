package controller

import (
	"net/http"

	"countries-informer/internal/domain/gateway/cache"

	"github.com/labstack/echo/v4"
)

type CacheController struct {
	api        *echo.Group
	namespaces *cache.Namespaces
}

func NewCacheController(api *echo.Group, namespaces *cache.Namespaces) *CacheController {
	return &CacheController{api: api, namespaces: namespaces}
}

// InitCacheRoutes initializes cache maintenance routes
func (controller *CacheController) InitCacheRoutes() {
	controller.api.DELETE("/cache/:namespace", controller.Flush)
}

// Flush godoc
// @Summary Flush a cache namespace
// @Description Removes every key of one namespace and leaves the others untouched
// @Tags cache
// @Param namespace path string true "default, weather, currency or news"
// @Success 204
// @Failure 404 {object} ErrorResponse "Unknown namespace"
// @Failure 500 {object} ErrorResponse
// @Router /cache/{namespace} [delete]
func (controller *CacheController) Flush(c echo.Context) error {
	namespace, err := controller.namespaces.Get(c.Param("namespace"))
	if err != nil {
		return respondError(c, err)
	}

	if err := namespace.Flush(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
