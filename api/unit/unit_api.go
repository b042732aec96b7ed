package unit

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	"backoffice.GO/core/apperr"
	unitService "backoffice.GO/service/unit"
)

func init() {
	api.RegisterModule(RegisterUnitRoutes)
}

func RegisterUnitRoutes(apiGroup *echo.Group, _ *api.Services) {
	// GET /api/units/:unit/compatible – units a quantity in :unit may be entered in
	apiGroup.GET("/units/:unit/compatible", func(c echo.Context) error {
		u, ok := unitService.Normalize(c.Param("unit"))
		if !ok {
			return api.ErrorResponse(c, &apperr.IncompatibleUnitError{From: c.Param("unit")})
		}
		return c.JSON(http.StatusOK, echo.Map{"unit": u, "compatible": unitService.CompatibleUnits(u)})
	})
}
