package transfer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	transferEntity "backoffice.GO/model/entity/transfer"
	transferService "backoffice.GO/service/transfer"
)

func init() {
	api.RegisterModule(RegisterTransferRoutes)
}

type receiveRequest struct {
	Items []transferService.Line `json:"items"`
}

type cancelRequest struct {
	Note string `json:"note"`
}

func RegisterTransferRoutes(apiGroup *echo.Group, s *api.Services) {
	g := apiGroup.Group("/transfers")

	g.POST("", func(c echo.Context) error {
		var body transferService.Request
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		t, err := s.Transfer.Request(c.Request().Context(), body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, t)
	})

	g.GET("", func(c echo.Context) error {
		items, err := s.Transfer.List(c.Request().Context(), transferEntity.Status(c.QueryParam("status")))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	})

	g.GET("/:id", func(c echo.Context) error {
		t, err := s.Transfer.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, t)
	})

	g.POST("/:id/ship", func(c echo.Context) error {
		var body transferService.Shipment
		if err := bindOptional(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		t, err := s.Transfer.Ship(c.Request().Context(), c.Param("id"), body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, t)
	})

	g.POST("/:id/receive", func(c echo.Context) error {
		var body receiveRequest
		if err := bindOptional(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		t, err := s.Transfer.Receive(c.Request().Context(), c.Param("id"), body.Items)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, t)
	})

	g.POST("/:id/cancel", func(c echo.Context) error {
		var body cancelRequest
		if err := bindOptional(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		t, err := s.Transfer.Cancel(c.Request().Context(), c.Param("id"), body.Note)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, t)
	})
}

// bindOptional binds a body only when one was sent.
func bindOptional(c echo.Context, dst interface{}) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	return api.Bind(c, dst)
}
