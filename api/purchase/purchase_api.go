package purchase

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	inventoryService "backoffice.GO/service/inventory"
	purchaseService "backoffice.GO/service/purchase"
)

func init() {
	api.RegisterModule(RegisterPurchaseRoutes)
}

type noteRequest struct {
	Note string `json:"note"`
}

type receiveRequest struct {
	Items   []inventoryService.ReceiveItem `json:"items" validate:"required,min=1"`
	Payment inventoryService.PaymentInfo   `json:"payment"`
}

type transitionFunc func(ctx context.Context, id, note string) (*purchaseEntity.PurchaseOrder, error)

func RegisterPurchaseRoutes(apiGroup *echo.Group, s *api.Services) {
	g := apiGroup.Group("/purchase-orders")

	g.POST("", func(c echo.Context) error {
		var body purchaseService.Draft
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		po, err := s.Purchase.CreateDraft(c.Request().Context(), body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, po)
	})

	g.GET("", func(c echo.Context) error {
		page, _ := strconv.Atoi(c.QueryParam("page"))
		size, _ := strconv.Atoi(c.QueryParam("page_size"))
		res, err := s.Purchase.List(c.Request().Context(), purchaseService.ListFilter{
			Status:     purchaseEntity.Status(c.QueryParam("status")),
			SupplierID: c.QueryParam("supplier_id"),
			Page:       page,
			PageSize:   size,
		})
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	g.GET("/:id", func(c echo.Context) error {
		po, err := s.Purchase.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, po)
	})

	transitions := map[string]transitionFunc{
		"submit":           s.Purchase.Submit,
		"request-approval": s.Purchase.RequestApproval,
		"approve":          s.Purchase.Approve,
		"process":          s.Purchase.MarkProcessed,
		"ship":             s.Purchase.MarkShipped,
		"cancel":           s.Purchase.Cancel,
		"reject":           s.Purchase.Reject,
	}
	for action, fn := range transitions {
		g.POST("/:id/"+action, transition(fn))
	}

	g.POST("/:id/receive", func(c echo.Context) error {
		var body receiveRequest
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		po, err := s.Purchase.Receive(c.Request().Context(), c.Param("id"), body.Items, body.Payment)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, po)
	})

	g.POST("/:id/repeat", func(c echo.Context) error {
		po, err := s.Purchase.Repeat(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, po)
	})

	g.POST("/:id/payment", func(c echo.Context) error {
		var body purchaseService.PaymentUpdate
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		po, err := s.Purchase.UpdatePayment(c.Request().Context(), c.Param("id"), body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, po)
	})

	sg := apiGroup.Group("/suppliers")

	sg.GET("", func(c echo.Context) error {
		items, err := s.Purchase.ListSuppliers(c.Request().Context())
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	})

	sg.POST("", func(c echo.Context) error {
		var body purchaseEntity.Supplier
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		sup, err := s.Purchase.CreateSupplier(c.Request().Context(), &body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, sup)
	})

	// GET /api/suppliers/:id/last-price/:ingredientId – price suggestion for order entry
	sg.GET("/:id/last-price/:ingredientId", func(c echo.Context) error {
		price, found, err := s.Purchase.GetLastSupplierPrice(c.Request().Context(), c.Param("id"), c.Param("ingredientId"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		if !found {
			return c.JSON(http.StatusOK, echo.Map{"found": false})
		}
		return c.JSON(http.StatusOK, echo.Map{"found": true, "price": price})
	})
}

func transition(fn transitionFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body noteRequest
		if c.Request().ContentLength != 0 {
			if err := api.Bind(c, &body); err != nil {
				return api.ErrorResponse(c, err)
			}
		}
		po, err := fn(c.Request().Context(), c.Param("id"), body.Note)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, po)
	}
}
