package settlement

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	salesEntity "backoffice.GO/model/entity/sales"
)

func init() {
	api.RegisterModule(RegisterSettlementRoutes)
}

type saleRequest struct {
	ID               string                    `json:"id"`
	Lines            []salesEntity.LineRecord  `json:"lines" validate:"required,min=1"`
	PaymentStatus    salesEntity.PaymentStatus `json:"payment_status"`
	PaymentAccountID string                    `json:"payment_account_id"`
	RevenueAccountID string                    `json:"revenue_account_id"`
}

type payrollRequest struct {
	Method purchaseEntity.PaymentMethod `json:"method"`
}

// RegisterSettlementRoutes exposes the batch and bridge operations: auto
// restock, sale settlement and payroll payout.
func RegisterSettlementRoutes(apiGroup *echo.Group, s *api.Services) {
	apiGroup.POST("/restock/run", func(c echo.Context) error {
		res, err := s.Restock.Run(c.Request().Context())
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	apiGroup.POST("/sales/settle", func(c echo.Context) error {
		var body saleRequest
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		o, err := s.Bridge.SettleSale(c.Request().Context(), &salesEntity.SalesOrder{
			ID:               body.ID,
			LineData:         body.Lines,
			PaymentStatus:    body.PaymentStatus,
			PaymentAccountID: body.PaymentAccountID,
			RevenueAccountID: body.RevenueAccountID,
		})
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, o)
	})

	apiGroup.POST("/payrolls/:id/settle", func(c echo.Context) error {
		var body payrollRequest
		if c.Request().ContentLength != 0 {
			if err := api.Bind(c, &body); err != nil {
				return api.ErrorResponse(c, err)
			}
		}
		p, err := s.Bridge.SettlePayroll(c.Request().Context(), c.Param("id"), body.Method)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
}
