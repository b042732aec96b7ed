package inventory

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"backoffice.GO/api"
	"backoffice.GO/core/apperr"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	inventoryService "backoffice.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterIngredientRoutes)
}

type adjustRequest struct {
	PhysicalQty *decimal.Decimal       `json:"physical_qty" validate:"required"`
	Reason      inventoryEntity.Reason `json:"reason" validate:"required"`
	Note        string                 `json:"note"`
}

type produceRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

func RegisterIngredientRoutes(apiGroup *echo.Group, s *api.Services) {
	g := apiGroup.Group("/ingredients")

	g.GET("", func(c echo.Context) error {
		page, _ := strconv.Atoi(c.QueryParam("page"))
		size, _ := strconv.Atoi(c.QueryParam("page_size"))
		res, err := s.Inventory.ListIngredients(c.Request().Context(), inventoryService.ListFilter{
			Category:   c.QueryParam("category"),
			Status:     inventoryEntity.StockStatus(c.QueryParam("status")),
			SupplierID: c.QueryParam("supplier_id"),
			Search:     c.QueryParam("search"),
			Page:       page,
			PageSize:   size,
		})
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	g.POST("", func(c echo.Context) error {
		var body inventoryEntity.Ingredient
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		ing, err := s.Inventory.CreateIngredient(c.Request().Context(), &body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, ing)
	})

	// GET /api/ingredients/export – CSV of the ingredients in scope
	g.GET("/export", func(c echo.Context) error {
		var buf bytes.Buffer
		if err := s.Inventory.ExportCSV(c.Request().Context(), &buf); err != nil {
			return api.ErrorResponse(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ingredients.csv"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	})

	// POST /api/ingredients/import – multipart "file" or a raw text/csv body
	g.POST("/import", func(c echo.Context) error {
		start := time.Now()
		src, err := csvSource(c)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		defer src.Close()

		res, err := s.Inventory.ImportCSV(c.Request().Context(), src)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"total_rows":          res.TotalRows,
			"imported":            res.Imported,
			"created":             res.Created,
			"updated":             res.Updated,
			"skipped":             res.Skipped,
			"row_errors":          res.RowErrors,
			"request_duration_ms": duration,
		})
	})

	g.GET("/:id", func(c echo.Context) error {
		ing, err := s.Inventory.GetIngredient(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, ing)
	})

	g.PUT("/:id", func(c echo.Context) error {
		var body inventoryEntity.Ingredient
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		ing, err := s.Inventory.UpdateIngredient(c.Request().Context(), c.Param("id"), &body)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, ing)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		if err := s.Inventory.DeleteIngredient(c.Request().Context(), c.Param("id")); err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})

	g.POST("/:id/adjust", func(c echo.Context) error {
		var body adjustRequest
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		adj, err := s.Inventory.AdjustStock(c.Request().Context(), c.Param("id"), *body.PhysicalQty, body.Reason, body.Note)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, adj)
	})

	g.GET("/:id/history", func(c echo.Context) error {
		items, err := s.Inventory.GetIngredientHistory(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	})

	g.POST("/:id/produce", func(c echo.Context) error {
		var body produceRequest
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		res, err := s.Production.Produce(c.Request().Context(), c.Param("id"), body.Quantity)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	g.POST("/:id/produce/preview", func(c echo.Context) error {
		var body produceRequest
		if err := api.Bind(c, &body); err != nil {
			return api.ErrorResponse(c, err)
		}
		plan, err := s.Production.PreviewProduction(c.Request().Context(), c.Param("id"), body.Quantity)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, plan)
	})
}

func csvSource(c echo.Context) (io.ReadCloser, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, apperr.Validation("file", "open upload: %v", err)
		}
		return f, nil
	}
	body := c.Request().Body
	if body == nil || body == http.NoBody {
		return nil, apperr.Validation("file", "a CSV file is required")
	}
	return body, nil
}
