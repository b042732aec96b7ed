package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice.GO/core/apperr"
)

// StatusOf maps a service error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrIncompatibleUnit):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInsufficientStock), errors.Is(err, apperr.ErrConcurrencyAnomaly):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorResponse writes err as {"error": "..."} with its mapped status.
// Shortfalls also carry the failing component.
func ErrorResponse(c echo.Context, err error) error {
	status := StatusOf(err)
	body := echo.Map{"error": err.Error()}
	var short *apperr.InsufficientStockError
	if errors.As(err, &short) {
		body["ingredient_id"] = short.IngredientID
		body["required"] = short.Required
		body["available"] = short.Available
		body["unit"] = short.Unit
	}
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		body["error"] = "internal error"
	}
	return c.JSON(status, body)
}
