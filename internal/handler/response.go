package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/pricelist"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondError maps service errors to the JSON envelope. Unknown
// errors become an opaque 500 and are logged with the route.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, pricelist.ErrInvalid):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	case errors.Is(err, service.ErrAuthentication):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication_failed", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "insufficient permissions"))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "resource not found"))
	case errors.Is(err, service.ErrState):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("state_error", err.Error()))
	case errors.Is(err, service.ErrInsufficientStock):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("insufficient_stock", "not enough stock for the requested quantity"))
	case errors.Is(err, service.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("empty_cart", "basket has no items"))
	}
	log.Error("unhandled error",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "internal server error"))
}
