package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/middleware"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type BasketHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewBasketHandler(orders service.OrderService, log *zap.Logger) *BasketHandler {
	return &BasketHandler{orders: orders, log: log}
}

type addItemRequest struct {
	OfferID  uint64 `json:"offer_id"`
	Quantity uint   `json:"quantity"`
}

type itemQuantityRequest struct {
	Quantity uint `json:"quantity"`
}

func (h *BasketHandler) Get(c echo.Context) error {
	user := middleware.UserFromContext(c)
	basket, err := h.orders.GetBasket(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if basket == nil {
		return c.JSON(http.StatusOK, toOrderResponse(&model.Order{Status: model.OrderStatusBasket}))
	}
	return c.JSON(http.StatusOK, toOrderResponse(basket))
}

func (h *BasketHandler) AddItem(c echo.Context) error {
	user := middleware.UserFromContext(c)
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	basket, err := h.orders.AddItem(c.Request().Context(), user.ID, req.OfferID, req.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(basket))
}

func (h *BasketHandler) UpdateItem(c echo.Context) error {
	user := middleware.UserFromContext(c)
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid item id"))
	}
	var req itemQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	basket, err := h.orders.UpdateItemQuantity(c.Request().Context(), user.ID, itemID, req.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(basket))
}

func (h *BasketHandler) RemoveItem(c echo.Context) error {
	user := middleware.UserFromContext(c)
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid item id"))
	}
	basket, err := h.orders.RemoveItem(c.Request().Context(), user.ID, itemID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(basket))
}

func (h *BasketHandler) Clear(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if err := h.orders.ClearBasket(c.Request().Context(), user.ID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
