package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/middleware"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

type checkoutRequest struct {
	ContactID uint64 `json:"contact_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	ID       uint64  `json:"id"`
	OfferID  uint64  `json:"offer_id"`
	Product  string  `json:"product"`
	Supplier string  `json:"supplier"`
	Price    float64 `json:"price"`
	Quantity uint    `json:"quantity"`
	Sum      float64 `json:"sum"`
}

type deliveryResponse struct {
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house,omitempty"`
	Building  string `json:"building,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Phone     string `json:"phone"`
}

type orderResponse struct {
	ID        uint64              `json:"id"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []orderItemResponse `json:"items"`
	TotalSum  float64             `json:"total_sum"`
	Delivery  *deliveryResponse   `json:"delivery,omitempty"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

func toOrderResponse(o *model.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		Items:     make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		sum := item.Offer.Price * float64(item.Quantity)
		resp.Items = append(resp.Items, orderItemResponse{
			ID:       item.ID,
			OfferID:  item.OfferID,
			Product:  item.Offer.Product.Name,
			Supplier: item.Offer.Supplier.Name,
			Price:    item.Offer.Price,
			Quantity: item.Quantity,
			Sum:      sum,
		})
		resp.TotalSum += sum
	}
	if o.Status != model.OrderStatusBasket {
		resp.Delivery = &deliveryResponse{
			City:      o.DeliveryCity,
			Street:    o.DeliveryStreet,
			House:     o.DeliveryHouse,
			Building:  o.DeliveryBuilding,
			Apartment: o.DeliveryApartment,
			Phone:     o.DeliveryPhone,
		}
	}
	return resp
}

func toOrderListResponse(orders []model.Order, total int64) orderListResponse {
	out := orderListResponse{Orders: make([]orderResponse, 0, len(orders)), Total: total}
	for i := range orders {
		out.Orders = append(out.Orders, toOrderResponse(&orders[i]))
	}
	return out
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	user := middleware.UserFromContext(c)
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	order, err := h.orders.Checkout(c.Request().Context(), user, req.ContactID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) List(c echo.Context) error {
	user := middleware.UserFromContext(c)

	var status *model.OrderStatus
	if raw := c.QueryParam("status"); raw != "" {
		st := model.OrderStatus(raw)
		if !st.Valid() || st == model.OrderStatusBasket {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", "unknown status filter"))
		}
		status = &st
	}

	orders, total, err := h.orders.List(c.Request().Context(), user.ID, status, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders, total))
}

func (h *OrderHandler) Get(c echo.Context) error {
	user := middleware.UserFromContext(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid order id"))
	}
	order, err := h.orders.Get(c.Request().Context(), user, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	user := middleware.UserFromContext(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid order id"))
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	order, err := h.orders.AdvanceStatus(c.Request().Context(), user, id, model.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
