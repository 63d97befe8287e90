package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/middleware"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type ContactHandler struct {
	contacts service.ContactService
	log      *zap.Logger
}

func NewContactHandler(contacts service.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, log: log}
}

type contactRequest struct {
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone"`
}

type contactResponse struct {
	ID        uint64 `json:"id"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house,omitempty"`
	Building  string `json:"building,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Phone     string `json:"phone"`
}

func toContactResponse(c *model.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}

func (r contactRequest) toInput() service.ContactInput {
	return service.ContactInput{
		City:      r.City,
		Street:    r.Street,
		House:     r.House,
		Building:  r.Building,
		Apartment: r.Apartment,
		Phone:     r.Phone,
	}
}

func (h *ContactHandler) Create(c echo.Context) error {
	user := middleware.UserFromContext(c)
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	contact, err := h.contacts.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, toContactResponse(contact))
}

func (h *ContactHandler) List(c echo.Context) error {
	user := middleware.UserFromContext(c)
	contacts, err := h.contacts.List(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]contactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, toContactResponse(&contacts[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContactHandler) Update(c echo.Context) error {
	user := middleware.UserFromContext(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid contact id"))
	}
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	contact, err := h.contacts.Update(c.Request().Context(), user.ID, id, req.toInput())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) Delete(c echo.Context) error {
	user := middleware.UserFromContext(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid contact id"))
	}
	if err := h.contacts.Delete(c.Request().Context(), user.ID, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
