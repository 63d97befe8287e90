package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewProductHandler(catalog service.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

type offerResponse struct {
	ID         uint64            `json:"id"`
	Product    string            `json:"product"`
	Category   string            `json:"category"`
	Model      string            `json:"model,omitempty"`
	Supplier   string            `json:"supplier"`
	SupplierID uint64            `json:"supplier_id"`
	Price      float64           `json:"price"`
	PriceRRC   *float64          `json:"price_rrc,omitempty"`
	Quantity   uint              `json:"quantity"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type offerListResponse struct {
	Offers []offerResponse `json:"offers"`
	Total  int64           `json:"total"`
}

type categoryResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type supplierResponse struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url,omitempty"`
	AcceptsOrders bool   `json:"accepts_orders"`
}

func toOfferResponse(o *model.ProductOffer) offerResponse {
	resp := offerResponse{
		ID:         o.ID,
		Product:    o.Product.Name,
		Category:   o.Product.Category.Name,
		Model:      o.Model,
		Supplier:   o.Supplier.Name,
		SupplierID: o.SupplierID,
		Price:      o.Price,
		PriceRRC:   o.PriceRRC,
		Quantity:   o.Quantity,
	}
	if len(o.Parameters) > 0 {
		resp.Parameters = make(map[string]string, len(o.Parameters))
		for _, p := range o.Parameters {
			resp.Parameters[p.Name] = p.Value
		}
	}
	return resp
}

func toOfferListResponse(offers []model.ProductOffer, total int64) offerListResponse {
	out := offerListResponse{Offers: make([]offerResponse, 0, len(offers)), Total: total}
	for i := range offers {
		out.Offers = append(out.Offers, toOfferResponse(&offers[i]))
	}
	return out
}

func toSupplierResponse(s *model.Supplier) supplierResponse {
	resp := supplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		AcceptsOrders: s.AcceptsOrders,
	}
	if s.URL != nil {
		resp.URL = *s.URL
	}
	return resp
}

func (h *ProductHandler) ListOffers(c echo.Context) error {
	filter := repository.OfferFilter{
		Name:     c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Supplier: c.QueryParam("supplier"),
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}
	if v, ok := queryFloat(c, "price_min"); ok {
		filter.PriceMin = &v
	}
	if v, ok := queryFloat(c, "price_max"); ok {
		filter.PriceMax = &v
	}
	if v, ok := queryUint(c, "quantity_min"); ok {
		filter.QuantityMin = &v
	}
	if v, ok := queryUint(c, "quantity_max"); ok {
		filter.QuantityMax = &v
	}

	offers, total, err := h.catalog.ListOffers(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOfferListResponse(offers, total))
}

func (h *ProductHandler) GetOffer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid offer id"))
	}
	offer, err := h.catalog.GetOffer(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryResponse{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) ListSuppliers(c echo.Context) error {
	suppliers, err := h.catalog.ListSuppliers(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]supplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, toSupplierResponse(&suppliers[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryFloat(c echo.Context, name string) (float64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func queryUint(c echo.Context, name string) (uint, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
