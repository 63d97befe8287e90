package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/middleware"
	"github.com/vterekhov/procurement-backend/internal/pricelist"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type PartnerHandler struct {
	partner service.PartnerService
	imports service.ImportService
	catalog service.CatalogService
	orders  service.OrderService
	log     *zap.Logger
}

func NewPartnerHandler(
	partner service.PartnerService,
	imports service.ImportService,
	catalog service.CatalogService,
	orders service.OrderService,
	log *zap.Logger,
) *PartnerHandler {
	return &PartnerHandler{
		partner: partner,
		imports: imports,
		catalog: catalog,
		orders:  orders,
		log:     log,
	}
}

type importResponse struct {
	SupplierID uint64 `json:"supplier_id"`
	Categories int    `json:"categories"`
	Offers     int    `json:"offers"`
}

type stateRequest struct {
	AcceptsOrders bool `json:"accepts_orders"`
}

// ImportPriceList accepts a YAML or XLSX price list, either as the
// multipart field "file" or fetched from the form value "url". The
// format is taken from the file extension.
func (h *PartnerHandler) ImportPriceList(c echo.Context) error {
	user := middleware.UserFromContext(c)

	var (
		name string
		src  io.ReadCloser
	)
	if fh, err := c.FormFile("file"); err == nil {
		name = fh.Filename
		src, err = fh.Open()
		if err != nil {
			return respondError(c, h.log, err)
		}
	} else if raw := c.FormValue("url"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", "url must be http or https"))
		}
		resp, err := http.Get(u.String())
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", "could not fetch price list url"))
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", fmt.Sprintf("price list url returned %d", resp.StatusCode)))
		}
		name = u.Path
		src = resp.Body
	} else {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "multipart field \"file\" or form value \"url\" is required"))
	}
	defer src.Close()

	var format pricelist.Format
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		format = pricelist.FormatYAML
	case ".xlsx":
		format = pricelist.FormatXLSX
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", "unsupported price list format, expected .yaml or .xlsx"))
	}

	doc, err := pricelist.Parse(src, format)
	if err != nil {
		return respondError(c, h.log, err)
	}

	result, err := h.imports.Import(c.Request().Context(), user, doc)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, importResponse{
		SupplierID: result.SupplierID,
		Categories: result.Categories,
		Offers:     result.Offers,
	})
}

func (h *PartnerHandler) GetState(c echo.Context) error {
	user := middleware.UserFromContext(c)
	supplier, err := h.partner.Supplier(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toSupplierResponse(supplier))
}

func (h *PartnerHandler) SetState(c echo.Context) error {
	user := middleware.UserFromContext(c)
	var req stateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "invalid request body"))
	}
	supplier, err := h.partner.SetAcceptsOrders(c.Request().Context(), user, req.AcceptsOrders)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toSupplierResponse(supplier))
}

func (h *PartnerHandler) ListOffers(c echo.Context) error {
	user := middleware.UserFromContext(c)
	supplier, err := h.partner.Supplier(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.log, err)
	}
	offers, total, err := h.catalog.ListSupplierOffers(c.Request().Context(), supplier.ID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOfferListResponse(offers, total))
}

func (h *PartnerHandler) ListOrders(c echo.Context) error {
	user := middleware.UserFromContext(c)
	supplier, err := h.partner.Supplier(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.log, err)
	}
	orders, total, err := h.orders.ListForSupplier(c.Request().Context(), supplier.ID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders, total))
}
