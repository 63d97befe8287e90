package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type SocialHandler struct {
	social service.SocialService
	log    *zap.Logger
}

func NewSocialHandler(social service.SocialService, log *zap.Logger) *SocialHandler {
	return &SocialHandler{social: social, log: log}
}

type authURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

func (h *SocialHandler) Providers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"providers": h.social.Providers()})
}

func (h *SocialHandler) AuthURL(c echo.Context) error {
	state := uuid.NewString()
	url, err := h.social.AuthURL(c.Param("provider"), state)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, authURLResponse{URL: url, State: state})
}

func (h *SocialHandler) Callback(c echo.Context) error {
	token, user, err := h.social.HandleCallback(c.Request().Context(), c.Param("provider"), c.QueryParam("code"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, User: toUserResponse(user)})
}
