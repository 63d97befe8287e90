package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/middleware"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
)

type AvatarHandler struct {
	avatars service.AvatarService
	log     *zap.Logger
}

func NewAvatarHandler(avatars service.AvatarService, log *zap.Logger) *AvatarHandler {
	return &AvatarHandler{avatars: avatars, log: log}
}

type avatarAcceptedResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type taskStatusResponse struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Progress int    `json:"progress"`
}

func (h *AvatarHandler) Upload(c echo.Context) error {
	user := middleware.UserFromContext(c)

	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_request", "multipart field \"avatar\" is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return respondError(c, h.log, err)
	}
	defer src.Close()

	taskID, err := h.avatars.Upload(c.Request().Context(), user.ID, src, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusAccepted, avatarAcceptedResponse{TaskID: taskID, Status: "pending"})
}

func (h *AvatarHandler) Status(c echo.Context) error {
	st, err := h.avatars.Status(c.Request().Context(), c.Param("task_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, taskStatusResponse{
		TaskID:   st.TaskID,
		Status:   st.Status,
		Message:  st.Message,
		Progress: st.Progress,
	})
}
