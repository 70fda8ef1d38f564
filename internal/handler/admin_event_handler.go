package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/events の管理API（ADMINのみ）
type AdminEventHandler struct {
	uc *usecase.EventUsecase
}

// DI
func NewAdminEventHandler(uc *usecase.EventUsecase) *AdminEventHandler {
	return &AdminEventHandler{uc: uc}
}

func (h *AdminEventHandler) Create(c echo.Context) error {
	var req usecase.CreateEventInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	e, err := h.uc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, e)
}

func (h *AdminEventHandler) Update(c echo.Context) error {
	var req usecase.UpdateEventInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	e, err := h.uc.Update(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, e)
}

func (h *AdminEventHandler) Delete(c echo.Context) error {
	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	if err := h.uc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "deleted"})
}
