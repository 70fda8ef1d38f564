package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/teachings の管理API（ADMINのみ）
type AdminTeachingHandler struct {
	uc *usecase.TeachingUsecase
}

// DI
func NewAdminTeachingHandler(uc *usecase.TeachingUsecase) *AdminTeachingHandler {
	return &AdminTeachingHandler{uc: uc}
}

func (h *AdminTeachingHandler) Create(c echo.Context) error {
	var req usecase.CreateTeachingInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	t, err := h.uc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, t)
}

func (h *AdminTeachingHandler) Update(c echo.Context) error {
	var req usecase.UpdateTeachingInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	t, err := h.uc.Update(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, t)
}

func (h *AdminTeachingHandler) Delete(c echo.Context) error {
	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	if err := h.uc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "deleted"})
}
