package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /teachings の公開API
type TeachingHandler struct {
	uc *usecase.TeachingUsecase
}

// DI
func NewTeachingHandler(uc *usecase.TeachingUsecase) *TeachingHandler {
	return &TeachingHandler{uc: uc}
}

func (h *TeachingHandler) List(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = l
	}

	out, err := h.uc.ListPublished(c.Request().Context(), usecase.ListTeachingsInput{
		Page:     page,
		Limit:    limit,
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *TeachingHandler) Detail(c echo.Context) error {
	slug := c.Param("slug")

	t, err := h.uc.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, t)
}
