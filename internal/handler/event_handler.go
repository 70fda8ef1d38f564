package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /events の公開API
type EventHandler struct {
	uc *usecase.EventUsecase
}

// DI
func NewEventHandler(uc *usecase.EventUsecase) *EventHandler {
	return &EventHandler{uc: uc}
}

func (h *EventHandler) List(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = l
	}

	//past=1で過去の行事も含める
	includePast := c.QueryParam("past") == "1"

	out, err := h.uc.ListPublished(c.Request().Context(), usecase.ListEventsInput{
		Page:        page,
		Limit:       limit,
		IncludePast: includePast,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *EventHandler) Detail(c echo.Context) error {
	e, err := h.uc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, e)
}
