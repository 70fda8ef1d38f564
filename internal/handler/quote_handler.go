package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /quotes/daily の「今日の言葉」API
type QuoteHandler struct {
	uc *usecase.QuoteUsecase
}

// DI
func NewQuoteHandler(uc *usecase.QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

func (h *QuoteHandler) Daily(c echo.Context) error {
	q, err := h.uc.Daily(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, q)
}
