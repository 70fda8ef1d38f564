package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /media の公開API
type MediaHandler struct {
	uc *usecase.MediaUsecase
}

// DI
func NewMediaHandler(uc *usecase.MediaUsecase) *MediaHandler {
	return &MediaHandler{uc: uc}
}

func (h *MediaHandler) List(c echo.Context) error {
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

	out, err := h.uc.ListPublished(c.Request().Context(), usecase.ListMediaInput{
		Page:  page,
		Limit: limit,
		Type:  c.QueryParam("type"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ダウンロードは署名付きURLを返すだけ。実データはストレージ直。
func (h *MediaHandler) DownloadURL(c echo.Context) error {
	out, err := h.uc.DownloadURL(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// /admin/media の管理API（ADMINのみ）
type AdminMediaHandler struct {
	uc *usecase.MediaUsecase
}

// DI
func NewAdminMediaHandler(uc *usecase.MediaUsecase) *AdminMediaHandler {
	return &AdminMediaHandler{uc: uc}
}

// アップロード用の署名付きPUT URLとメタデータを作る。
func (h *AdminMediaHandler) CreateUpload(c echo.Context) error {
	var req usecase.CreateUploadInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	out, err := h.uc.CreateUpload(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

type publishMediaRequest struct {
	SizeBytes int64 `json:"size_bytes"`
}

func (h *AdminMediaHandler) Publish(c echo.Context) error {
	var req publishMediaRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	m, err := h.uc.Publish(c.Request().Context(), actor, c.Param("id"), req.SizeBytes)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, m)
}

func (h *AdminMediaHandler) Delete(c echo.Context) error {
	actor, _ := c.Get(middleware.CtxUserIDKey).(string)

	if err := h.uc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "deleted"})
}
