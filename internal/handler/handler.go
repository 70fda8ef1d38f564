package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	//RequestIDミドルウェアが払い出した相関ID
	TraceID string `json:"trace_id,omitempty"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{
		Error:   message,
		TraceID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}

func badRequest(c echo.Context, message string) error {
	return errorJSON(c, http.StatusBadRequest, message)
}

// usecaseのエラーをHTTPに変換する共通処理。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return errorJSON(c, he.Status, he.Message)
	}

	switch err {
	case usecase.ErrValidation:
		return errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR")
	case usecase.ErrUnauthorized:
		return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED")
	case usecase.ErrForbidden:
		return errorJSON(c, http.StatusForbidden, "FORBIDDEN")
	case usecase.ErrNotFound:
		return errorJSON(c, http.StatusNotFound, "NOT_FOUND")
	case usecase.ErrConflict:
		return errorJSON(c, http.StatusConflict, "CONFLICT")
	}

	//500
	return errorJSON(c, http.StatusInternalServerError, "INTERNAL")
}
