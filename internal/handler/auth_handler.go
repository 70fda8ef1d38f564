package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /auth 以下のAPI
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	//セッションに紐付けるIPとUser-Agentを取得
	ip := c.RealIP()
	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Login(c.Request().Context(), req, ip, userAgent)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshはPOST /auth/refresh のハンドラ。
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "VALIDATION_ERROR")
	}

	out, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// LogoutはPOST /auth/logout（要認証）。現在のセッションだけ失効する。
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, _ := c.Get(middleware.CtxSessionIDKey).(string)

	out, err := h.uc.Logout(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// LogoutAllはPOST /auth/logout-all（要認証）。全デバイスから失効する。
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(string)

	out, err := h.uc.LogoutAll(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// MeはGET /auth/me（要認証）。
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(string)

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// SessionsはGET /auth/sessions（要認証）。「ログイン中のデバイス」一覧。
func (h *AuthHandler) Sessions(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(string)
	sessionID, _ := c.Get(middleware.CtxSessionIDKey).(string)

	out, err := h.uc.ListSessions(c.Request().Context(), userID, sessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type revokeSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// RevokeSessionはDELETE /auth/sessions（要認証）。指定セッションを失効する。
func (h *AuthHandler) RevokeSession(c echo.Context) error {
	var req revokeSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "VALIDATION_ERROR")
	}

	userID, _ := c.Get(middleware.CtxUserIDKey).(string)
	currentSessionID, _ := c.Get(middleware.CtxSessionIDKey).(string)

	out, err := h.uc.RevokeSession(c.Request().Context(), userID, req.SessionID, currentSessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
