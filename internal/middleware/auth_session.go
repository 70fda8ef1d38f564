package middleware

import (
	"net/http"
	"strings"

	"app/internal/session"
	"app/internal/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // string
	CtxUserRoleKey     = "user_role"     // string
	CtxSessionIDKey    = "session_id"    // string
	CtxNeedsRefreshKey = "needs_refresh" // bool
)

// 旧クライアント互換のcookie名
const accessTokenCookie = "access_token"

// 認証エラーのボディ。kindで「refreshすべきか・再ログインか」を区別できる。
type authErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
	TraceID string `json:"trace_id"`
}

// bearer（またはcookie）のトークンをセッション込みで検証するミドルウェア。
// 有効だが期限が近い場合は通しつつX-Token-Refreshヘッダで知らせる。
func AuthSession(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				return unauthorized(c, string(token.KindMalformed), "missing bearer token")
			}

			v, err := store.Validate(c.Request().Context(), raw)
			if err != nil {
				//ストレージ障害など。構造化できない失敗だけ500
				return c.JSON(http.StatusInternalServerError, authErrorResponse{
					Error:   "internal",
					Detail:  "session lookup failed",
					TraceID: traceID(c),
				})
			}

			if !v.Valid() {
				switch v.Kind {
				case token.KindExpired:
					return unauthorized(c, string(v.Kind), "token expired, refresh required")
				case session.KindNotFound:
					return unauthorized(c, string(v.Kind), "session revoked, re-login required")
				default:
					return unauthorized(c, string(v.Kind), "invalid token, re-login required")
				}
			}

			//refreshトークンでAPIは呼ばせない
			if v.Claims.TokenType != token.TypeAccess {
				return unauthorized(c, string(token.KindMalformed), "access token required")
			}

			if v.State == session.StateValidNeedsRefresh {
				c.Response().Header().Set("X-Token-Refresh", "recommended")
				c.Set(CtxNeedsRefreshKey, true)
			}

			//contextへ保存
			c.Set(CtxUserIDKey, v.Claims.UserID)
			c.Set(CtxUserRoleKey, v.Claims.Role)
			c.Set(CtxSessionIDKey, v.Claims.SessionID)

			return next(c)
		}
	}
}

// Authorization: Bearer <token> を優先し、無ければcookieを見る
func extractToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func unauthorized(c echo.Context, kind string, detail string) error {
	return c.JSON(http.StatusUnauthorized, authErrorResponse{
		Error:   "unauthorized",
		Kind:    kind,
		Detail:  detail,
		TraceID: traceID(c),
	})
}

// RequestIDミドルウェアが払い出したidを相関用に返す
func traceID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
