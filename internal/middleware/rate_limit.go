package middleware

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

// RFC 7807風のエラーボディ（429用）
type ProblemDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	Instance  string `json:"instance"`
	Timestamp string `json:"timestamp"`
	TraceID   string `json:"trace_id,omitempty"`
}

// リクエストからレートリミットのkeyを決める約束
type KeyFunc func(c echo.Context) string

// 送信元IP単位（認証・検索用）
func KeyByIP(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// IP+パス単位（一般API用）
func KeyByIPPath(c echo.Context) string {
	return "ip:" + c.RealIP() + ":" + c.Path()
}

// 認証済みユーザー単位。未認証ならIPへフォールバック
func KeyByUser(c echo.Context) string {
	if userID, ok := c.Get(CtxUserIDKey).(string); ok && userID != "" {
		return "user:" + userID
	}
	return KeyByIP(c)
}

// 入場判定。拒否時は429＋Retry-After、許可時もクォータヘッダを付ける。
func RateLimit(l *ratelimit.Limiter, cfg ratelimit.Config, key KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := l.Check(key(c), cfg)

			setQuotaHeaders(c, d)

			if !d.Allowed {
				retryAfter := int(d.RetryAfter / time.Second)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

				return c.JSON(http.StatusTooManyRequests, ProblemDetails{
					Type:      "about:blank",
					Title:     "Too Many Requests",
					Status:    http.StatusTooManyRequests,
					Detail:    "rate limit exceeded, retry after " + strconv.Itoa(retryAfter) + "s",
					Instance:  c.Request().RequestURI,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					TraceID:   traceID(c),
				})
			}

			return next(c)
		}
	}
}

func setQuotaHeaders(c echo.Context, d ratelimit.Decision) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}
