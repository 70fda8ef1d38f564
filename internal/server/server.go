package server

import (
	"context"
	"net/http"

	"app/internal/handler"
	"app/internal/ratelimit"
	"app/internal/session"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルーティングに必要な部品一式
type Deps struct {
	Store   *session.Store
	Limiter *ratelimit.Limiter
	FEURL   string

	Auth          *handler.AuthHandler
	Teachings     *handler.TeachingHandler
	Events        *handler.EventHandler
	Media         *handler.MediaHandler
	Search        *handler.SearchHandler
	Quotes        *handler.QuoteHandler
	AdminTeaching *handler.AdminTeachingHandler
	AdminEvent    *handler.AdminEventHandler
	AdminMedia    *handler.AdminMediaHandler
}

func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	//全レスポンスにトレースID
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())

	if d.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{d.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, d)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

func Shutdown(ctx context.Context, e *echo.Echo) error {
	return e.Shutdown(ctx)
}
