package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/chenterphai/releasehub/internal/middleware"
	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	ReleaseHandler *ReleaseHTTP

	Auth        *middleware.Auth
	RateLimiter *middleware.RateLimiter

	Logger           *slog.Logger
	WhitelistOrigins []string
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())
	if len(d.WhitelistOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     d.WhitelistOrigins,
			AllowCredentials: true,
		}))
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.OK("Success", "Successfully", nil))
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.Use(d.RateLimiter.Middleware)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh-token", d.AuthHandler.RefreshToken)
	auth.POST("/logout", d.AuthHandler.Logout, d.Auth.Authenticate)

	user := e.Group("/user")
	user.Use(d.Auth.Authenticate)
	user.Use(d.Auth.Authorize(models.RoleAdmin, models.RoleUser))
	user.GET("/me", d.UserHandler.Me)
	user.PUT("/me", d.UserHandler.UpdateMe)

	release := e.Group("/release")
	release.GET("", d.ReleaseHandler.GetAll)
	release.GET("/search", d.ReleaseHandler.SearchReleases)
	release.GET("/:id", d.ReleaseHandler.Get)

	releaseAdmin := e.Group("/release")
	releaseAdmin.Use(d.Auth.Authenticate)
	releaseAdmin.Use(d.Auth.Authorize(models.RoleAdmin))
	releaseAdmin.POST("", d.ReleaseHandler.Create)
	releaseAdmin.PUT("/:id", d.ReleaseHandler.Update)
	releaseAdmin.DELETE("/:id", d.ReleaseHandler.Delete)
}
