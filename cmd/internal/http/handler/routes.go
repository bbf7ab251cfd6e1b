package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"tenantnotes/cmd/internal/utils/apierror"
)

type Routes struct {
	Auth        *DefaultAuthRoute
	Notes       *DefaultNoteRoute
	Tenants     *DefaultTenantRoute
	Users       *DefaultUserRoute
	Invitations *DefaultInvitationRoute
	WebSocket   *DefaultWSRoute

	// GatewayAuth guards the websocket gateway callbacks when set.
	GatewayAuth echo.MiddlewareFunc
}

// NewLoginRateLimiter limits login attempts per client IP. A non-positive
// rate disables limiting.
func NewLoginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(apierror.InternalServerError.Code(), apierror.InternalServerError)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(apierror.TooManyRequestsError.Code(), apierror.TooManyRequestsError)
		},
	})
}

func Register(e *echo.Echo, r *Routes, loginLimiter echo.MiddlewareFunc) {
	// Auth
	e.POST("/api/auth/login", r.Auth.Login, loginLimiter)
	e.POST("/api/auth/logout", r.Auth.Logout)
	e.GET("/api/auth/me", r.Auth.Me)

	// Notes
	e.GET("/api/notes", r.Notes.GetNotes)
	e.GET("/api/notes/:id", r.Notes.GetNote)
	e.POST("/api/notes", r.Notes.CreateNote)
	e.PUT("/api/notes/:id", r.Notes.UpdateNote)
	e.DELETE("/api/notes/:id", r.Notes.DeleteNote)

	// Tenants
	e.GET("/api/tenants/:slug", r.Tenants.GetTenant)
	e.PUT("/api/tenants/:slug", r.Tenants.UpdateTenant)
	e.POST("/api/tenants/:slug/upgrade", r.Tenants.UpgradeTenant)

	// Users
	e.GET("/api/users", r.Users.GetUsers)
	e.POST("/api/users", r.Users.CreateUser)
	e.PUT("/api/users/:id", r.Users.UpdateUser)
	e.DELETE("/api/users/:id", r.Users.DeleteUser)

	// Upgrade invitations
	e.POST("/api/users/:id/invite-upgrade", r.Invitations.SendInvitation)
	e.GET("/api/upgrade-invitations", r.Invitations.GetInvitations)
	e.POST("/api/upgrade-invitations", r.Invitations.RespondInvitation)

	// Websocket gateway callbacks
	var gateway []echo.MiddlewareFunc
	if r.GatewayAuth != nil {
		gateway = append(gateway, r.GatewayAuth)
	}
	e.POST("/api/ws/connect", r.WebSocket.HandleConnect, gateway...)
	e.POST("/api/ws/disconnect", r.WebSocket.HandleDisconnect, gateway...)

	// Docker Compose healthcheck
	e.GET("/health", HealthCheck)
}
