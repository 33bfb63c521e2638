// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Login and refresh are open;
// logout and /v1/me need a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	jwt := middleware.JWTAuth(jwtSecret)

	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, jwt)

	e.GET("/v1/me", a.Me, jwt)
}

// RegisterPublic registers the booking widget endpoints. Reads go through
// the Redis response cache (slot grids with the shorter SlotTTL) and the
// booking POST through the token bucket. A nil rdb disables both.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client, cache config.CacheConfig, limit config.RateLimitConfig) {
	g := e.Group("/v1/public")
	g.GET("/locations", p.Locations, middleware.NewRedisCache(cache, rdb))
	g.GET("/locations/:id/slots", p.Slots, middleware.NewRedisCache(cache.WithTTL(cache.SlotTTL), rdb))
	g.POST("/bookings", p.Book, middleware.NewTokenBucket(limit, rdb))
}

// Portal groups the handlers behind staff authentication.
type Portal struct {
	Auth      *handler.AuthHandler
	Bookings  *handler.BookingHandler
	Dashboard *handler.DashboardHandler
	Venues    *handler.VenueHandler
	Customers *handler.CustomerHandler
}

// RegisterPortal registers the staff portal under /v1/portal. Every route
// needs an ADMIN or STAFF token; location management and user creation
// are ADMIN only.
func RegisterPortal(e *echo.Echo, p Portal, jwtSecret string) {
	g := e.Group("/v1/portal")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	b := p.Bookings
	g.GET("/bookings", b.List)
	g.POST("/bookings", b.Create)
	g.POST("/bookings/bulk-status", b.BulkStatus)
	g.POST("/bookings/reminders", b.Reminders)
	g.GET("/bookings/:id", b.Get)
	g.PATCH("/bookings/:id/status", b.UpdateStatus)
	g.POST("/bookings/:id/confirm", b.Confirm)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.POST("/bookings/:id/complete", b.Complete)
	g.DELETE("/bookings/:id", b.Delete)

	g.GET("/calendar", b.Calendar)
	g.GET("/locations/:id/slots", b.Slots)
	g.GET("/locations/:id/stats", b.Stats)
	g.GET("/dashboard", p.Dashboard.Dashboard)
	g.GET("/dashboard/trends", p.Dashboard.Trends)

	g.GET("/locations/:id/tables", p.Venues.Tables)
	g.PUT("/locations/:id/tables", p.Venues.SaveLayout)
	g.PATCH("/tables/:id/status", p.Venues.UpdateTableStatus)

	g.GET("/customers", p.Customers.List)
	g.POST("/customers/rebuild", p.Customers.Rebuild)
	g.GET("/customers/:id", p.Customers.Get)
	g.PATCH("/customers/:id", p.Customers.Update)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.GET("/locations", p.Venues.ListLocations, admin)
	g.POST("/locations", p.Venues.CreateLocation, admin)
	g.PUT("/locations/:id", p.Venues.UpdateLocation, admin)
	g.DELETE("/locations/:id", p.Venues.DeleteLocation, admin)
	g.POST("/users", p.Auth.CreateUser, admin)
}
