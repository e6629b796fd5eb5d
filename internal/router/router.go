package router // route registration for the ticketline API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lukbre/ticketline/internal/config"
	"github.com/lukbre/ticketline/internal/handler"
	"github.com/lukbre/ticketline/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterPublic registers the unauthenticated browse endpoints. These
// are the hot read paths, so the Redis response cache wraps them.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/events/:id", b.GetEvent)
	g.GET("/events/:id/seats", b.GetEventSeats)
	g.GET("/events/:id/seats/:seatId", b.GetSeatAvailability)
	g.GET("/merchandise", b.ListMerchandise)
}

// RegisterBooking registers all authenticated endpoints under /v1,
// guarded by the JWT middleware.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	auth.GET("/me", h.Me)

	auth.POST("/tickets", h.CreateTicket)
	auth.GET("/tickets/:id", h.GetTicket)
	auth.POST("/tickets/purchase", h.PurchaseTickets)
	auth.POST("/tickets/credit", h.CreditTickets)

	auth.POST("/reservations", h.Reserve)
	auth.GET("/reservations", h.ListReservations)
	auth.GET("/reservations/:id", h.GetReservation)
	auth.POST("/reservations/cancel", h.CancelReservations)

	auth.GET("/cart", h.GetCart)
	auth.POST("/cart/tickets", h.AddCartTickets)
	auth.POST("/cart/merchandise", h.AddCartMerchandise)
	auth.DELETE("/cart/items/:id", h.RemoveCartItem)
	auth.DELETE("/cart/tickets/:ticketId", h.RemoveCartTicket)
	auth.POST("/cart/checkout", h.Checkout)

	auth.GET("/invoices", h.ListInvoices)
	auth.GET("/invoices/:id", h.GetInvoice)
}
