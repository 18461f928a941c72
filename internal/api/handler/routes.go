package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/api/middleware"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

// Handlers はAPIのハンドラー一式
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Hostel  *HostelHandler
	Booking *BookingHandler
	Review  *ReviewHandler
}

// RouteOptions はルーティングで使うミドルウェアの依存
type RouteOptions struct {
	Tokens         middleware.TokenParser
	BookingLimiter *middleware.UserRateLimiter
}

// RegisterRoutes は /api/v1 配下にルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers, opts RouteOptions) {
	v1 := e.Group("/api/v1")

	v1.GET("/health", h.Health.Check)

	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)

	// 公開の参照系
	v1.GET("/hostels", h.Hostel.List)
	v1.GET("/hostels/:id", h.Hostel.GetByID)
	v1.GET("/hostels/:id/availability", h.Hostel.Availability)
	v1.GET("/hostels/:id/reviews", h.Review.ListByHostel)

	authed := v1.Group("", middleware.JWTAuth(opts.Tokens))
	owner := middleware.RequireRole(string(user.RoleOwner))

	authed.GET("/me", h.User.GetMe)
	authed.PUT("/me", h.User.UpdateMe)
	authed.POST("/me/saved-hostels/:id", h.User.SaveHostel)
	authed.DELETE("/me/saved-hostels/:id", h.User.UnsaveHostel)

	authed.POST("/hostels", h.Hostel.Create, owner)
	authed.PUT("/hostels/:id", h.Hostel.Update, owner)
	authed.DELETE("/hostels/:id", h.Hostel.Delete, owner)
	authed.POST("/hostels/:id/reconcile", h.Hostel.Reconcile, owner)
	authed.GET("/owner/hostels", h.Hostel.ListOwned, owner)

	createBooking := []echo.MiddlewareFunc{}
	if opts.BookingLimiter != nil {
		createBooking = append(createBooking, opts.BookingLimiter.Middleware())
	}
	authed.POST("/bookings", h.Booking.Create, createBooking...)
	authed.GET("/bookings", h.Booking.ListMine)
	authed.GET("/bookings/:id", h.Booking.GetByID)
	authed.PATCH("/bookings/:id/status", h.Booking.UpdateStatus, owner)
	authed.POST("/bookings/:id/cancel", h.Booking.Cancel)
	authed.GET("/owner/bookings", h.Booking.ListOwned, owner)

	authed.POST("/reviews", h.Review.Create)
}
