package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Guests       *handler.GuestHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	// CalendarCache wraps the calendar route only; nil means uncached.
	CalendarCache echo.MiddlewareFunc
}

// RegisterRoutes mounts the health check and the /v1 API on e.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	guests := v1.Group("/guests")
	guests.GET("", h.Guests.List)
	guests.GET("/:id", h.Guests.Get)
	guests.POST("", h.Guests.Create)
	guests.PUT("/:id", h.Guests.Update)

	rooms := v1.Group("/rooms")
	rooms.GET("", h.Rooms.List)
	rooms.GET("/:id", h.Rooms.Get)
	rooms.POST("", h.Rooms.Create)
	rooms.PUT("/:id", h.Rooms.Update)

	res := v1.Group("/reservations")
	res.GET("", h.Reservations.List)
	// static segment first so "calendar" never reaches the :id handler
	var calendarMW []echo.MiddlewareFunc
	if h.CalendarCache != nil {
		calendarMW = append(calendarMW, h.CalendarCache)
	}
	res.GET("/calendar", h.Reservations.Calendar, calendarMW...)
	res.GET("/:id", h.Reservations.Get)
	res.POST("", h.Reservations.Create)
	res.PUT("/:id", h.Reservations.Update)
	res.DELETE("/:id", h.Reservations.Cancel)
}
