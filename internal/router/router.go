package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
)

// Handlers bundles the handler set the router wires up.
type Handlers struct {
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	Stats        *handler.StatsHandler
}

// RegisterRoutes registers the health check on the provided Echo
// instance.  Load balancers and monitoring probe this endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the versioned API under /v1.  Every route is
// rate limited; the read-mostly availability and stats routes are
// additionally served from the Redis response cache.
func RegisterAPI(e *echo.Echo, h Handlers, rdb *redis.Client) {
	v1 := e.Group("/v1")
	v1.Use(middleware.RateLimit(rdb, config.LoadRateLimitConfig()))

	cached := middleware.CacheGET(rdb, config.LoadCacheConfig())

	// Rooms.  The availability route must be registered before the
	// parameterized :id route so Echo does not treat "availability"
	// as a room id.
	v1.POST("/rooms", h.Rooms.Create)
	v1.GET("/rooms", h.Rooms.List)
	v1.GET("/rooms/availability", h.Rooms.Availability, cached)
	v1.GET("/rooms/:id", h.Rooms.GetByID)

	// Reservations.
	v1.POST("/reservations", h.Reservations.Create)
	v1.GET("/reservations", h.Reservations.List)
	v1.GET("/reservations/room/:id", h.Reservations.ListByRoom)

	// Statistics.
	stats := v1.Group("/stats", cached)
	stats.GET("/occupancy", h.Stats.Occupancy)
	stats.GET("/average-duration", h.Stats.AverageDuration)
	stats.GET("/top-rooms", h.Stats.TopRooms)
}
