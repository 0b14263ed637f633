package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

// StatsService is the slice of the statistics service the handlers
// need.
type StatsService interface {
	OccupancyRate(ctx context.Context, roomID uint64, date string, period timeutil.Period) (float64, error)
	AverageDuration(ctx context.Context, roomID *uint64, startDate, endDate string) (float64, error)
	TopRooms(ctx context.Context) ([]model.TopRoom, error)
}

// StatsHandler serves the /v1/stats endpoints.
type StatsHandler struct {
	stats StatsService
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(stats StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Occupancy handles GET /v1/stats/occupancy.  Required query params:
// room_id and date; period defaults to daily.
func (h *StatsHandler) Occupancy(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.QueryParam("room_id"), 10, 64)
	if err != nil || roomID == 0 {
		return respondError(c, service.Validation("room_id must be a positive integer"))
	}
	date := c.QueryParam("date")
	if date == "" {
		return respondError(c, service.Validation("date is required"))
	}
	period := timeutil.Period(c.QueryParam("period"))
	if period == "" {
		period = timeutil.PeriodDaily
	}

	rate, err := h.stats.OccupancyRate(c.Request().Context(), roomID, date, period)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, map[string]any{
		"room_id":        roomID,
		"date":           date,
		"period":         period,
		"occupancy_rate": rate,
	})
}

// AverageDuration handles GET /v1/stats/average-duration.  All query
// params are optional: room_id restricts to one room, start_date and
// end_date bound the window.
func (h *StatsHandler) AverageDuration(c echo.Context) error {
	var roomID *uint64
	if raw := c.QueryParam("room_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return respondError(c, service.Validation("room_id must be a positive integer"))
		}
		roomID = &id
	}

	minutes, err := h.stats.AverageDuration(c.Request().Context(), roomID,
		c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, map[string]any{
		"average_duration_minutes": minutes,
	})
}

// TopRooms handles GET /v1/stats/top-rooms.
func (h *StatsHandler) TopRooms(c echo.Context) error {
	rooms, err := h.stats.TopRooms(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, rooms, len(rooms))
}
