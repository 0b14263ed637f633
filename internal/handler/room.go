package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// RoomService is the slice of the room service the handlers need.
type RoomService interface {
	Create(ctx context.Context, name string, capacity uint32) (*model.Room, error)
	GetAll(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	GetAvailable(ctx context.Context, date, startClock, endClock string, roomIDs []uint64) ([]model.Room, error)
}

// RoomHandler serves the /v1/rooms endpoints.
type RoomHandler struct {
	rooms RoomService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// createRoomRequest is the body of POST /v1/rooms.
type createRoomRequest struct {
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, service.Validation("invalid request body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return respondError(c, service.Validation("name is required"))
	}
	if len(req.Name) > 255 {
		return respondError(c, service.Validation("name must be at most 255 characters"))
	}
	if req.Capacity == 0 {
		return respondError(c, service.Validation("capacity must be a positive integer"))
	}

	room, err := h.rooms.Create(c.Request().Context(), req.Name, req.Capacity)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusCreated, room)
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.rooms.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, rooms, len(rooms))
}

// GetByID handles GET /v1/rooms/:id.
func (h *RoomHandler) GetByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	room, err := h.rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, room)
}

// Availability handles GET /v1/rooms/availability.  The window is
// given as a date plus two wall-clock times in the default timezone;
// room_ids optionally restricts the candidate set.
func (h *RoomHandler) Availability(c echo.Context) error {
	date := c.QueryParam("date")
	startClock := c.QueryParam("start_time")
	endClock := c.QueryParam("end_time")
	if date == "" || startClock == "" || endClock == "" {
		return respondError(c, service.Validation("date, start_time and end_time are required"))
	}

	roomIDs, err := parseRoomIDs(c.QueryParam("room_ids"))
	if err != nil {
		return respondError(c, err)
	}

	rooms, err := h.rooms.GetAvailable(c.Request().Context(), date, startClock, endClock, roomIDs)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, rooms, len(rooms))
}

// parseRoomIDs splits a comma-separated id list.  An empty parameter
// means "all rooms".
func parseRoomIDs(raw string) ([]uint64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, service.Validation("room_ids must be a comma-separated list of positive integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
