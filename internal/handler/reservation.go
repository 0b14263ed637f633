package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/service"
)

// ReservationService is the slice of the reservation service the
// handlers need.
type ReservationService interface {
	Create(ctx context.Context, roomID uint64, startISO, endISO string) (*model.Reservation, error)
	GetAll(ctx context.Context) ([]model.Reservation, error)
	GetByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
}

// ReservationHandler serves the /v1/reservations endpoints.
type ReservationHandler struct {
	reservations ReservationService
	rooms        RoomService
	publish      func(ctx context.Context, event queue.ReservationCreatedEvent) error
}

// NewReservationHandler constructs a ReservationHandler.  publish may
// be nil to disable event emission.
func NewReservationHandler(reservations ReservationService, rooms RoomService, publish func(ctx context.Context, event queue.ReservationCreatedEvent) error) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, rooms: rooms, publish: publish}
}

// createReservationRequest is the body of POST /v1/reservations.
type createReservationRequest struct {
	RoomID    uint64 `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, service.Validation("invalid request body"))
	}
	if req.RoomID == 0 {
		return respondError(c, service.Validation("room_id must be a positive integer"))
	}
	if req.StartTime == "" || req.EndTime == "" {
		return respondError(c, service.Validation("start_time and end_time are required"))
	}

	res, err := h.reservations.Create(c.Request().Context(), req.RoomID, req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}

	// Event emission must not delay or fail the response.
	if h.publish != nil {
		go h.emitCreated(*res)
	}

	return respondData(c, http.StatusCreated, res)
}

// emitCreated publishes the created event on a detached context so the
// broker call outlives the originating request.
func (h *ReservationHandler) emitCreated(res model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var roomName string
	if room, err := h.rooms.GetByID(ctx, res.RoomID); err == nil {
		roomName = room.Name
	}

	_ = h.publish(ctx, queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomName:      roomName,
		StartTime:     res.StartTime.Format(time.RFC3339),
		EndTime:       res.EndTime.Format(time.RFC3339),
		CreatedAt:     res.CreatedAt.Format(time.RFC3339),
	})
}

// List handles GET /v1/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	reservations, err := h.reservations.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, reservations, len(reservations))
}

// ListByRoom handles GET /v1/reservations/room/:id.
func (h *ReservationHandler) ListByRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	reservations, err := h.reservations.GetByRoom(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, reservations, len(reservations))
}
