package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

// ReservationStore is the persistence contract the admission engine
// depends on.  Create must be atomic: of any set of concurrent,
// mutually-overlapping inserts for one room, at most one may succeed
// and the rest must fail with repository.ErrOverlapConflict.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
	FindOverlapping(ctx context.Context, start, end time.Time, roomIDs []uint64) ([]model.Reservation, error)
}

// ReservationService is the admission engine.  It validates a proposed
// window, checks the room, checks for conflicts and commits the
// reservation if and only if no conflict exists at commit time.
type ReservationService struct {
	reservations ReservationStore
	rooms        RoomStore
	norm         *timeutil.Normalizer
	clock        timeutil.Clock
}

// NewReservationService constructs a ReservationService.  All
// dependencies must be non-nil.
func NewReservationService(reservations ReservationStore, rooms RoomStore, norm *timeutil.Normalizer, clock timeutil.Clock) *ReservationService {
	if reservations == nil || rooms == nil || norm == nil || clock == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{reservations: reservations, rooms: rooms, norm: norm, clock: clock}
}

// Create admits a reservation for the given room and ISO-8601 window.
// The checks run in a fixed order so error codes are deterministic:
// time range, duration bounds, past check, room existence, overlap.
// A conflict detected by the store at commit time surfaces as the same
// RESERVATION_OVERLAP error as one found by the pre-commit check.
func (s *ReservationService) Create(ctx context.Context, roomID uint64, startISO, endISO string) (*model.Reservation, error) {
	start, end, err := s.norm.ParseRange(startISO, endISO)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	duration := end.Sub(start)
	if duration < timeutil.MinDuration {
		return nil, ErrDurationTooShort
	}
	if duration > timeutil.MaxDuration {
		return nil, ErrDurationTooLong
	}

	// "now" is sampled once so the decision is stable for this request.
	if start.Before(s.clock.Now()) {
		return nil, ErrReservationInPast
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	overlapping, err := s.reservations.FindOverlapping(ctx, start, end, []uint64{room.ID})
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrReservationOverlap
	}

	res := &model.Reservation{RoomID: room.ID, StartTime: start, EndTime: end}
	if err := s.reservations.Create(ctx, res); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlapConflict):
			return nil, ErrReservationOverlap
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, ErrRoomNotFound
		default:
			return nil, err
		}
	}
	if res.ID == 0 {
		return nil, ErrReservationCreationFailed
	}
	return res, nil
}

// GetAll returns every reservation in no guaranteed order.
func (s *ReservationService) GetAll(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// GetByRoom returns all reservations for the given room, failing with
// ROOM_NOT_FOUND when the room does not exist.
func (s *ReservationService) GetByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.reservations.ListByRoom(ctx, roomID)
}
