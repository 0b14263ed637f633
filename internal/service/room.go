package service

import (
	"context"
	"errors"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

// RoomStore is the persistence contract for rooms.  Create must report
// a name collision as repository.ErrRoomNameTaken, backed by a storage
// constraint so concurrent creates resolve to exactly one winner.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	ListAll(ctx context.Context) ([]model.Room, error)
	ListAvailable(ctx context.Context, roomIDs, excludeIDs []uint64) ([]model.Room, error)
}

// RoomService manages rooms and resolves availability queries.
type RoomService struct {
	rooms        RoomStore
	reservations ReservationStore
	norm         *timeutil.Normalizer
}

// NewRoomService constructs a RoomService.  All dependencies must be
// non-nil.
func NewRoomService(rooms RoomStore, reservations ReservationStore, norm *timeutil.Normalizer) *RoomService {
	if rooms == nil || reservations == nil || norm == nil {
		panic("nil dependency passed to NewRoomService")
	}
	return &RoomService{rooms: rooms, reservations: reservations, norm: norm}
}

// Create registers a new room.  A name collision surfaces as
// ROOM_NAME_ALREADY_EXISTS regardless of whether this call or a
// concurrent one hit the constraint first.
func (s *RoomService) Create(ctx context.Context, name string, capacity uint32) (*model.Room, error) {
	room := &model.Room{Name: name, Capacity: capacity}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrRoomNameTaken) {
			return nil, ErrRoomNameExists
		}
		return nil, err
	}
	return room, nil
}

// GetAll returns every room.
func (s *RoomService) GetAll(ctx context.Context) ([]model.Room, error) {
	return s.rooms.ListAll(ctx)
}

// GetByID returns one room or ROOM_NOT_FOUND.
func (s *RoomService) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetAvailable returns the rooms free of overlapping reservations
// during the given local wall-clock window on the given date.  The
// window is interpreted in the default timezone.  When roomIDs is
// non-empty the result is restricted to that set; IDs of nonexistent
// rooms are silently ignored rather than rejected.
func (s *RoomService) GetAvailable(ctx context.Context, date, startClock, endClock string, roomIDs []uint64) ([]model.Room, error) {
	start, err := s.norm.CombineDateAndTime(date, startClock)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	end, err := s.norm.CombineDateAndTime(date, endClock)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	overlapping, err := s.reservations.FindOverlapping(ctx, start, end, roomIDs)
	if err != nil {
		return nil, err
	}

	// Collect the distinct room IDs that have at least one conflict.
	seen := make(map[uint64]struct{}, len(overlapping))
	unavailable := make([]uint64, 0, len(overlapping))
	for _, res := range overlapping {
		if _, ok := seen[res.RoomID]; !ok {
			seen[res.RoomID] = struct{}{}
			unavailable = append(unavailable, res.RoomID)
		}
	}

	return s.rooms.ListAvailable(ctx, roomIDs, unavailable)
}
