package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

// fixedClock pins "now" so past-check tests are deterministic.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeRoomStore is an in-memory RoomStore.  The mutex gives it the
// same one-winner semantics for duplicate names that the unique
// constraint provides in MySQL.
type fakeRoomStore struct {
	mu     sync.Mutex
	rooms  map[uint64]model.Room
	byName map[string]uint64
	nextID uint64
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[uint64]model.Room), byName: make(map[string]uint64)}
}

func (s *fakeRoomStore) Create(_ context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[room.Name]; taken {
		return repository.ErrRoomNameTaken
	}
	s.nextID++
	room.ID = s.nextID
	room.CreatedAt = time.Now().UTC()
	s.rooms[room.ID] = *room
	s.byName[room.Name] = room.ID
	return nil
}

func (s *fakeRoomStore) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return &room, nil
}

func (s *fakeRoomStore) ListAll(_ context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Room, 0, len(s.rooms))
	for id := uint64(1); id <= s.nextID; id++ {
		if room, ok := s.rooms[id]; ok {
			out = append(out, room)
		}
	}
	return out, nil
}

func (s *fakeRoomStore) ListAvailable(_ context.Context, roomIDs, excludeIDs []uint64) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uint64]bool, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = true
	}
	excluded := make(map[uint64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []model.Room
	for id := uint64(1); id <= s.nextID; id++ {
		room, ok := s.rooms[id]
		if !ok || excluded[id] {
			continue
		}
		if len(roomIDs) > 0 && !wanted[id] {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}

// fakeReservationStore is an in-memory ReservationStore whose Create
// performs the conflict check and the insert under one lock, matching
// the atomicity contract of the SQL implementation.
type fakeReservationStore struct {
	mu           sync.Mutex
	rooms        *fakeRoomStore
	reservations []model.Reservation
	nextID       uint64

	// hideFromFind makes FindOverlapping report no conflicts so tests
	// can force the commit-time path to detect them instead.
	hideFromFind bool
}

func newFakeReservationStore(rooms *fakeRoomStore) *fakeReservationStore {
	return &fakeReservationStore{rooms: rooms}
}

func overlaps(r model.Reservation, start, end time.Time) bool {
	// Touching windows conflict: the bounds are inclusive.
	return !r.StartTime.After(end) && !r.EndTime.Before(start)
}

func (s *fakeReservationStore) Create(ctx context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.rooms.GetByID(ctx, res.RoomID); err != nil {
		return err
	}
	for _, existing := range s.reservations {
		if existing.RoomID == res.RoomID && overlaps(existing, res.StartTime, res.EndTime) {
			return repository.ErrOverlapConflict
		}
	}
	s.nextID++
	res.ID = s.nextID
	res.CreatedAt = time.Now().UTC()
	s.reservations = append(s.reservations, *res)
	return nil
}

func (s *fakeReservationStore) ListAll(_ context.Context) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Reservation(nil), s.reservations...), nil
}

func (s *fakeReservationStore) ListByRoom(_ context.Context, roomID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.RoomID == roomID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeReservationStore) FindOverlapping(_ context.Context, start, end time.Time, roomIDs []uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hideFromFind {
		return nil, nil
	}
	wanted := make(map[uint64]bool, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = true
	}
	var out []model.Reservation
	for _, r := range s.reservations {
		if len(roomIDs) > 0 && !wanted[r.RoomID] {
			continue
		}
		if overlaps(r, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func newReservationFixture(t *testing.T) (*ReservationService, *fakeRoomStore, *fakeReservationStore) {
	t.Helper()
	norm, err := timeutil.NewNormalizer("UTC")
	require.NoError(t, err)
	rooms := newFakeRoomStore()
	reservations := newFakeReservationStore(rooms)
	clock := fixedClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewReservationService(reservations, rooms, norm, clock), rooms, reservations
}

func addRoom(t *testing.T, rooms *fakeRoomStore, name string) uint64 {
	t.Helper()
	room := &model.Room{Name: name, Capacity: 10}
	require.NoError(t, rooms.Create(context.Background(), room))
	return room.ID
}

func TestCreateReservation(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	res, err := svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, roomID, res.RoomID)
	assert.Equal(t, time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC), res.StartTime)
	assert.Equal(t, time.Date(2030, 6, 1, 11, 0, 0, 0, time.UTC), res.EndTime)
}

func TestCreateReservationInvalidTimeRange(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	cases := map[string][2]string{
		"inverted":    {"2030-06-01T11:00:00Z", "2030-06-01T10:00:00Z"},
		"equal":       {"2030-06-01T10:00:00Z", "2030-06-01T10:00:00Z"},
		"unparseable": {"yesterday", "2030-06-01T10:00:00Z"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), roomID, in[0], in[1])
			assert.ErrorIs(t, err, ErrInvalidTimeRange)
		})
	}
}

func TestCreateReservationDurationBounds(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	// 59 seconds is below the one-minute floor.
	_, err := svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T10:00:59Z")
	assert.ErrorIs(t, err, ErrDurationTooShort)

	// Exactly one minute is allowed.
	_, err = svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T10:01:00Z")
	assert.NoError(t, err)

	// 24 hours and one second exceeds the ceiling.
	_, err = svc.Create(context.Background(), roomID, "2030-07-01T10:00:00Z", "2030-07-02T10:00:01Z")
	assert.ErrorIs(t, err, ErrDurationTooLong)

	// Exactly 24 hours is allowed.
	_, err = svc.Create(context.Background(), roomID, "2030-08-01T10:00:00Z", "2030-08-02T10:00:00Z")
	assert.NoError(t, err)
}

func TestCreateReservationInPast(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	// The fixture clock reads 2030-01-01.
	_, err := svc.Create(context.Background(), roomID, "2029-12-31T10:00:00Z", "2029-12-31T11:00:00Z")
	assert.ErrorIs(t, err, ErrReservationInPast)
}

func TestCreateReservationCheckOrder(t *testing.T) {
	svc, _, _ := newReservationFixture(t)

	// The room does not exist, but the duration check runs first so the
	// error code is stable regardless of room state.
	_, err := svc.Create(context.Background(), 999, "2030-06-01T10:00:00Z", "2030-06-01T10:00:30Z")
	assert.ErrorIs(t, err, ErrDurationTooShort)
}

func TestCreateReservationRoomNotFound(t *testing.T) {
	svc, _, _ := newReservationFixture(t)

	_, err := svc.Create(context.Background(), 999, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateReservationOverlap(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	_, err := svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
	require.NoError(t, err)

	// Contained window.
	_, err = svc.Create(context.Background(), roomID, "2030-06-01T10:15:00Z", "2030-06-01T10:45:00Z")
	assert.ErrorIs(t, err, ErrReservationOverlap)

	// A window that merely touches the end bound still conflicts.
	_, err = svc.Create(context.Background(), roomID, "2030-06-01T11:00:00Z", "2030-06-01T12:00:00Z")
	assert.ErrorIs(t, err, ErrReservationOverlap)

	// A window that touches the start bound conflicts too.
	_, err = svc.Create(context.Background(), roomID, "2030-06-01T09:00:00Z", "2030-06-01T10:00:00Z")
	assert.ErrorIs(t, err, ErrReservationOverlap)

	// Strictly disjoint windows are fine.
	_, err = svc.Create(context.Background(), roomID, "2030-06-01T11:00:01Z", "2030-06-01T12:00:00Z")
	assert.NoError(t, err)
}

func TestCreateReservationCommitTimeConflict(t *testing.T) {
	svc, rooms, reservations := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	_, err := svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
	require.NoError(t, err)

	// Blind the pre-commit check; the conflict must still surface from
	// the atomic insert, with the same error code.
	reservations.hideFromFind = true
	_, err = svc.Create(context.Background(), roomID, "2030-06-01T10:30:00Z", "2030-06-01T11:30:00Z")
	assert.ErrorIs(t, err, ErrReservationOverlap)
}

func TestCreateReservationConcurrentSameWindow(t *testing.T) {
	svc, rooms, reservations := newReservationFixture(t)
	roomID := addRoom(t, rooms, "Ocean")

	// All racers must pass the pre-commit check so only the store's
	// atomicity decides the winner.
	reservations.hideFromFind = true

	const racers = 16
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrReservationOverlap)
		}
	}
	assert.Equal(t, 1, won)

	stored, err := reservations.ListByRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateReservationConcurrentDistinctRooms(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)

	const n = 8
	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = addRoom(t, rooms, fmt.Sprintf("Room %d", i))
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, roomID := range ids {
		wg.Add(1)
		go func(i int, roomID uint64) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), roomID, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
		}(i, roomID)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestGetByRoom(t *testing.T) {
	svc, rooms, _ := newReservationFixture(t)
	ocean := addRoom(t, rooms, "Ocean")
	harbor := addRoom(t, rooms, "Harbor")

	_, err := svc.Create(context.Background(), ocean, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), harbor, "2030-06-01T10:00:00Z", "2030-06-01T11:00:00Z")
	require.NoError(t, err)

	got, err := svc.GetByRoom(context.Background(), ocean)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ocean, got[0].RoomID)

	_, err = svc.GetByRoom(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
