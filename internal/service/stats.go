package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

// topRoomsLimit caps the most-booked-rooms ranking.
const topRoomsLimit = 3

// StatsStore is the persistence contract for the statistics
// aggregations.
type StatsStore interface {
	ReservedHours(ctx context.Context, roomID uint64, start, end time.Time) (float64, error)
	AverageDurationMinutes(ctx context.Context, roomID *uint64, start, end *time.Time) (float64, error)
	TopRooms(ctx context.Context, limit int) ([]model.TopRoom, error)
}

// StatsService computes occupancy rate, average reservation duration
// and the most-booked-rooms ranking.
type StatsService struct {
	stats StatsStore
	rooms RoomStore
	norm  *timeutil.Normalizer
}

// NewStatsService constructs a StatsService.  All dependencies must be
// non-nil.
func NewStatsService(stats StatsStore, rooms RoomStore, norm *timeutil.Normalizer) *StatsService {
	if stats == nil || rooms == nil || norm == nil {
		panic("nil dependency passed to NewStatsService")
	}
	return &StatsService{stats: stats, rooms: rooms, norm: norm}
}

// OccupancyRate returns the percentage of the period containing date
// during which the room is reserved, rounded to two decimals.
func (s *StatsService) OccupancyRate(ctx context.Context, roomID uint64, date string, period timeutil.Period) (float64, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return 0, ErrRoomNotFound
		}
		return 0, err
	}

	start, end, totalHours, err := s.norm.PeriodBounds(date, period)
	if err != nil {
		if errors.Is(err, timeutil.ErrInvalidPeriod) {
			return 0, ErrInvalidPeriod
		}
		return 0, Validation("date must be in YYYY-MM-DD format")
	}

	reserved, err := s.stats.ReservedHours(ctx, roomID, start, end)
	if err != nil {
		return 0, err
	}
	return round2(reserved / totalHours * 100), nil
}

// AverageDuration returns the mean reservation length in minutes,
// optionally restricted to one room and/or a date window, rounded to
// two decimals.
func (s *StatsService) AverageDuration(ctx context.Context, roomID *uint64, startDate, endDate string) (float64, error) {
	if roomID != nil {
		if _, err := s.rooms.GetByID(ctx, *roomID); err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				return 0, ErrRoomNotFound
			}
			return 0, err
		}
	}

	start, end, err := s.norm.DateRangeBounds(startDate, endDate)
	if err != nil {
		if errors.Is(err, timeutil.ErrInvalidDateRange) {
			return 0, ErrInvalidDateRange
		}
		return 0, Validation("dates must be in YYYY-MM-DD format")
	}

	minutes, err := s.stats.AverageDurationMinutes(ctx, roomID, start, end)
	if err != nil {
		return 0, err
	}
	return round2(minutes), nil
}

// TopRooms returns the rooms with the most reservations, best first.
func (s *StatsService) TopRooms(ctx context.Context) ([]model.TopRoom, error) {
	return s.stats.TopRooms(ctx, topRoomsLimit)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
