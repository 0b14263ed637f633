package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// StatsRepo computes the SQL aggregations behind the statistics
// endpoints.  Window predicates here are half-open (start_time < end
// AND end_time > start): a reservation touching a period boundary at a
// single instant contributes nothing to that period.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// ReservedHours sums the hours the room is reserved within [start, end),
// clamping each reservation to the window so bookings spilling over the
// period edges count only their inside portion.
func (r *StatsRepo) ReservedHours(ctx context.Context, roomID uint64, start, end time.Time) (float64, error) {
	const q = `SELECT COALESCE(SUM(
	               TIMESTAMPDIFF(SECOND, GREATEST(start_time, ?), LEAST(end_time, ?)) / 3600.0
	           ), 0)
	           FROM reservations
	           WHERE room_id = ? AND start_time < ? AND end_time > ?`
	var hours float64
	err := r.db.QueryRowContext(ctx, q, start, end, roomID, end, start).Scan(&hours)
	return hours, err
}

// AverageDurationMinutes returns the mean reservation length in minutes,
// optionally filtered to one room and/or clamped to a date window.  A
// nil roomID means all rooms; nil bounds mean no window filter on that
// side.  Zero is returned when no reservation matches.
func (r *StatsRepo) AverageDurationMinutes(ctx context.Context, roomID *uint64, start, end *time.Time) (float64, error) {
	// Clamp bounds default to values wider than any storable window.
	clampLo := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	clampHi := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if start != nil {
		clampLo = *start
	}
	if end != nil {
		clampHi = *end
	}

	q := `SELECT COALESCE(AVG(
	          TIMESTAMPDIFF(SECOND, GREATEST(start_time, ?), LEAST(end_time, ?)) / 60.0
	      ), 0)
	      FROM reservations WHERE 1 = 1`
	args := []interface{}{clampLo, clampHi}
	if roomID != nil {
		q += ` AND room_id = ?`
		args = append(args, *roomID)
	}
	if start != nil {
		q += ` AND end_time > ?`
		args = append(args, *start)
	}
	if end != nil {
		q += ` AND start_time < ?`
		args = append(args, *end)
	}

	var minutes float64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&minutes)
	return minutes, err
}

// TopRooms returns up to limit rooms ranked by reservation count,
// most-booked first.
func (r *StatsRepo) TopRooms(ctx context.Context, limit int) ([]model.TopRoom, error) {
	const q = `SELECT r.room_id, rm.name, COUNT(r.id) AS cnt
	           FROM reservations r
	           JOIN rooms rm ON rm.id = r.room_id
	           GROUP BY r.room_id, rm.name
	           ORDER BY cnt DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.TopRoom, 0, limit)
	for rows.Next() {
		var tr model.TopRoom
		if err := rows.Scan(&tr.RoomID, &tr.Name, &tr.ReservationCount); err != nil {
			return nil, err
		}
		result = append(result, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
