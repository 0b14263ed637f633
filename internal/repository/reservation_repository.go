package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  All
// timestamps are stored and compared in UTC.  Two intervals conflict
// under the closed-closed predicate: an existing reservation overlaps a
// proposed window when existing.start <= new.end AND
// existing.end >= new.start, so back-to-back bookings that touch at a
// single instant are rejected.
type ReservationRepo struct {
	db    *sql.DB
	rooms *RoomRepo
}

// NewReservationRepo returns a ReservationRepo bound to the given
// database.  The room repository is used to lock the room row during
// admission.
func NewReservationRepo(db *sql.DB, rooms *RoomRepo) *ReservationRepo {
	return &ReservationRepo{db: db, rooms: rooms}
}

// Create atomically admits a reservation.  Inside a single transaction
// it locks the room row (serializing concurrent admissions for the same
// room), re-checks the overlap predicate under that lock, inserts the
// row and reads it back to populate the generated ID and creation
// timestamp.  Of any set of concurrent, mutually-overlapping attempts
// on one room, exactly one commits; the rest observe ErrOverlapConflict.
// ErrRoomNotFound is returned when the room row does not exist.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := r.rooms.GetByIDForUpdateTx(ctx, tx, res.RoomID); err != nil {
		return err
	}

	// Overlap re-check under the room lock.  The pre-commit check in the
	// admission engine can race; this one cannot.
	const overlapQ = `SELECT COUNT(*) FROM reservations
	                  WHERE room_id = ? AND start_time <= ? AND end_time >= ?`
	var conflicts int
	if err := tx.QueryRowContext(ctx, overlapQ, res.RoomID, res.EndTime, res.StartTime).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrOverlapConflict
	}

	const insertQ = `INSERT INTO reservations (room_id, start_time, end_time) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, insertQ, res.RoomID, res.StartTime, res.EndTime)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT id, room_id, start_time, end_time, created_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).
		Scan(&res.ID, &res.RoomID, &res.StartTime, &res.EndTime, &res.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListAll returns every reservation in no guaranteed order.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT id, room_id, start_time, end_time, created_at FROM reservations`
	return r.queryReservations(ctx, q)
}

// ListByRoom returns all reservations for the given room.
func (r *ReservationRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, room_id, start_time, end_time, created_at FROM reservations WHERE room_id = ?`
	return r.queryReservations(ctx, q, roomID)
}

// FindOverlapping returns every reservation whose interval intersects
// [start, end] under the closed-closed predicate, optionally restricted
// to the given room IDs.  An empty roomIDs slice means all rooms.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, start, end time.Time, roomIDs []uint64) ([]model.Reservation, error) {
	q := `SELECT id, room_id, start_time, end_time, created_at FROM reservations
	      WHERE start_time <= ? AND end_time >= ?`
	args := []interface{}{end, start}
	if len(roomIDs) > 0 {
		q += ` AND room_id IN (` + placeholders(len(roomIDs)) + `)`
		for _, id := range roomIDs {
			args = append(args, id)
		}
	}
	return r.queryReservations(ctx, q, args...)
}

// queryReservations runs a reservation-shaped query and scans all rows.
func (r *ReservationRepo) queryReservations(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.RoomID, &res.StartTime, &res.EndTime, &res.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
