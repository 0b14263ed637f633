package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/room-reservation/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique-key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// RoomRepo provides persistence for rooms.  Rooms are insert-only; the
// unique name constraint lives in the database so that two concurrent
// creates with the same name cannot both succeed.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a new room and populates the generated ID and the
// DB-assigned creation timestamp on the given model.  A collision with
// the unique name constraint is reported as ErrRoomNameTaken.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (name, capacity) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrRoomNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	// Query back the row to populate the DB default created_at.
	const sel = `SELECT id, name, capacity, created_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, room.ID).
		Scan(&room.ID, &room.Name, &room.Capacity, &room.CreatedAt)
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when
// no row matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, name, capacity, created_at FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.Name, &room.Capacity, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetByIDForUpdateTx reads a room inside the given transaction with a
// row lock (SELECT ... FOR UPDATE).  The lock serializes all admission
// attempts for the room until the transaction commits or rolls back.
// ErrRoomNotFound is returned when the room does not exist.
func (r *RoomRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT id, name, capacity, created_at FROM rooms WHERE id = ? FOR UPDATE`
	var room model.Room
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.Name, &room.Capacity, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListAll returns every room ordered by ID.  When no rooms exist an
// empty slice is returned.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT id, name, capacity, created_at FROM rooms ORDER BY id`
	return r.queryRooms(ctx, q)
}

// ListAvailable returns rooms filtered to roomIDs (when non-empty) and
// excluding excludeIDs (when non-empty).  Unknown IDs in either set are
// silently ignored; they simply match no rows.
func (r *RoomRepo) ListAvailable(ctx context.Context, roomIDs, excludeIDs []uint64) ([]model.Room, error) {
	q := `SELECT id, name, capacity, created_at FROM rooms`
	var conds []string
	var args []interface{}
	if len(roomIDs) > 0 {
		conds = append(conds, `id IN (`+placeholders(len(roomIDs))+`)`)
		for _, id := range roomIDs {
			args = append(args, id)
		}
	}
	if len(excludeIDs) > 0 {
		conds = append(conds, `id NOT IN (`+placeholders(len(excludeIDs))+`)`)
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` ORDER BY id`
	return r.queryRooms(ctx, q, args...)
}

// queryRooms runs a room-shaped query and scans all rows.
func (r *RoomRepo) queryRooms(ctx context.Context, q string, args ...interface{}) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// placeholders builds a "?, ?, ?" list of the given length.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
