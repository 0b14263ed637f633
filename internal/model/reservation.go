package model

import "time"

// Reservation books a room for a single continuous time window.  Both
// instants are absolute UTC; StartTime is strictly before EndTime and
// the window is between one minute and twenty-four hours long.
// Reservations are never updated; cancellation is not supported.
//
// Fields:
//  ID        – primary key identifier, assigned by the database.
//  RoomID    – room being reserved; must exist at creation time.
//  StartTime – start instant (UTC).
//  EndTime   – end instant (UTC).
//  CreatedAt – creation timestamp (UTC).
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	RoomID    uint64    `json:"room_id"`    // reservations.room_id
	StartTime time.Time `json:"start_time"` // reservations.start_time
	EndTime   time.Time `json:"end_time"`   // reservations.end_time
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
}
