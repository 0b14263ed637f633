package model

import "time"

// Room is a bookable meeting room.  Rooms are created once and never
// mutated afterwards; deletion is not supported.  Names are globally
// unique and enforced by the database, not by application logic.
//
// Fields:
//  ID        – primary key identifier, assigned by the database.
//  Name      – unique, case-sensitive display name.
//  Capacity  – number of people the room holds.
//  CreatedAt – creation timestamp (UTC).
type Room struct {
	ID        uint64    `json:"id"`         // rooms.id
	Name      string    `json:"name"`       // rooms.name (unique)
	Capacity  uint32    `json:"capacity"`   // rooms.capacity
	CreatedAt time.Time `json:"created_at"` // rooms.created_at
}
