// Package queue defines the message payloads exchanged over the broker
// and the background consumer for the reservation audit stream.
package queue

// ReservationCreatedEvent is published after a reservation has been
// admitted and committed.  It carries enough information for downstream
// consumers to audit or analyse bookings without querying the primary
// database.  Timestamps are RFC3339 UTC strings.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	RoomID        uint64 `json:"room_id"`
	RoomName      string `json:"room_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CreatedAt     string `json:"created_at"`
}
