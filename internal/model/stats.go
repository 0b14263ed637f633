package model

// TopRoom is one row of the most-booked-rooms ranking.
type TopRoom struct {
	RoomID           uint64 `json:"room_id"`           // rooms.id
	Name             string `json:"name"`              // rooms.name
	ReservationCount uint64 `json:"reservation_count"` // number of reservations
}
