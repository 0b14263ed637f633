// Package service implements the business rules of the reservation
// system: reservation admission, room management, availability and
// statistics.  Services accept store interfaces and return model
// structs; all failures callers are expected to handle carry a stable
// machine-readable code.
package service

// Error is a recoverable, caller-visible failure.  Code is stable and
// machine-readable; Message is for humans.  NotFound selects the HTTP
// status at the boundary (404 instead of 400).  Anything that is not a
// *service.Error is treated as an internal fault and never exposed to
// callers in detail.
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	NotFound bool   `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Validation builds an ad-hoc 400 error for malformed request input.
func Validation(message string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Message: message}
}

var (
	// ErrInvalidTimeRange indicates a window whose start is not strictly
	// before its end, or an unparsable datetime.
	ErrInvalidTimeRange = &Error{Code: "INVALID_TIME_RANGE", Message: "Start time must be before end time."}
	// ErrDurationTooShort indicates a reservation shorter than one minute.
	ErrDurationTooShort = &Error{Code: "DURATION_TOO_SHORT", Message: "Reservation duration must be at least 1 minute."}
	// ErrDurationTooLong indicates a reservation longer than 24 hours.
	ErrDurationTooLong = &Error{Code: "DURATION_TOO_LONG", Message: "Reservation duration cannot exceed 24 hours."}
	// ErrReservationInPast indicates a start instant before now.
	ErrReservationInPast = &Error{Code: "RESERVATION_IN_PAST", Message: "Cannot create reservations in the past."}
	// ErrRoomNotFound indicates a reference to a nonexistent room.
	ErrRoomNotFound = &Error{Code: "ROOM_NOT_FOUND", Message: "The specified room does not exist.", NotFound: true}
	// ErrReservationOverlap indicates a conflicting reservation, whether
	// found by the pre-commit check or at commit time.
	ErrReservationOverlap = &Error{Code: "RESERVATION_OVERLAP", Message: "The room is already reserved for this time slot."}
	// ErrRoomNameExists indicates a room-name collision.
	ErrRoomNameExists = &Error{Code: "ROOM_NAME_ALREADY_EXISTS", Message: "A room with this name already exists."}
	// ErrReservationCreationFailed is the defensive fallback for an
	// insert that yields no row for an unanticipated reason.
	ErrReservationCreationFailed = &Error{Code: "RESERVATION_CREATION_FAILED", Message: "Failed to create reservation due to an unknown error."}
	// ErrInvalidPeriod indicates an unknown occupancy period.
	ErrInvalidPeriod = &Error{Code: "INVALID_PERIOD", Message: "Period must be daily, weekly, or monthly."}
	// ErrInvalidDateRange indicates an inverted statistics date filter.
	ErrInvalidDateRange = &Error{Code: "INVALID_DATE_RANGE", Message: "Start date must be before or equal to end date."}
)
