// Package repository defines sentinel error values shared across the
// data access layer.  Higher layers compare against these with
// errors.Is to translate storage outcomes into caller-visible error
// codes without string-matching messages.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup (or the room-row lock
// taken during reservation admission) matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomNameTaken is returned when an insert collides with the unique
// constraint on rooms.name.  The constraint, not application logic, is
// the arbiter of uniqueness so concurrent creates resolve correctly.
var ErrRoomNameTaken = errors.New("room name already taken")

// ErrOverlapConflict is returned when the commit-time overlap re-check
// inside the admission transaction finds a conflicting reservation.
// Callers treat it the same as an overlap detected before commit.
var ErrOverlapConflict = errors.New("overlapping reservation exists")
