package seating

import "net/http"

// Error is the single domain error type raised by the engine. It
// carries the HTTP status the boundary layer should answer with and a
// message that is returned verbatim to the client.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// errConflict covers "already reserved" and "no capacity"; the
// original service answers both with 422.
func errConflict(msg string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: msg}
}

// errInvalid covers a lookup with neither user id nor email.
func errInvalid(msg string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: msg}
}

func errNotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// errSeatTaken is the rejection for a seat-change target that is not
// in the vacant pool. Occupied and nonexistent seat numbers are not
// distinguished; both get this answer with status 400.
func errSeatTaken(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}
