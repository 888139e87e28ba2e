// Package repository defines error types that are reused across the
// user and receipt repositories. These sentinel values allow higher
// layers such as the seating engine to distinguish between different
// failure scenarios without inspecting driver error strings.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. The seating
// engine translates this into its 404 domain error.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email
// constraint, i.e. the passenger already holds a reservation.
var ErrEmailExists = errors.New("email already exists")
