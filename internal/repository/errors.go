// Package repository implements the MySQL persistence layer with
// hand-written queries. Sentinel errors let the auth core and handlers
// distinguish failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert violates the unique
// email index on the users table.
var ErrDuplicateEmail = errors.New("email already exists")
