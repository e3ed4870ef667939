package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional write matched no row, either
	// because the guard predicate failed or a concurrent writer got there
	// first, or when a uniqueness constraint was violated.
	ErrConflict = errors.New("conflicting write")
)
