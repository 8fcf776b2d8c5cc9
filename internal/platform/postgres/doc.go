// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All read-modify-write operations on a single user run
// inside a transaction holding a row lock on that user, so concurrent
// events for the same user serialize while different users proceed
// independently.
package postgres
