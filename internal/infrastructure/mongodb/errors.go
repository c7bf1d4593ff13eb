package mongodb

import "errors"

// Sentinel errors for MongoDB operations.
var (
	// ErrNotConnected indicates the client has been closed.
	ErrNotConnected = errors.New("mongodb: not connected")

	// ErrConnectionFailed indicates the client could not be created or the
	// verbose connect ping failed.
	ErrConnectionFailed = errors.New("mongodb: connection failed")

	// ErrInvalidConfig indicates a missing URI, database or collection name.
	ErrInvalidConfig = errors.New("mongodb: invalid configuration")

	// ErrEmptyInsert indicates InsertMany was called with no documents.
	ErrEmptyInsert = errors.New("mongodb: no documents to insert")
)
