// Package repository owns all MongoDB access: bson mapping, ObjectId
// handling and the translation of driver errors into sentinel values that
// handlers can map onto HTTP status codes.
package repository

import "errors"

// ErrNotFound is returned when no document matches the given identifier.
// Malformed identifiers are reported the same way so that probing with
// garbage ids can never produce a server error. Handlers translate this
// into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a uniqueness constraint would be violated,
// such as registering an already-taken email or claiming an existing
// subdomain or slug. Handlers translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("already exists")
