package db

import "errors"

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyExists is returned by Create operations when the document id is
// already taken.
var ErrAlreadyExists = errors.New("document already exists")
