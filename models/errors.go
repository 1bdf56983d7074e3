package models

import "errors"

// Sentinel errors shared by repositories, services and the CRUD layer.
// Wrap them with fmt.Errorf("...: %w", err) to add detail.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrMissingActor = errors.New("no acting user on request")
)
