// Package common defines sentinel errors shared by the cardkeeper
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input errors.
	ErrInvalidGame      = errors.New("invalid game")
	ErrInvalidID        = errors.New("invalid record id")
	ErrUnsupportedImage = errors.New("unsupported image type")

	// Form lifecycle errors.
	ErrFormClosed  = errors.New("form is not open")
	ErrFormOpen    = errors.New("form is already open")
	ErrNoSelection = errors.New("no record selected")
)
