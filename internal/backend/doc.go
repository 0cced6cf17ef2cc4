// Package backend implements the catalogue operations consumed by the
// record table, the entry form and the image viewer: record CRUD, image
// copy/delete/read, set catalogues and the static enumerations.
//
// Every failure is returned as *Error carrying the operation and game, so
// callers can report it and retry.
package backend
