// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"errors"
	"fmt"
)

// ErrNotConfirmed is returned when a confirmation gate denies a delete or
// apply. The operation is aborted with no side effects; it is a normal
// outcome, not a failure to surface.
var ErrNotConfirmed = errors.New("not confirmed")

// ErrStorageUnavailable is returned for upload attempts when the app
// started without object storage configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")

// ValidationError reports a draft rejected before any backend call was
// made. The message is shown to the user as-is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// StorageError reports a failed asset store call. The draft field the
// call was populating is left unchanged.
type StorageError struct {
	Op  string // "upload" or "delete"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("asset %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError reports a failed record store call. Nothing is retried
// automatically; the user may repeat the action.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
