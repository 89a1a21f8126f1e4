// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the record lifecycle shared by every editor
// tab: upload an asset, obtain its durable reference, persist a record
// embedding that reference, re-query the listing wholesale, and delete
// records together with their primary asset. It also manages the "in use"
// pointers the public page reads.
//
// Upload and record insert are two independent calls with no transaction
// between them: a failed insert after a successful upload leaves an
// orphaned object behind. That matches the backends' guarantees (atomic
// per single call, nothing across calls) and is not patched over here.
package content

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"sitedesk/internal/models"
)

// AssetStore is the slice of object storage the editors use. Upload keys
// are namespaced paths; references returned by FileURL are the canonical
// AssetRef form, and ExtractKey converts a reference back to a delete key.
type AssetStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
	Delete(ctx context.Context, key string) error
	ExtractKey(url string) (string, bool)
}

// Collection is the record-store surface for one content collection.
type Collection interface {
	Schema() models.CollectionSchema
	Insert(ctx context.Context, rec *models.ContentRecord) error
	List(ctx context.Context) ([]models.ContentRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ContentRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageCollection is the record-store surface for the image library.
type ImageCollection interface {
	Insert(ctx context.Context, img *models.ImageRecord) error
	List(ctx context.Context) ([]models.ImageRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ImageRecord, error)
	Latest(ctx context.Context) (*models.ImageRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PointerStore is the record-store surface for the in-use slot pointers.
type PointerStore interface {
	Apply(ctx context.Context, slot string, snapshot any) error
	Get(ctx context.Context, slot string) (*models.FeaturedPointer, error)
}

// Confirm is an interactive confirmation gate. Returning false aborts the
// guarded operation before any side effect.
type Confirm func() bool

// Always is a Confirm that never denies. Used where the surface has
// already gathered confirmation.
func Always() bool { return true }

// File is one user-selected file to upload.
type File struct {
	Name        string // original file name, kept in the storage key
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Draft is the in-memory editing state of a record that has not been
// persisted yet. Attach calls populate the asset fields; Create persists
// it. On failure the caller keeps the draft (and with it any references
// already attached) so uploaded assets are not lost.
type Draft struct {
	Title         string
	Body          string
	FeaturedImage models.AssetRef
	Gallery       []models.AssetRef
	Datetime      string // HTML datetime-local value; empty means unset
}

// datetimeLayout is the editing representation of a record datetime, as
// submitted by <input type="datetime-local">.
const datetimeLayout = "2006-01-02T15:04"

// parseDatetime converts the editing representation to a store instant,
// or nil when the field was left empty.
func parseDatetime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(datetimeLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// uploadKey derives the storage path for an upload: wall-clock
// milliseconds plus the original file name under the given namespace.
// Not content-addressed — re-uploading identical bytes yields a new,
// distinct key and reference.
func uploadKey(namespace string, at time.Time, name string) string {
	return fmt.Sprintf("%s/%d-%s", namespace, at.UnixMilli(), name)
}
