// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sitedesk/internal/models"
)

// imagesNamespace is where image-library uploads go.
const imagesNamespace = "images"

// ImageLibrary manages the site image collection: upload a file, persist
// a record embedding its reference, list newest-first, and delete record
// plus asset.
type ImageLibrary struct {
	assets  AssetStore
	records ImageCollection
	now     func() time.Time
}

// NewImageLibrary creates an ImageLibrary. assets may be nil when object
// storage is not configured; uploads then fail cleanly.
func NewImageLibrary(assets AssetStore, records ImageCollection) *ImageLibrary {
	return &ImageLibrary{assets: assets, records: records, now: time.Now}
}

// StorageDisabled reports whether the library was built without object
// storage, in which case uploads fail and the surface hides the form.
func (l *ImageLibrary) StorageDisabled() bool { return l.assets == nil }

// Upload stores the file, then persists an image record embedding the
// returned reference, then returns the refreshed listing. The two calls
// are independent: a failed record insert after a successful upload
// leaves the object in storage with nothing pointing at it.
func (l *ImageLibrary) Upload(ctx context.Context, file *File) ([]models.ImageRecord, error) {
	if file == nil {
		return nil, &ValidationError{Field: "file", Reason: "No file selected"}
	}
	if l.assets == nil {
		return nil, &StorageError{Op: "upload", Key: file.Name, Err: ErrStorageUnavailable}
	}

	key := uploadKey(imagesNamespace, l.now(), file.Name)
	if err := l.assets.Upload(ctx, key, file.ContentType, file.Reader, file.Size); err != nil {
		return nil, &StorageError{Op: "upload", Key: key, Err: err}
	}

	img := &models.ImageRecord{
		ID:  uuid.New(),
		URL: l.assets.FileURL(key),
	}
	if err := l.records.Insert(ctx, img); err != nil {
		return nil, &PersistenceError{Op: "create image", Err: err}
	}
	return l.List(ctx)
}

// List returns the full image listing, newest first.
func (l *ImageLibrary) List(ctx context.Context) ([]models.ImageRecord, error) {
	items, err := l.records.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list images", Err: err}
	}
	return items, nil
}

// Get retrieves a single image record, or nil when absent.
func (l *ImageLibrary) Get(ctx context.Context, id uuid.UUID) (*models.ImageRecord, error) {
	img, err := l.records.Get(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get image", Err: err}
	}
	return img, nil
}

// Delete removes an image record and its stored object, then returns the
// refreshed listing. Same ordering and failure rules as a content-record
// delete: asset first, abort on asset failure, repeat deletes harmless.
func (l *ImageLibrary) Delete(ctx context.Context, id uuid.UUID, confirm Confirm) ([]models.ImageRecord, error) {
	if confirm != nil && !confirm() {
		return nil, ErrNotConfirmed
	}

	img, err := l.records.Get(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get image", Err: err}
	}
	if img == nil {
		return l.List(ctx)
	}

	if l.assets != nil {
		if key, ok := l.assets.ExtractKey(img.URL); ok {
			if err := l.assets.Delete(ctx, key); err != nil {
				return nil, &StorageError{Op: "delete", Key: key, Err: err}
			}
		}
	}

	if err := l.records.Delete(ctx, id); err != nil {
		return nil, &PersistenceError{Op: "delete image", Err: err}
	}
	return l.List(ctx)
}
