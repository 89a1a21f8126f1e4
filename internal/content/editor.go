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

// Editor orchestrates the lifecycle of one content collection: attaching
// uploaded assets to a draft, persisting the draft, listing, and deleting.
// One Editor instance serves events, blogs, or about-us depending on the
// collection it wraps.
type Editor struct {
	assets  AssetStore
	records Collection
	schema  models.CollectionSchema
	now     func() time.Time
}

// NewEditor creates an Editor for the given collection. assets may be nil
// when object storage is not configured; attach calls then fail cleanly.
func NewEditor(assets AssetStore, records Collection) *Editor {
	return &Editor{
		assets:  assets,
		records: records,
		schema:  records.Schema(),
		now:     time.Now,
	}
}

// Schema returns the collection schema this editor serves.
func (e *Editor) Schema() models.CollectionSchema { return e.schema }

// featuredNamespace is where featured-image uploads go. Collections with
// a gallery keep featured uploads in a /featured subpath; about-us
// uploads at the collection root.
func (e *Editor) featuredNamespace() string {
	if e.schema.HasGallery {
		return e.schema.Name + "/featured"
	}
	return e.schema.Name
}

// upload stores one file under the namespace and returns its reference.
func (e *Editor) upload(ctx context.Context, namespace string, f *File) (models.AssetRef, error) {
	if e.assets == nil {
		return "", &StorageError{Op: "upload", Key: f.Name, Err: ErrStorageUnavailable}
	}
	key := uploadKey(namespace, e.now(), f.Name)
	if err := e.assets.Upload(ctx, key, f.ContentType, f.Reader, f.Size); err != nil {
		return "", &StorageError{Op: "upload", Key: key, Err: err}
	}
	return e.assets.FileURL(key), nil
}

// AttachFeatured uploads a featured image and stores its reference in the
// draft. A nil file is a no-op. On failure the draft's featured field is
// left unchanged and the error is surfaced to the user.
func (e *Editor) AttachFeatured(ctx context.Context, draft *Draft, file *File) error {
	if file == nil {
		return nil
	}
	ref, err := e.upload(ctx, e.featuredNamespace(), file)
	if err != nil {
		return err
	}
	draft.FeaturedImage = ref
	return nil
}

// AttachGallery uploads the files sequentially, appending each reference
// to the draft's gallery in selection order. If the k-th upload fails,
// the k-1 references already attached remain attached, the remainder is
// aborted, and the error is surfaced: partial success is visible, not
// rolled back.
func (e *Editor) AttachGallery(ctx context.Context, draft *Draft, files []*File) error {
	for _, f := range files {
		ref, err := e.upload(ctx, e.schema.Name+"/gallery", f)
		if err != nil {
			return err
		}
		draft.Gallery = append(draft.Gallery, ref)
	}
	return nil
}

// Create persists the draft as a new record and returns the refreshed
// listing. The title must be non-blank; otherwise a ValidationError is
// returned and nothing is written. The record id is generated here;
// created_at is assigned by the store at write time.
//
// The listing is re-queried in full and replaces whatever the caller was
// showing — a concurrent create or delete by another session may be
// reflected in the result, which is accepted behavior.
func (e *Editor) Create(ctx context.Context, draft *Draft) ([]models.ContentRecord, error) {
	rec := &models.ContentRecord{
		ID:            uuid.New(),
		Title:         draft.Title,
		Body:          draft.Body,
		FeaturedImage: draft.FeaturedImage,
		Gallery:       append([]models.AssetRef(nil), draft.Gallery...),
	}
	if !rec.HasTitle() {
		return nil, &ValidationError{Field: "title", Reason: "Title is required"}
	}

	if e.schema.HasDatetime {
		occursAt, err := parseDatetime(draft.Datetime)
		if err != nil {
			return nil, &ValidationError{Field: "datetime", Reason: "Invalid date and time"}
		}
		rec.OccursAt = occursAt
	}

	if err := e.records.Insert(ctx, rec); err != nil {
		return nil, &PersistenceError{Op: "create " + e.schema.Name, Err: err}
	}
	return e.List(ctx)
}

// Get retrieves a single record, or nil when absent.
func (e *Editor) Get(ctx context.Context, id uuid.UUID) (*models.ContentRecord, error) {
	rec, err := e.records.Get(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get " + e.schema.Name, Err: err}
	}
	return rec, nil
}

// List returns the full ordered listing of the collection.
func (e *Editor) List(ctx context.Context) ([]models.ContentRecord, error) {
	items, err := e.records.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list " + e.schema.Name, Err: err}
	}
	return items, nil
}

// Delete removes a record and its featured asset, then returns the
// refreshed listing. The confirmation gate runs first; denial aborts with
// no side effects.
//
// The featured asset is deleted before the record. If that asset call
// fails, the whole operation aborts and the record stays — possibly
// pointing at an asset that is already gone for other reasons. References
// not owned by this storage (including the empty reference) are skipped.
// Gallery assets are never deleted here and leak when their record goes.
func (e *Editor) Delete(ctx context.Context, id uuid.UUID, confirm Confirm) ([]models.ContentRecord, error) {
	if confirm != nil && !confirm() {
		return nil, ErrNotConfirmed
	}

	rec, err := e.records.Get(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get " + e.schema.Name, Err: err}
	}
	if rec == nil {
		// Already gone; a repeat delete settles on the same end state.
		return e.List(ctx)
	}

	if e.assets != nil {
		if key, ok := e.assets.ExtractKey(rec.FeaturedImage); ok {
			if err := e.assets.Delete(ctx, key); err != nil {
				return nil, &StorageError{Op: "delete", Key: key, Err: err}
			}
		}
	}

	if err := e.records.Delete(ctx, id); err != nil {
		return nil, &PersistenceError{Op: "delete " + e.schema.Name, Err: err}
	}
	return e.List(ctx)
}
