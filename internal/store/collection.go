// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all SiteDesk
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods; documents leave the database as typed records, JSON only at
// the gallery/snapshot column boundary.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"sitedesk/internal/models"
)

// CollectionStore handles database operations for one content collection
// (events, blogs, or about-us). The backing table comes from the schema;
// all three tables share the same columns.
type CollectionStore struct {
	db     *sql.DB
	schema models.CollectionSchema
}

// NewCollectionStore creates a CollectionStore for the given collection schema.
func NewCollectionStore(db *sql.DB, schema models.CollectionSchema) *CollectionStore {
	return &CollectionStore{db: db, schema: schema}
}

// Schema returns the collection schema this store serves.
func (s *CollectionStore) Schema() models.CollectionSchema {
	return s.schema
}

// contentColumns lists the columns selected in content queries.
const contentColumns = `id, title, body, featured_image, gallery, occurs_at, created_at`

// scanContent scans a content row, decoding the JSONB gallery column.
func scanContent(scanner interface{ Scan(...any) error }) (*models.ContentRecord, error) {
	var (
		c       models.ContentRecord
		gallery []byte
	)
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Body, &c.FeaturedImage, &gallery, &c.OccursAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &c.Gallery); err != nil {
			return nil, fmt.Errorf("decode gallery: %w", err)
		}
	}
	return &c, nil
}

// Insert persists a new record under its client-generated id. The
// created_at timestamp is assigned by the database at write time and
// written back into the record.
func (s *CollectionStore) Insert(ctx context.Context, rec *models.ContentRecord) error {
	gallery := rec.Gallery
	if gallery == nil {
		gallery = []models.AssetRef{}
	}
	payload, err := json.Marshal(gallery)
	if err != nil {
		return fmt.Errorf("encode gallery: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO `+s.schema.Table+` (id, title, body, featured_image, gallery, occurs_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rec.ID, rec.Title, rec.Body, rec.FeaturedImage, payload, rec.OccursAt).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", s.schema.Name, err)
	}
	return nil
}

// List returns every record in the collection ordered by occurs_at
// descending. NULLS FIRST is Postgres's default for descending order and
// is written out to pin it down: records without a datetime sort before
// all dated records. created_at breaks ties within the NULL group.
func (s *CollectionStore) List(ctx context.Context) ([]models.ContentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM `+s.schema.Table+`
		ORDER BY occurs_at DESC NULLS FIRST, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.schema.Name, err)
	}
	defer rows.Close()

	var items []models.ContentRecord
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.schema.Name, err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Get retrieves a single record by id. Returns nil if not found.
func (s *CollectionStore) Get(ctx context.Context, id uuid.UUID) (*models.ContentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM `+s.schema.Table+` WHERE id = $1
	`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.schema.Name, err)
	}
	return c, nil
}

// Delete removes a record by id. Deleting an absent id is not an error,
// so a second delete of the same record is harmless.
func (s *CollectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.schema.Table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.schema.Name, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (s *CollectionStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.schema.Table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.schema.Name, err)
	}
	return count, nil
}
