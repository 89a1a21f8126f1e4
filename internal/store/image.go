// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitedesk/internal/models"
)

// ImageStore handles database operations for the site image library.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore creates a new ImageStore with the given database connection.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

// Insert persists a new image record under its client-generated id.
// created_at is assigned by the database and written back.
func (s *ImageStore) Insert(ctx context.Context, img *models.ImageRecord) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO images (id, url) VALUES ($1, $2)
		RETURNING created_at
	`, img.ID, img.URL).Scan(&img.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

// List returns all image records, newest first.
func (s *ImageStore) List(ctx context.Context) ([]models.ImageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, created_at FROM images ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var items []models.ImageRecord
	for rows.Next() {
		var img models.ImageRecord
		if err := rows.Scan(&img.ID, &img.URL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

// Get retrieves a single image record by id. Returns nil if not found.
func (s *ImageStore) Get(ctx context.Context, id uuid.UUID) (*models.ImageRecord, error) {
	var img models.ImageRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, created_at FROM images WHERE id = $1
	`, id).Scan(&img.ID, &img.URL, &img.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &img, nil
}

// Latest returns the most recently created image record, or nil when the
// library is empty. Used as the hero-slot fallback.
func (s *ImageStore) Latest(ctx context.Context) (*models.ImageRecord, error) {
	var img models.ImageRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, created_at FROM images ORDER BY created_at DESC LIMIT 1
	`).Scan(&img.ID, &img.URL, &img.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest image: %w", err)
	}
	return &img, nil
}

// Delete removes an image record by id. Absent ids are not an error.
func (s *ImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Count returns the total number of image records.
func (s *ImageStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return count, nil
}
