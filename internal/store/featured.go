// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"sitedesk/internal/models"
)

// FeaturedStore handles the in_uses singleton documents: one snapshot per
// slot, overwritten wholesale on every apply. Last writer wins.
type FeaturedStore struct {
	db *sql.DB
}

// NewFeaturedStore creates a new FeaturedStore with the given database connection.
func NewFeaturedStore(db *sql.DB) *FeaturedStore {
	return &FeaturedStore{db: db}
}

// Apply overwrites the slot's pointer with a full copy of the given
// snapshot. The snapshot is stored by value: later edits or deletes of
// the source record do not touch it.
func (s *FeaturedStore) Apply(ctx context.Context, slot string, snapshot any) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", slot, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO in_uses (slot, snapshot) VALUES ($1, $2)
		ON CONFLICT (slot) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = NOW()
	`, slot, payload)
	if err != nil {
		return fmt.Errorf("apply %s: %w", slot, err)
	}
	return nil
}

// Get retrieves the pointer for a slot. Returns nil if the slot has never
// been applied.
func (s *FeaturedStore) Get(ctx context.Context, slot string) (*models.FeaturedPointer, error) {
	p := &models.FeaturedPointer{Slot: slot}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot, updated_at FROM in_uses WHERE slot = $1
	`, slot).Scan(&payload, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", slot, err)
	}
	p.Snapshot = json.RawMessage(payload)
	return p, nil
}

// Clear removes the pointer for a slot. Clearing an absent slot is not an error.
func (s *FeaturedStore) Clear(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM in_uses WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("clear %s: %w", slot, err)
	}
	return nil
}
