// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"

	"sitedesk/internal/models"
)

// hexColorPattern matches the #rrggbb form submitted by the color picker.
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Selector designates one existing record (or a raw color value) as the
// one the public page shows for a slot. What it stores is a full copy of
// the record at apply time: the pointer is never updated when the source
// changes and dangles if the source is deleted.
type Selector struct {
	pointers PointerStore
	images   ImageCollection // hero fallback when no pointer was applied
	now      func() time.Time
}

// NewSelector creates a Selector over the pointer store. images supplies
// the hero-slot fallback and may be nil to disable it.
func NewSelector(pointers PointerStore, images ImageCollection) *Selector {
	return &Selector{pointers: pointers, images: images, now: time.Now}
}

// Apply overwrites the slot's pointer with the given snapshot after the
// confirmation gate passes. Full replace, not merge; the previous pointer
// is gone regardless of what it referenced.
func (s *Selector) Apply(ctx context.Context, slot string, snapshot any, confirm Confirm) error {
	if confirm != nil && !confirm() {
		return ErrNotConfirmed
	}
	if err := s.pointers.Apply(ctx, slot, snapshot); err != nil {
		return &PersistenceError{Op: "apply " + slot, Err: err}
	}
	return nil
}

// ApplyColor validates and applies the site theme color to the color slot.
func (s *Selector) ApplyColor(ctx context.Context, hex string, confirm Confirm) error {
	if !hexColorPattern.MatchString(hex) {
		return &ValidationError{Field: "color", Reason: "Pick a color in #rrggbb form"}
	}
	return s.Apply(ctx, models.SlotColor, models.ThemeColor{
		Color:     hex,
		UpdatedAt: s.now(),
	}, confirm)
}

// Hero returns the image the public hero section should show: the applied
// pointer snapshot if present, otherwise the most recently created image
// record, otherwise nil. The snapshot is returned verbatim — no check
// that its source record still exists.
func (s *Selector) Hero(ctx context.Context) (*models.ImageRecord, error) {
	p, err := s.pointers.Get(ctx, models.SlotHero)
	if err != nil {
		return nil, &PersistenceError{Op: "get " + models.SlotHero, Err: err}
	}
	if p != nil {
		var img models.ImageRecord
		if err := json.Unmarshal(p.Snapshot, &img); err == nil && img.URL != "" {
			return &img, nil
		}
	}
	if s.images == nil {
		return nil, nil
	}
	img, err := s.images.Latest(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "latest image", Err: err}
	}
	return img, nil
}

// About returns the applied about-us snapshot, or nil when the slot is
// empty (the public page then renders no about section).
func (s *Selector) About(ctx context.Context) (*models.ContentRecord, error) {
	p, err := s.pointers.Get(ctx, models.SlotAbout)
	if err != nil {
		return nil, &PersistenceError{Op: "get " + models.SlotAbout, Err: err}
	}
	if p == nil {
		return nil, nil
	}
	var rec models.ContentRecord
	if err := json.Unmarshal(p.Snapshot, &rec); err != nil {
		return nil, &PersistenceError{Op: "decode " + models.SlotAbout, Err: err}
	}
	return &rec, nil
}

// Color returns the applied theme color, or the default when the slot is
// empty or holds something unreadable.
func (s *Selector) Color(ctx context.Context) (string, error) {
	p, err := s.pointers.Get(ctx, models.SlotColor)
	if err != nil {
		return "", &PersistenceError{Op: "get " + models.SlotColor, Err: err}
	}
	if p == nil {
		return models.DefaultThemeColor, nil
	}
	var tc models.ThemeColor
	if err := json.Unmarshal(p.Snapshot, &tc); err != nil || tc.Color == "" {
		return models.DefaultThemeColor, nil
	}
	return tc.Color, nil
}

// SelectedID returns the id inside the slot's snapshot, for highlighting
// the currently applied choice in the editor. ok is false when the slot
// is empty or the snapshot carries no id.
func (s *Selector) SelectedID(ctx context.Context, slot string) (uuid.UUID, bool, error) {
	p, err := s.pointers.Get(ctx, slot)
	if err != nil {
		return uuid.Nil, false, &PersistenceError{Op: "get " + slot, Err: err}
	}
	if p == nil {
		return uuid.Nil, false, nil
	}
	var probe struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(p.Snapshot, &probe); err != nil || probe.ID == uuid.Nil {
		return uuid.Nil, false, nil
	}
	return probe.ID, true, nil
}
