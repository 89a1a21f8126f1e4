// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Slots the public site reads its "in use" selections from. Each slot
// holds at most one pointer; applying overwrites the previous one.
const (
	SlotHero  = "herosection"
	SlotAbout = "aboutus"
	SlotColor = "color"
)

// DefaultThemeColor is rendered when no color has been applied yet.
const DefaultThemeColor = "#000000"

// FeaturedPointer marks one record (or a raw color value) as the one the
// public page should show for a slot. The snapshot is a full copy of the
// chosen record at apply time, not a reference: deleting the source record
// afterwards leaves the pointer dangling, and nothing invalidates it.
type FeaturedPointer struct {
	Slot      string          `json:"slot"`
	Snapshot  json.RawMessage `json:"snapshot"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ThemeColor is the site-wide primary color, stored as a snapshot in the
// "color" slot. No history is kept.
type ThemeColor struct {
	Color     string    `json:"color"`
	UpdatedAt time.Time `json:"updatedAt"`
}
