// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssetRef is the durable locator of an uploaded object: its public URL as
// returned at upload time. It is the only representation persisted in
// records and pointers; conversion back to a storage key happens at the
// storage boundary, never by string surgery elsewhere.
type AssetRef = string

// ContentRecord is one entry in a content collection — an event, a blog
// post, or an about-us section. The three variants share the same field
// set; CollectionSchema flags which fields a variant's editor exposes.
// JSON tags match the document field names used by the featured-pointer
// snapshots.
type ContentRecord struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Body          string     `json:"content"`
	FeaturedImage AssetRef   `json:"featuredImage"`
	Gallery       []AssetRef `json:"gallery,omitempty"` // upload order preserved
	OccursAt      *time.Time `json:"datetime,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// HasTitle reports whether the record carries a non-blank title. This is
// the only client-side invariant on creation; direct database writes can
// bypass it.
func (c *ContentRecord) HasTitle() bool {
	return strings.TrimSpace(c.Title) != ""
}

// CollectionSchema describes one content collection: its name (which also
// namespaces uploaded assets), its backing table, and which optional
// fields its editor exposes.
type CollectionSchema struct {
	Name        string // collection and asset namespace, e.g. "events"
	Table       string // backing Postgres table
	HasGallery  bool
	HasDatetime bool
}

// The three content collections. About-us keeps the datetime column for
// ordering parity with the other collections but its editor never sets it.
var (
	Events = CollectionSchema{Name: "events", Table: "events", HasGallery: true, HasDatetime: true}
	Blogs  = CollectionSchema{Name: "blogs", Table: "blogs", HasGallery: true, HasDatetime: true}
	About  = CollectionSchema{Name: "aboutus", Table: "aboutus", HasGallery: false, HasDatetime: false}
)
