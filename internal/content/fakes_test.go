// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitedesk/internal/models"
)

// fakeClock hands out strictly increasing instants so records and upload
// keys created in one test are distinguishable.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// fakeAssets is an in-memory AssetStore with injectable failures.
type fakeAssets struct {
	base     string
	objects  map[string][]byte
	uploads  []string // keys in upload order
	deleted  []string
	failUp   map[string]error // by file name suffix
	failDel  map[string]error // by key
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		base:    "https://cdn.example.com/site/",
		objects: map[string][]byte{},
		failUp:  map[string]error{},
		failDel: map[string]error{},
	}
}

func (a *fakeAssets) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	for suffix, err := range a.failUp {
		if strings.HasSuffix(key, suffix) {
			return err
		}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	a.objects[key] = b
	a.uploads = append(a.uploads, key)
	return nil
}

func (a *fakeAssets) FileURL(key string) string { return a.base + key }

func (a *fakeAssets) ExtractKey(url string) (string, bool) {
	if !strings.HasPrefix(url, a.base) {
		return "", false
	}
	key := strings.TrimPrefix(url, a.base)
	return key, key != ""
}

func (a *fakeAssets) Delete(_ context.Context, key string) error {
	if err := a.failDel[key]; err != nil {
		return err
	}
	delete(a.objects, key)
	a.deleted = append(a.deleted, key)
	return nil
}

// fakeCollection is an in-memory Collection ordering exactly as the
// backing store does: occurs_at descending with unset datetimes first,
// created_at descending as tiebreaker.
type fakeCollection struct {
	schema    models.CollectionSchema
	records   map[uuid.UUID]models.ContentRecord
	clock     *fakeClock
	insertErr error
	listCalls int
}

func newFakeCollection(schema models.CollectionSchema, clock *fakeClock) *fakeCollection {
	return &fakeCollection{
		schema:  schema,
		records: map[uuid.UUID]models.ContentRecord{},
		clock:   clock,
	}
}

func (c *fakeCollection) Schema() models.CollectionSchema { return c.schema }

func (c *fakeCollection) Insert(_ context.Context, rec *models.ContentRecord) error {
	if c.insertErr != nil {
		return c.insertErr
	}
	rec.CreatedAt = c.clock.Now()
	c.records[rec.ID] = *rec
	return nil
}

func (c *fakeCollection) List(_ context.Context) ([]models.ContentRecord, error) {
	c.listCalls++
	out := make([]models.ContentRecord, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].OccursAt, out[j].OccursAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (c *fakeCollection) Get(_ context.Context, id uuid.UUID) (*models.ContentRecord, error) {
	rec, ok := c.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *fakeCollection) Delete(_ context.Context, id uuid.UUID) error {
	delete(c.records, id)
	return nil
}

// fakeImageCollection is an in-memory ImageCollection, newest first.
type fakeImageCollection struct {
	records   map[uuid.UUID]models.ImageRecord
	clock     *fakeClock
	insertErr error
}

func newFakeImageCollection(clock *fakeClock) *fakeImageCollection {
	return &fakeImageCollection{records: map[uuid.UUID]models.ImageRecord{}, clock: clock}
}

func (c *fakeImageCollection) Insert(_ context.Context, img *models.ImageRecord) error {
	if c.insertErr != nil {
		return c.insertErr
	}
	img.CreatedAt = c.clock.Now()
	c.records[img.ID] = *img
	return nil
}

func (c *fakeImageCollection) List(_ context.Context) ([]models.ImageRecord, error) {
	out := make([]models.ImageRecord, 0, len(c.records))
	for _, img := range c.records {
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (c *fakeImageCollection) Get(_ context.Context, id uuid.UUID) (*models.ImageRecord, error) {
	img, ok := c.records[id]
	if !ok {
		return nil, nil
	}
	return &img, nil
}

func (c *fakeImageCollection) Latest(ctx context.Context) (*models.ImageRecord, error) {
	all, err := c.List(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

func (c *fakeImageCollection) Delete(_ context.Context, id uuid.UUID) error {
	delete(c.records, id)
	return nil
}

// fakePointers is an in-memory PointerStore. Snapshots are marshalled on
// apply, matching the JSONB column in the real store.
type fakePointers struct {
	slots  map[string]models.FeaturedPointer
	clock  *fakeClock
	getErr error
}

func newFakePointers(clock *fakeClock) *fakePointers {
	return &fakePointers{slots: map[string]models.FeaturedPointer{}, clock: clock}
}

func (p *fakePointers) Apply(_ context.Context, slot string, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	p.slots[slot] = models.FeaturedPointer{Slot: slot, Snapshot: raw, UpdatedAt: p.clock.Now()}
	return nil
}

func (p *fakePointers) Get(_ context.Context, slot string) (*models.FeaturedPointer, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	ptr, ok := p.slots[slot]
	if !ok {
		return nil, nil
	}
	return &ptr, nil
}

// denyConfirm is a Confirm that always denies.
func denyConfirm() bool { return false }

var errBackend = errors.New("backend unavailable")

func textFile(name, body string) *File {
	return &File{
		Name:        name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Reader:      strings.NewReader(body),
	}
}
