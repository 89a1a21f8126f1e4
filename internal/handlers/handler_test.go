// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure. Admin and public
// handlers run against in-memory stores; auth tests exercise real
// PostgreSQL and Redis connections and are skipped when those services
// are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"sitedesk/internal/content"
	"sitedesk/internal/database"
	"sitedesk/internal/middleware"
	"sitedesk/internal/models"
	"sitedesk/internal/render"
	"sitedesk/internal/session"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
// Used by the auth tests only; everything else runs on in-memory stores.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "sitedesk")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "sitedesk")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testRedisClient returns a Redis client for auth tests on DB 15.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// ----------------------------------------------------------------------
// In-memory stores for admin and public handler tests
// ----------------------------------------------------------------------

// memAssets is an in-memory content.AssetStore.
type memAssets struct {
	base    string
	objects map[string][]byte
}

func newMemAssets() *memAssets {
	return &memAssets{base: "https://cdn.example.com/site/", objects: map[string][]byte{}}
}

func (m *memAssets) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memAssets) FileURL(key string) string { return m.base + key }

func (m *memAssets) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memAssets) ExtractKey(u string) (string, bool) {
	if !strings.HasPrefix(u, m.base) {
		return "", false
	}
	return strings.TrimPrefix(u, m.base), true
}

// memCollection is an in-memory content.Collection preserving the store
// ordering: unset datetime first, then datetime descending.
type memCollection struct {
	schema  models.CollectionSchema
	records []models.ContentRecord
}

func (m *memCollection) Schema() models.CollectionSchema { return m.schema }

func (m *memCollection) Insert(_ context.Context, rec *models.ContentRecord) error {
	rec.ID = uuid.New()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memCollection) List(_ context.Context) ([]models.ContentRecord, error) {
	out := make([]models.ContentRecord, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.OccursAt == nil && b.OccursAt != nil:
			return true
		case a.OccursAt != nil && b.OccursAt == nil:
			return false
		case a.OccursAt != nil && b.OccursAt != nil && !a.OccursAt.Equal(*b.OccursAt):
			return a.OccursAt.After(*b.OccursAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out, nil
}

func (m *memCollection) Get(_ context.Context, id uuid.UUID) (*models.ContentRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memCollection) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// memImages is an in-memory content.ImageCollection.
type memImages struct {
	records []models.ImageRecord
}

func (m *memImages) Insert(_ context.Context, img *models.ImageRecord) error {
	img.ID = uuid.New()
	m.records = append(m.records, *img)
	return nil
}

func (m *memImages) List(_ context.Context) ([]models.ImageRecord, error) {
	out := make([]models.ImageRecord, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memImages) Get(_ context.Context, id uuid.UUID) (*models.ImageRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			img := m.records[i]
			return &img, nil
		}
	}
	return nil, nil
}

func (m *memImages) Latest(_ context.Context) (*models.ImageRecord, error) {
	all, _ := m.List(context.Background())
	if len(all) == 0 {
		return nil, nil
	}
	img := all[0]
	return &img, nil
}

func (m *memImages) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// memPointers is an in-memory content.PointerStore.
type memPointers struct {
	slots map[string]*models.FeaturedPointer
}

func newMemPointers() *memPointers {
	return &memPointers{slots: map[string]*models.FeaturedPointer{}}
}

func (m *memPointers) Apply(_ context.Context, slot string, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.slots[slot] = &models.FeaturedPointer{Slot: slot, Snapshot: raw, UpdatedAt: time.Now()}
	return nil
}

func (m *memPointers) Get(_ context.Context, slot string) (*models.FeaturedPointer, error) {
	return m.slots[slot], nil
}

// testEnv holds the in-memory dependencies for admin and public tests.
type testEnv struct {
	Assets   *memAssets
	Events   *memCollection
	Blogs    *memCollection
	About    *memCollection
	Images   *memImages
	Pointers *memPointers
	Editors  map[string]*content.Editor
	Library  *content.ImageLibrary
	Selector *content.Selector
	Admin    *Admin
	Public   *Public
}

// newTestEnv wires handlers over in-memory stores. No external services.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	assets := newMemAssets()
	events := &memCollection{schema: models.Events}
	blogs := &memCollection{schema: models.Blogs}
	about := &memCollection{schema: models.About}
	images := &memImages{}
	pointers := newMemPointers()

	editors := map[string]*content.Editor{
		"events": content.NewEditor(assets, events),
		"blogs":  content.NewEditor(assets, blogs),
		"about":  content.NewEditor(assets, about),
	}
	library := content.NewImageLibrary(assets, images)
	selector := content.NewSelector(pointers, images)

	return &testEnv{
		Assets:   assets,
		Events:   events,
		Blogs:    blogs,
		About:    about,
		Images:   images,
		Pointers: pointers,
		Editors:  editors,
		Library:  library,
		Selector: selector,
		Admin:    NewAdmin(renderer, editors, library, selector),
		Public:   NewPublic(renderer, editors["events"], editors["blogs"], selector),
	}
}

// ----------------------------------------------------------------------
// Request helpers
// ----------------------------------------------------------------------

// testSession creates session data for a fully authenticated user.
func testSession(twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "admin@sitedesk.local",
		DisplayName: "Test Admin",
		TwoFADone:   twoFADone,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// formRequest builds a urlencoded POST with a session attached.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req.WithContext(ctxWithSession(req.Context(), testSession(true)))
}

// getRequest builds a GET with a session attached.
func getRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(ctxWithSession(req.Context(), testSession(true)))
}

// multipartFile describes one file part for multipartRequest.
type multipartFile struct {
	Field string
	Name  string
	Body  string
}

// multipartRequest builds a multipart POST with fields and files.
func multipartRequest(t *testing.T, target string, fields url.Values, files ...multipartFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range fields {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field %s: %v", key, err)
			}
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("create file part %s: %v", f.Field, err)
		}
		if _, err := io.WriteString(part, f.Body); err != nil {
			t.Fatalf("write file part %s: %v", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(ctxWithSession(req.Context(), testSession(true)))
}

// addRecord inserts a record directly into an in-memory collection.
func addRecord(t *testing.T, coll *memCollection, title string) uuid.UUID {
	t.Helper()
	rec := &models.ContentRecord{Title: title, Body: "body of " + title, CreatedAt: time.Now()}
	if err := coll.Insert(context.Background(), rec); err != nil {
		t.Fatalf("insert %s: %v", title, err)
	}
	return rec.ID
}

// addImage inserts an image record directly into the in-memory library.
func addImage(t *testing.T, images *memImages, name string) uuid.UUID {
	t.Helper()
	img := &models.ImageRecord{
		URL:       models.AssetRef("https://cdn.example.com/site/images/" + name),
		CreatedAt: time.Now(),
	}
	if err := images.Insert(context.Background(), img); err != nil {
		t.Fatalf("insert image %s: %v", name, err)
	}
	return img.ID
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != location {
		t.Errorf("Location: got %q, want %q", loc, location)
	}
}

