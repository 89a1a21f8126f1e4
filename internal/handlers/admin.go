// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains all HTTP handlers for the dashboard and the
// public page. Mutations follow post-redirect-get: a successful create,
// delete, or apply redirects back to the tab, whose GET re-queries the
// full listing.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitedesk/internal/content"
	"sitedesk/internal/render"
)

// Admin groups the content-management HTTP handlers. One Editor per
// content tab, plus the image library and the featured selector.
type Admin struct {
	renderer *render.Renderer
	editors  map[string]*content.Editor
	images   *content.ImageLibrary
	selector *content.Selector
}

// collectionPage describes the dashboard presentation of one content tab.
type collectionPage struct {
	Path     string // URL segment under /admin
	Label    string
	Singular string
	Slot     string // featured slot this tab can apply to, "" if none
}

// collectionPages maps URL segments to their presentation. The about tab
// is the only content tab with a featured slot; the hero slot belongs to
// the images tab.
var collectionPages = map[string]collectionPage{
	"events": {Path: "events", Label: "Events", Singular: "event"},
	"blogs":  {Path: "blogs", Label: "Blogs", Singular: "blog post"},
	"about":  {Path: "about", Label: "About Us", Singular: "section", Slot: "aboutus"},
}

// NewAdmin creates the Admin handler group. editors is keyed by the URL
// segment of each tab ("events", "blogs", "about").
func NewAdmin(renderer *render.Renderer, editors map[string]*content.Editor, images *content.ImageLibrary, selector *content.Selector) *Admin {
	return &Admin{
		renderer: renderer,
		editors:  editors,
		images:   images,
		selector: selector,
	}
}

// Dashboard renders the landing page with per-collection counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts := map[string]int{}
	for path, ed := range a.editors {
		items, err := ed.List(ctx)
		if err != nil {
			slog.Error("dashboard listing failed", "collection", path, "error", err)
			continue
		}
		counts[path] = len(items)
	}
	imgs, err := a.images.List(ctx)
	if err != nil {
		slog.Error("dashboard image listing failed", "error", err)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"ImageCount": len(imgs),
			"EventCount": counts["events"],
			"BlogCount":  counts["blogs"],
			"AboutCount": counts["about"],
		},
	})
}

// editorFor resolves the tab's editor from the URL. Writes a 404 and
// returns nil when the segment names no collection.
func (a *Admin) editorFor(w http.ResponseWriter, r *http.Request) (*content.Editor, collectionPage) {
	seg := chi.URLParam(r, "collection")
	page, ok := collectionPages[seg]
	if !ok {
		http.NotFound(w, r)
		return nil, collectionPage{}
	}
	return a.editors[seg], page
}

// CollectionList renders a content tab: the create form plus the full
// listing.
func (a *Admin) CollectionList(w http.ResponseWriter, r *http.Request) {
	ed, page := a.editorFor(w, r)
	if ed == nil {
		return
	}
	a.renderCollection(w, r, ed, page, &content.Draft{}, "")
}

// renderCollection re-queries the listing and renders the tab, optionally
// with an error banner and the draft the user was editing.
func (a *Admin) renderCollection(w http.ResponseWriter, r *http.Request, ed *content.Editor, page collectionPage, draft *content.Draft, errMsg string) {
	items, err := ed.List(r.Context())
	if err != nil {
		slog.Error("collection listing failed", "collection", page.Path, "error", err)
		if errMsg == "" {
			errMsg = "Could not load the listing. Please try again."
		}
	}

	selectedID := ""
	if page.Slot != "" {
		if id, ok, err := a.selector.SelectedID(r.Context(), page.Slot); err == nil && ok {
			selectedID = id.String()
		}
	}

	schema := ed.Schema()
	a.renderer.Page(w, r, "collection", &render.PageData{
		Title:   page.Label,
		Section: page.Path,
		Error:   errMsg,
		Data: map[string]any{
			"Path":          page.Path,
			"Label":         page.Label,
			"Singular":      page.Singular,
			"HasGallery":    schema.HasGallery,
			"HasDatetime":   schema.HasDatetime,
			"CanFeature":    page.Slot != "",
			"SelectedID":    selectedID,
			"Items":         items,
			"DraftTitle":    draft.Title,
			"DraftBody":     draft.Body,
			"DraftDatetime": draft.Datetime,
		},
	})
}

// CollectionCreate handles the create form: upload featured and gallery
// files, attach their references to the draft, persist, redirect back to
// the tab. On failure the form re-renders with the draft preserved, so
// references from uploads that did succeed are not lost.
func (a *Admin) CollectionCreate(w http.ResponseWriter, r *http.Request) {
	ed, page := a.editorFor(w, r)
	if ed == nil {
		return
	}
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.renderCollection(w, r, ed, page, &content.Draft{}, "Upload too large. Maximum size is 50 MB.")
		return
	}

	draft := &content.Draft{
		Title:    r.FormValue("title"),
		Body:     r.FormValue("content"),
		Datetime: r.FormValue("datetime"),
	}
	if msg := validateDraft(draft); msg != "" {
		a.renderCollection(w, r, ed, page, draft, msg)
		return
	}

	featured, closeFeatured, err := formFile(r, "featured")
	if err != nil {
		a.renderCollection(w, r, ed, page, draft, "Could not read the featured image.")
		return
	}
	defer closeFeatured()
	if featured != nil {
		if err := ed.AttachFeatured(ctx, draft, featured); err != nil {
			slog.Error("featured upload failed", "collection", page.Path, "error", err)
			a.renderCollection(w, r, ed, page, draft, userMessage(err, "Could not upload the featured image."))
			return
		}
	}

	gallery, closeAll, err := formFiles(r, "gallery")
	if err != nil {
		a.renderCollection(w, r, ed, page, draft, "Could not read the gallery images.")
		return
	}
	defer closeAll()
	if len(gallery) > 0 {
		if err := ed.AttachGallery(ctx, draft, gallery); err != nil {
			slog.Error("gallery upload failed", "collection", page.Path, "error", err)
			// Partial gallery state stays attached to the draft.
			a.renderCollection(w, r, ed, page, draft, userMessage(err, "Could not upload all gallery images."))
			return
		}
	}

	if _, err := ed.Create(ctx, draft); err != nil {
		slog.Error("create failed", "collection", page.Path, "error", err)
		a.renderCollection(w, r, ed, page, draft, userMessage(err, "Could not save. Please try again."))
		return
	}

	http.Redirect(w, r, "/admin/"+page.Path, http.StatusSeeOther)
}

// CollectionDelete removes a record after the confirmation gate. A denied
// confirmation just returns to the tab; nothing happened.
func (a *Admin) CollectionDelete(w http.ResponseWriter, r *http.Request) {
	ed, page := a.editorFor(w, r)
	if ed == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	_, err = ed.Delete(r.Context(), id, confirmFrom(r))
	if err != nil {
		if errors.Is(err, content.ErrNotConfirmed) {
			http.Redirect(w, r, "/admin/"+page.Path, http.StatusSeeOther)
			return
		}
		slog.Error("delete failed", "collection", page.Path, "id", id, "error", err)
		a.renderCollection(w, r, ed, page, &content.Draft{}, userMessage(err, "Could not delete. Please try again."))
		return
	}

	http.Redirect(w, r, "/admin/"+page.Path, http.StatusSeeOther)
}

// CollectionFeature applies a record's snapshot to the tab's slot (about
// tab only). The snapshot is a full copy of the record as it is now.
func (a *Admin) CollectionFeature(w http.ResponseWriter, r *http.Request) {
	ed, page := a.editorFor(w, r)
	if ed == nil {
		return
	}
	if page.Slot == "" {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	rec, err := ed.Get(ctx, id)
	if err != nil || rec == nil {
		if err != nil {
			slog.Error("feature lookup failed", "collection", page.Path, "id", id, "error", err)
		}
		http.Redirect(w, r, "/admin/"+page.Path, http.StatusSeeOther)
		return
	}

	if err := a.selector.Apply(ctx, page.Slot, rec, confirmFrom(r)); err != nil {
		if errors.Is(err, content.ErrNotConfirmed) {
			http.Redirect(w, r, "/admin/"+page.Path, http.StatusSeeOther)
			return
		}
		slog.Error("feature apply failed", "slot", page.Slot, "error", err)
		a.renderCollection(w, r, ed, page, &content.Draft{}, "Could not update the public page selection.")
		return
	}

	http.Redirect(w, r, "/admin/"+page.Path, http.StatusSeeOther)
}

// confirmFrom builds the confirmation gate from the posted form: the
// browser dialog writes "yes" into the confirm field when accepted.
func confirmFrom(r *http.Request) content.Confirm {
	return func() bool {
		return r.FormValue("confirm") == "yes"
	}
}

// userMessage maps a content error to the text shown in the banner.
// Validation messages are written for users and pass through; everything
// else gets the fallback.
func userMessage(err error, fallback string) string {
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	if errors.Is(err, content.ErrStorageUnavailable) {
		return "Object storage is not configured. Uploads are disabled."
	}
	return fallback
}
