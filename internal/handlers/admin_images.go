// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitedesk/internal/content"
	"sitedesk/internal/models"
	"sitedesk/internal/render"
)

// ImagesList renders the image library tab.
func (a *Admin) ImagesList(w http.ResponseWriter, r *http.Request) {
	a.renderImages(w, r, "")
}

func (a *Admin) renderImages(w http.ResponseWriter, r *http.Request, errMsg string) {
	items, err := a.images.List(r.Context())
	if err != nil {
		slog.Error("image listing failed", "error", err)
		if errMsg == "" {
			errMsg = "Could not load the image library. Please try again."
		}
	}

	selectedID := ""
	if id, ok, err := a.selector.SelectedID(r.Context(), models.SlotHero); err == nil && ok {
		selectedID = id.String()
	}

	a.renderer.Page(w, r, "images", &render.PageData{
		Title:   "Images",
		Section: "images",
		Error:   errMsg,
		Data: map[string]any{
			"Items":      items,
			"SelectedID": selectedID,
			"NoStorage":  a.images.StorageDisabled(),
		},
	})
}

// ImageUpload stores the posted file and its library record, then
// redirects back to the tab.
func (a *Admin) ImageUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.renderImages(w, r, "Upload too large. Maximum size is 50 MB.")
		return
	}

	file, closeFile, err := formFile(r, "file")
	if err != nil {
		a.renderImages(w, r, "Could not read the file.")
		return
	}
	defer closeFile()

	if _, err := a.images.Upload(r.Context(), file); err != nil {
		slog.Error("image upload failed", "error", err)
		a.renderImages(w, r, userMessage(err, "Could not upload. Please try again."))
		return
	}

	http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
}

// ImageDelete removes an image record and its stored object after the
// confirmation gate.
func (a *Admin) ImageDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	_, err = a.images.Delete(r.Context(), id, confirmFrom(r))
	if err != nil && !errors.Is(err, content.ErrNotConfirmed) {
		slog.Error("image delete failed", "id", id, "error", err)
		a.renderImages(w, r, userMessage(err, "Could not delete. Please try again."))
		return
	}

	http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
}

// ImageFeature applies an image's snapshot to the hero slot.
func (a *Admin) ImageFeature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	img, err := a.images.Get(ctx, id)
	if err != nil || img == nil {
		if err != nil {
			slog.Error("hero lookup failed", "id", id, "error", err)
		}
		http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
		return
	}

	if err := a.selector.Apply(ctx, models.SlotHero, img, confirmFrom(r)); err != nil {
		if errors.Is(err, content.ErrNotConfirmed) {
			http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
			return
		}
		slog.Error("hero apply failed", "error", err)
		a.renderImages(w, r, "Could not update the hero selection.")
		return
	}

	http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
}

// ThemePage renders the theme tab with the current color.
func (a *Admin) ThemePage(w http.ResponseWriter, r *http.Request) {
	a.renderTheme(w, r, "")
}

func (a *Admin) renderTheme(w http.ResponseWriter, r *http.Request, errMsg string) {
	color, err := a.selector.Color(r.Context())
	if err != nil {
		slog.Error("theme color lookup failed", "error", err)
		color = models.DefaultThemeColor
	}
	a.renderer.Page(w, r, "theme", &render.PageData{
		Title:   "Theme",
		Section: "theme",
		Error:   errMsg,
		Data:    map[string]any{"Color": color},
	})
}

// ThemeApply validates and applies the posted color after the
// confirmation gate.
func (a *Admin) ThemeApply(w http.ResponseWriter, r *http.Request) {
	err := a.selector.ApplyColor(r.Context(), r.FormValue("color"), confirmFrom(r))
	if err != nil {
		if errors.Is(err, content.ErrNotConfirmed) {
			http.Redirect(w, r, "/admin/theme", http.StatusSeeOther)
			return
		}
		slog.Error("theme apply failed", "error", err)
		a.renderTheme(w, r, userMessage(err, "Could not apply the color."))
		return
	}

	http.Redirect(w, r, "/admin/theme", http.StatusSeeOther)
}
