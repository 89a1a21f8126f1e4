// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sitedesk/internal/content"
	"sitedesk/internal/markdown"
	"sitedesk/internal/models"
	"sitedesk/internal/render"
)

// siteName is the title shown on the public page and footer.
const siteName = "SiteDesk"

// Public serves the visitor-facing marketing page.
type Public struct {
	renderer *render.Renderer
	events   *content.Editor
	blogs    *content.Editor
	selector *content.Selector
}

// NewPublic creates the public handler group.
func NewPublic(renderer *render.Renderer, events, blogs *content.Editor, selector *content.Selector) *Public {
	return &Public{
		renderer: renderer,
		events:   events,
		blogs:    blogs,
		selector: selector,
	}
}

// Home renders the single public page: hero, about section, event and
// blog listings. Each piece degrades independently; a failed lookup logs
// and the section is simply absent.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	color, err := p.selector.Color(ctx)
	if err != nil {
		slog.Error("theme color lookup failed", "error", err)
		color = models.DefaultThemeColor
	}

	hero, err := p.selector.Hero(ctx)
	if err != nil {
		slog.Error("hero lookup failed", "error", err)
	}

	about, err := p.selector.About(ctx)
	if err != nil {
		slog.Error("about lookup failed", "error", err)
	}
	aboutHTML := ""
	if about != nil {
		aboutHTML, err = markdown.ToHTML(about.Body)
		if err != nil {
			slog.Error("about markdown render failed", "error", err)
			aboutHTML = ""
		}
	}

	events, err := p.events.List(ctx)
	if err != nil {
		slog.Error("events listing failed", "error", err)
	}

	blogs, err := p.blogs.List(ctx)
	if err != nil {
		slog.Error("blogs listing failed", "error", err)
	}

	p.renderer.Page(w, r, "home", &render.PageData{
		Title: siteName,
		Data: map[string]any{
			"Color":     color,
			"Hero":      hero,
			"About":     about,
			"AboutHTML": aboutHTML,
			"Events":    events,
			"Blogs":     blogs,
			"Year":      time.Now().Year(),
		},
	})
}
