// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the dashboard and
// the public page. Admin pages share a base layout with the tab sidebar;
// auth pages and the public page are standalone documents.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"sitedesk/internal/middleware"
	"sitedesk/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active sidebar tab ("images", "events", "blogs", "about", "theme")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms
	Error     string         // Error banner text, if any
	Data      map[string]any // Page-specific data
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
	"home":       true,
}

// funcMap holds the helpers available to every template.
var funcMap = template.FuncMap{
	"activeClass": func(current, target string) string {
		if current == target {
			return "active"
		}
		return ""
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"datetime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006 15:04")
	},
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each admin page template is paired with the base layout;
// standalone templates parse on their own.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	for _, dir := range []string{"templates/admin", "templates/public"} {
		entries, err := templateFS.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == "base.html" {
				continue
			}
			tmplName := name[:len(name)-len(".html")]

			var tmpl *template.Template
			var parseErr error
			if standaloneTemplates[tmplName] {
				tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
					templateFS, dir+"/"+name,
				)
			} else {
				tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
					templateFS, "templates/admin/base.html", dir+"/"+name,
				)
			}
			if parseErr != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
			}
			r.templates[tmplName] = tmpl
		}
	}

	return r, nil
}

// Page renders the named template as a full page. The CSRF token and
// session are injected from the request context.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}
	if err := tmpl.ExecuteTemplate(w, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
