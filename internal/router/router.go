// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// dashboard and the public page.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitedesk/internal/handlers"
	"sitedesk/internal/middleware"
	"sitedesk/internal/session"
	"sitedesk/web"
)

// New creates the configured chi router with all middleware and route
// groups wired up. secure controls the CSRF cookie flag; it is false in
// development only.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, secure bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health and metrics. No auth, no CSRF.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Embedded static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Login attempts are rate-limited per IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Admin routes.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secure))

		// Auth pages, accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA pages require a session but not completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa", auth.TwoFAVerifyPage)
			r.Post("/2fa", auth.TwoFAVerifySubmit)
		})

		// The content tabs require a fully authenticated session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", admin.Dashboard)

			r.Route("/images", func(r chi.Router) {
				r.Get("/", admin.ImagesList)
				r.Post("/", admin.ImageUpload)
				r.Post("/{id}/delete", admin.ImageDelete)
				r.Post("/{id}/feature", admin.ImageFeature)
			})

			r.Get("/theme", admin.ThemePage)
			r.Post("/theme", admin.ThemeApply)

			// Events, blogs, and about-us share the collection handlers.
			r.Route("/{collection:events|blogs|about}", func(r chi.Router) {
				r.Get("/", admin.CollectionList)
				r.Post("/", admin.CollectionCreate)
				r.Post("/{id}/delete", admin.CollectionDelete)
				r.Post("/{id}/feature", admin.CollectionFeature)
			})
		})
	})

	// Public page.
	r.Get("/", public.Home)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
