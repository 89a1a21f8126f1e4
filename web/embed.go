// Package web provides embedded static assets (CSS) for the dashboard
// and the public page, served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
