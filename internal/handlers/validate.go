package handlers

import (
	"strings"
	"unicode/utf8"

	"sitedesk/internal/content"
)

// Validation limits for content form fields.
const (
	maxTitleLen = 300
	maxBodyLen  = 100_000
)

// validateDraft checks the text fields of a draft and returns the first
// error found, or "" when valid. The title requirement here mirrors the
// one enforced again at create time.
func validateDraft(d *content.Draft) string {
	if strings.TrimSpace(d.Title) == "" {
		return "Title is required"
	}
	if utf8.RuneCountInString(d.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(d.Body) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}
