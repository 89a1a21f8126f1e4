package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"sitedesk/internal/middleware"
	"sitedesk/internal/render"
	"sitedesk/internal/session"
	"sitedesk/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "SiteDesk"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		userStore: userStore,
	}
}

// safeNext returns the ?next= destination if it is a local admin path,
// otherwise the dashboard. Absolute URLs are rejected to keep the
// redirect on-site.
func safeNext(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if strings.HasPrefix(next, "/admin") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/admin"
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in with 2FA complete, skip the form.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, safeNext(r), http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Next": r.URL.Query().Get("next")},
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := a.userStore.FindByEmail(ctx, email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.renderer.Page(w, r, "login", &render.PageData{
			Title: "Sign In",
			Error: "An unexpected error occurred.",
			Data:  map[string]any{"Next": r.URL.Query().Get("next")},
		})
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, password) {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title: "Sign In",
			Error: "Invalid email or password.",
			Data:  map[string]any{"Next": r.URL.Query().Get("next")},
		})
		return
	}

	// Create a session. TwoFADone starts as false; the user must complete
	// 2FA before reaching any content tab.
	_, err = a.sessions.Create(ctx, w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   false,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Carry the original destination through the 2FA step.
	suffix := ""
	if next := r.URL.Query().Get("next"); next != "" {
		suffix = "?next=" + url.QueryEscape(next)
	}
	if user.NeedsTOTPSetup() {
		http.Redirect(w, r, "/admin/2fa/setup"+suffix, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/admin/2fa"+suffix, http.StatusSeeOther)
	}
}

// TwoFASetupPage generates a TOTP secret and displays the QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.userStore.SetTOTPSecret(ctx, sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title: "Set Up Two-Factor Authentication",
		Data: map[string]any{
			"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
			"Secret": key.Secret(),
		},
	})
}

// TwoFAVerifyPage renders the 2FA code entry form. Users who have not
// enrolled yet are sent to setup instead.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	user, err := a.userStore.FindByID(ctx, sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	if user.NeedsTOTPSetup() {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "2fa_verify", &render.PageData{
		Title: "Two-Factor Authentication",
		Data:  map[string]any{"Next": r.URL.Query().Get("next")},
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	code := r.FormValue("code")

	user, err := a.userStore.FindByID(ctx, sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		if !user.TOTPEnabled {
			// Still enrolling: re-render the setup page with the same
			// secret so the already-scanned QR stays valid.
			qrPNG, _ := qrcode.Encode(
				fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
					totpIssuer, user.Email, *user.TOTPSecret, totpIssuer),
				qrcode.Medium, 256,
			)
			a.renderer.Page(w, r, "2fa_setup", &render.PageData{
				Title: "Set Up Two-Factor Authentication",
				Error: "Invalid code. Please try again.",
				Data: map[string]any{
					"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
					"Secret": *user.TOTPSecret,
				},
			})
			return
		}

		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title: "Two-Factor Authentication",
			Error: "Invalid code. Please try again.",
			Data:  map[string]any{"Next": r.URL.Query().Get("next")},
		})
		return
	}

	// First-time setup: enable TOTP now that a code has verified.
	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(ctx, user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(ctx, r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeNext(r), http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
