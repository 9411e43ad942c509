package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
)

// SessionTokens is the access/refresh pair handed to the browser.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// SetSessionCookies writes both tokens as HTTP-only cookies.
func SetSessionCookies(w http.ResponseWriter, cfg config.CookieConfig, tokens SessionTokens) {
	http.SetCookie(w, buildCookie(cfg, cfg.AccessName, tokens.AccessToken, tokens.AccessTTL))
	http.SetCookie(w, buildCookie(cfg, cfg.RefreshName, tokens.RefreshToken, tokens.RefreshTTL))
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(w http.ResponseWriter, cfg config.CookieConfig) {
	for _, name := range []string{cfg.AccessName, cfg.RefreshName} {
		cookie := buildCookie(cfg, name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}

// AccessTokenFromRequest prefers the access cookie and falls back to a Bearer header.
func AccessTokenFromRequest(r *http.Request, cfg config.CookieConfig) string {
	if token := cookieValue(r, cfg.AccessName); token != "" {
		return token
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RefreshTokenFromRequest reads the refresh cookie, then the X-Refresh-Token header.
func RefreshTokenFromRequest(r *http.Request, cfg config.CookieConfig) string {
	if token := cookieValue(r, cfg.RefreshName); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-Refresh-Token"))
}

func cookieValue(r *http.Request, name string) string {
	if name == "" {
		return ""
	}
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func buildCookie(cfg config.CookieConfig, name, value string, ttl time.Duration) *http.Cookie {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
