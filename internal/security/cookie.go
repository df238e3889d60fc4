package security

import (
	"net/http"
	"strings"
	"time"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	CSRFTokenCookie    = "csrf_token"

	refreshCookiePath = "/api/v1/auth"
	accessCookieTTL   = 15 * time.Minute
)

type CookieManager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookieManager(domain string, secure bool, sameSite string) *CookieManager {
	mode := http.SameSiteLaxMode
	switch strings.ToLower(sameSite) {
	case "strict":
		mode = http.SameSiteStrictMode
	case "none":
		mode = http.SameSiteNoneMode
	}
	return &CookieManager{Domain: domain, Secure: secure, SameSite: mode}
}

// SetTokenCookies writes the session cookie triple. The access token is kept
// short-lived regardless of the refresh TTL; the CSRF token is readable by
// script so the SPA can mirror it into a request header.
func (m *CookieManager) SetTokenCookies(w http.ResponseWriter, accessToken, refreshToken, csrfToken string, refreshTTL time.Duration) {
	m.set(w, AccessTokenCookie, accessToken, "/", int(accessCookieTTL.Seconds()), true)
	m.set(w, RefreshTokenCookie, refreshToken, refreshCookiePath, int(refreshTTL.Seconds()), true)
	m.set(w, CSRFTokenCookie, csrfToken, "/", int(refreshTTL.Seconds()), false)
}

func (m *CookieManager) ClearTokenCookies(w http.ResponseWriter) {
	m.set(w, AccessTokenCookie, "", "/", -1, true)
	m.set(w, RefreshTokenCookie, "", refreshCookiePath, -1, true)
	m.set(w, CSRFTokenCookie, "", "/", -1, false)
}

func (m *CookieManager) set(w http.ResponseWriter, name, value, path string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   m.Domain,
		MaxAge:   maxAge,
		Secure:   m.Secure,
		HttpOnly: httpOnly,
		SameSite: m.SameSite,
	})
}

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
