// Package shared holds small pieces used across modules.
package shared

import (
	"net/http"
	"time"
)

// CookieManager moves the session token between transport and handlers.
// It never inspects the token value; verification belongs to the codec.
type CookieManager struct {
	name   string
	maxAge time.Duration
	secure bool
}

// NewCookieManager constructs a CookieManager. secure should be true in
// production so the cookie is only sent over TLS.
func NewCookieManager(name string, maxAge time.Duration, secure bool) *CookieManager {
	return &CookieManager{name: name, maxAge: maxAge, secure: secure}
}

// Set attaches the token to the response as an HTTP-only strict-same-site cookie.
func (cm *CookieManager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cm.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cm.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cm.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Get returns the token from the request cookie, or false when absent.
func (cm *CookieManager) Get(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cm.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear removes the cookie. Safe to call when no cookie was set.
func (cm *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cm.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cm.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Name returns the cookie identifier.
func (cm *CookieManager) Name() string {
	return cm.name
}
