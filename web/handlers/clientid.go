package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const clientIDCookieName = "plotser-client"

// getClientID returns a stable identifier for the browser so per-client view state
// (hidden channels) survives reconnects. A new random id is issued when the cookie is missing.
func getClientID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(clientIDCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	identifier := r.RemoteAddr
	var randomBytes [16]byte
	if _, err := rand.Read(randomBytes[:]); err == nil {
		identifier = hex.EncodeToString(randomBytes[:])
	}
	http.SetCookie(w, &http.Cookie{
		Name:     clientIDCookieName,
		Value:    identifier,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	return identifier
}
