package session

import (
	"net/http"
	"os"
	"strings"
	"time"
)

// TTL is the fixed lifetime of a minted session cookie.
const TTL = 14 * 24 * time.Hour

// CookieOptions defines how session cookies are issued. Clearing must reuse
// the exact same name/path/domain attributes or browsers keep the cookie.
type CookieOptions struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// OptionsFromEnv reads cookie attributes from the environment, with the same
// defaults the frontend was built against.
func OptionsFromEnv() CookieOptions {
	opts := CookieOptions{
		Name:     envOr("COOKIE_NAME", "session"),
		Path:     envOr("COOKIE_PATH", "/"),
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		SameSite: http.SameSiteLaxMode,
	}

	switch strings.ToLower(os.Getenv("COOKIE_SECURE")) {
	case "1", "true", "yes":
		opts.Secure = true
	}

	switch strings.ToLower(os.Getenv("COOKIE_SAMESITE")) {
	case "strict":
		opts.SameSite = http.SameSiteStrictMode
	case "none":
		opts.SameSite = http.SameSiteNoneMode
	}

	return opts
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = "session"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetCookie attaches the session credential to the response.
func SetCookie(w http.ResponseWriter, value string, ttl time.Duration, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie expires the session cookie using identical attributes.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
