package web

import (
	"net/http"
	"net/url"
)

// Flash messages ride on short-lived cookies across the
// redirect-back-after-POST cycle.

const (
	flashCookie     = "portal_flash"
	flashKindCookie = "portal_flash_kind"
)

func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name: flashCookie, Value: encodeCookieValue(message),
		Path: "/", MaxAge: 60, HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name: flashKindCookie, Value: kind,
		Path: "/", MaxAge: 60, HttpOnly: true,
	})
}

// popFlash reads and clears the pending flash message, if any.
// kind is "status" or "error".
func popFlash(w http.ResponseWriter, r *http.Request) (message, kind string) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	message = decodeCookieValue(c.Value)

	kind = "status"
	if kc, err := r.Cookie(flashKindCookie); err == nil && kc.Value == "error" {
		kind = "error"
	}

	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: flashKindCookie, Value: "", Path: "/", MaxAge: -1})
	return message, kind
}

// Cookie values cannot carry spaces or most punctuation, so messages are
// percent-encoded in transit.
func encodeCookieValue(v string) string { return url.QueryEscape(v) }

func decodeCookieValue(v string) string {
	decoded, err := url.QueryUnescape(v)
	if err != nil {
		return ""
	}
	return decoded
}

// redirectBack sends the browser to the referring page, or home when the
// referer is missing.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
