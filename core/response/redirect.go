package response

import (
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
)

const (
	headerHXRequest  = "HX-Request"
	headerHXLocation = "HX-Location"
)

// Redirect responds with 302 Found.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectSeeOther responds with 303 See Other, the usual answer to a form POST.
func RedirectSeeOther(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectPermanent responds with 301 Moved Permanently.
func RedirectPermanent(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusMovedPermanently)
}

// RedirectWithStatus redirects with a 3xx status; anything else becomes 302.
// HTMX requests get an HX-Location header and 200 instead.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if r.Header.Get(headerHXRequest) == "true" {
			w.Header().Set(headerHXLocation, url)
			w.WriteHeader(http.StatusOK)
			return nil
		}

		if status < 300 || status >= 400 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
