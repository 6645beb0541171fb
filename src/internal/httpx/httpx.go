package httpx

import "net/http"

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SetUA sets the User-Agent header on the request.
func SetUA(req *http.Request, ua string) {
	if req != nil && ua != "" {
		req.Header.Set("User-Agent", ua)
	}
}
