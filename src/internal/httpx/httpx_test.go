package httpx

import (
	"net/http"
	"testing"
)

func TestSetUA(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if hv := req.Header.Get("User-Agent"); hv != "" {
		t.Fatalf("precondition: UA not empty: %q", hv)
	}
	SetUA(req, "bibcompose/1.0")
	if hv := req.Header.Get("User-Agent"); hv != "bibcompose/1.0" {
		t.Fatalf("SetUA: got %q", hv)
	}
	// empty UA leaves the header alone
	SetUA(req, "")
	if hv := req.Header.Get("User-Agent"); hv != "bibcompose/1.0" {
		t.Fatalf("SetUA with empty value: got %q", hv)
	}
}
