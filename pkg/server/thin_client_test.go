package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	clientdist "github.com/vango-dev/dvue/client/dist"
)

func TestServeThinClient(t *testing.T) {
	srv := New(nil, counterMount)
	defer srv.Sessions().Shutdown()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ClientPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.Len() != len(clientdist.DvueJS) {
		t.Errorf("body = %d bytes, want %d", rec.Body.Len(), len(clientdist.DvueJS))
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, ClientPath, nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("revalidation status = %d, want 304", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, ClientPath, nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD = %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestEtagMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"x", "abc"`, true},
		{`*`, true},
		{`"x"`, false},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, `"abc"`); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestOriginChecks(t *testing.T) {
	req := func(host, origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = host
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	if !SameOriginCheck(req("a.test", "")) {
		t.Error("missing Origin should pass")
	}
	if !SameOriginCheck(req("a.test", "http://a.test")) {
		t.Error("same origin should pass")
	}
	if SameOriginCheck(req("a.test", "http://b.test")) {
		t.Error("cross origin should fail")
	}

	allow := OriginAllowList([]string{"http://b.test"})
	if !allow(req("a.test", "http://b.test")) || allow(req("a.test", "http://c.test")) {
		t.Error("allow list mismatch")
	}
	if !OriginAllowList([]string{"*"})(req("a.test", "http://c.test")) {
		t.Error("* should allow any origin")
	}
}
