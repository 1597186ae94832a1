package server

import (
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultStaticPrefix is where static files are mounted when
// StaticConfig.Prefix is empty.
const DefaultStaticPrefix = "/static/"

// CacheControl selects the Cache-Control policy for static files.
type CacheControl int

const (
	// CacheDefault sets no Cache-Control header.
	CacheDefault CacheControl = iota

	// CacheNone forbids caching. Used while developing.
	CacheNone

	// CacheProduction caches fingerprinted files forever and everything
	// else for an hour.
	CacheProduction
)

// StaticConfig serves a directory of assets next to the page.
type StaticConfig struct {
	// Dir is the directory to serve.
	Dir string

	// FS overrides Dir when set.
	FS fs.FS

	// Prefix is the URL path the files are mounted under. It may not be
	// "/", which belongs to the page.
	Prefix string

	Cache CacheControl

	// Headers are added to every response.
	Headers map[string]string
}

// staticHandler serves files from fsys below prefix.
type staticHandler struct {
	fsys    fs.FS
	prefix  string
	cache   CacheControl
	headers map[string]string
}

// NewStaticHandler creates a handler for config. Requests outside the
// prefix, for directories, or that try to leave the directory get 404.
func NewStaticHandler(config StaticConfig) http.Handler {
	fsys := config.FS
	if fsys == nil {
		fsys = os.DirFS(config.Dir)
	}
	return &staticHandler{
		fsys:    fsys,
		prefix:  staticPrefix(config.Prefix),
		cache:   config.Cache,
		headers: config.Headers,
	}
}

// staticPrefix normalizes p to "/name/".
func staticPrefix(p string) string {
	if p == "" || p == "/" {
		return DefaultStaticPrefix
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := h.relPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := h.fsys.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.setCacheHeaders(w, rel)
	for k, v := range h.headers {
		w.Header().Set(k, v)
	}
	http.ServeContent(w, r, rel, info.ModTime(), content)
}

// relPath maps a URL path to a file below the served directory. Dot
// segments, backslashes, NUL bytes and absolute paths are rejected
// before cleaning so that a cleaned path never changes meaning.
func (h *staticHandler) relPath(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, h.prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, h.prefix)
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", false
	}
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if !fs.ValidPath(clean) {
		return "", false
	}
	if osPath := filepath.FromSlash(clean); filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

func (h *staticHandler) setCacheHeaders(w http.ResponseWriter, rel string) {
	switch h.cache {
	case CacheNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheProduction:
		if isFingerprinted(rel) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted reports whether the file name carries a content hash,
// as in "app.a1b2c3d4.css".
func isFingerprinted(p string) bool {
	parts := strings.Split(path.Base(p), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
