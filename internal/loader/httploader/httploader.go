// Package httploader is the loader.RawLoader for http(s):// specifiers.
// It wraps gregjones/httpcache the same way bennypowers-cem's workspace
// package does, for RFC 7234 compliant revalidation across repeated
// transform runs against the same remote modules.
package httploader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"

	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

// Loader fetches http(s):// specifiers through an httpcache-wrapped
// client. With an empty cacheDir it caches in memory for the process
// lifetime; given a directory it persists the cache across runs.
type Loader struct {
	cached *http.Client
	plain  *http.Client
}

// New builds a Loader. cacheDir == "" uses an in-memory cache.
func New(cacheDir string) *Loader {
	var cache httpcache.Cache
	if cacheDir != "" {
		cache = diskcache.New(cacheDir)
	} else {
		cache = httpcache.NewMemoryCache()
	}
	return &Loader{
		cached: httpcache.NewTransport(cache).Client(),
		plain:  &http.Client{},
	}
}

func (l *Loader) Load(ctx context.Context, spec specifier.Specifier, cache loader.CacheSetting, checksum string) (*loader.LoadResponse, error) {
	if !spec.IsRemote() {
		return nil, fmt.Errorf("httploader: not a remote specifier: %s", spec.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.String(), nil)
	if err != nil {
		return nil, err
	}

	client := l.cached
	switch cache {
	case loader.CacheReload:
		req.Header.Set("Cache-Control", "no-cache")
	case loader.CacheNoCache:
		client = l.plain
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("httploader: GET %s: %s", spec.String(), resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if checksum != "" {
		if got := sha256Hex(body); got != checksum {
			return nil, fmt.Errorf("httploader: checksum mismatch for %s: got %s, want %s", spec.String(), got, checksum)
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return &loader.LoadResponse{Specifier: spec, Content: body, Headers: headers}, nil
}

func sha256Hex(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
