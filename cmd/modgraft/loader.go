package main

import (
	"context"
	"fmt"

	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/loader/fsloader"
	"github.com/denoland/dnt-sub000/internal/loader/httploader"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

// dispatchLoader is the loader.RawLoader modgraft hands to
// loader.SourceLoader: file:// specifiers go to disk, http(s)://
// specifiers go over the network through an httpcache-backed client.
type dispatchLoader struct {
	fs           *fsloader.Loader
	http         *httploader.Loader
	forceReload  bool
}

func newDispatchLoader(cacheDir string, forceReload bool) *dispatchLoader {
	return &dispatchLoader{
		fs:          fsloader.New(),
		http:        httploader.New(cacheDir),
		forceReload: forceReload,
	}
}

func (d *dispatchLoader) Load(ctx context.Context, spec specifier.Specifier, cache loader.CacheSetting, checksum string) (*loader.LoadResponse, error) {
	if d.forceReload && cache == loader.CacheUseCache {
		cache = loader.CacheReload
	}
	switch spec.Scheme() {
	case specifier.SchemeFile:
		return d.fs.Load(ctx, spec, cache, checksum)
	case specifier.SchemeHTTP, specifier.SchemeHTTPS:
		return d.http.Load(ctx, spec, cache, checksum)
	default:
		return nil, fmt.Errorf("dispatchLoader: unsupported scheme for %s", spec.String())
	}
}
