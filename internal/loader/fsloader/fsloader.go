// Package fsloader is the loader.RawLoader for file:// specifiers: a thin
// wrapper around os.ReadFile, the local half of the "host provides load"
// collaborator spec.md §6 describes.
package fsloader

import (
	"context"
	"fmt"
	"os"

	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

// Loader reads file:// specifiers straight off disk. It ignores cache and
// checksum: the filesystem has no notion of either.
type Loader struct{}

// New returns a ready-to-use Loader.
func New() *Loader { return &Loader{} }

func (l *Loader) Load(ctx context.Context, spec specifier.Specifier, cache loader.CacheSetting, checksum string) (*loader.LoadResponse, error) {
	if spec.Scheme() != specifier.SchemeFile {
		return nil, fmt.Errorf("fsloader: not a file specifier: %s", spec.String())
	}
	path := spec.FilePath()
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &loader.LoadResponse{Specifier: spec, Content: content}, nil
}
