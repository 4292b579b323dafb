// Package transformcache provides an incremental-rebuild cache for
// cmd/modgraft: a transform run is skipped when neither the resolved
// config nor any already-written output file has changed since the
// last successful run.
//
// The cache is intentionally conservative: any check failing forces a
// full re-run of the transform pipeline. There is no partial
// invalidation — a single changed entry point can affect any module
// that imports it, and modgraft doesn't track a persistent reverse
// dependency index across runs.
package transformcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
)

// SchemaVersion is bumped when the cache's on-disk shape changes. A
// mismatch forces a full rebuild, so a modgraft binary upgrade never
// has to reason about reading an older cache's layout.
const SchemaVersion = 1

// Cache records what was true the last time a transform run completed
// without errors.
type Cache struct {
	// V is the schema version. Must match SchemaVersion or the cache is
	// treated as a miss.
	V int `json:"v"`

	// ConfigHash is the SHA-256 hex digest of the resolved
	// modgraft.config.{ts,json} file content.
	ConfigHash string `json:"configHash"`

	// Outputs lists the output-relative paths (transform.Output file
	// paths) that must still exist on disk, unchanged in content hash,
	// for the cache to be valid.
	Outputs map[string]string `json:"outputs"` // path -> sha256 hex
}

// Path returns the cache file's location inside outDir: deleting the
// output directory also deletes the cache, so a fresh `--out` always
// means a fresh build.
func Path(outDir string) string {
	return filepath.Join(outDir, ".modgraft-cache")
}

// Load reads and parses a cache file from disk. Returns nil if the file
// doesn't exist, is unreadable, or isn't valid JSON — callers treat nil
// as "cache miss" and run the transform pipeline in full.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache to disk atomically (write to a temp file, then
// rename), so a crash mid-write never leaves a half-written cache that
// Load would have to reject.
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("marshaling transform cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes the cache file. Errors are ignored: a missing file is
// already the desired state.
func Delete(path string) {
	os.Remove(path)
}

// IsValid reports whether a transform run can be skipped: the schema
// version, config hash, and every recorded output file's content hash
// must all still agree with currentConfigHash and the files on disk.
func (c *Cache) IsValid(currentConfigHash string) bool {
	if c == nil {
		return false
	}
	if c.V != SchemaVersion {
		return false
	}
	if c.ConfigHash != currentConfigHash {
		return false
	}
	for path, wantHash := range c.Outputs {
		if HashFile(path) != wantHash {
			return false
		}
	}
	return true
}

// HashFile computes the SHA-256 hex digest of a file's contents.
// Returns "" if the file doesn't exist or can't be read, which never
// equals a recorded hash and so always invalidates the cache entry.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashBytes computes the SHA-256 hex digest of in-memory content,
// for hashing a resolved config before it's known to be written anywhere.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// New creates a Cache recording the given config hash and output file
// hashes at the current schema version.
func New(configHash string, outputHashes map[string]string) *Cache {
	return &Cache{V: SchemaVersion, ConfigHash: configHash, Outputs: outputHashes}
}
