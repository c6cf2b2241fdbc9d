package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by Get for keys that have no stored record.
var ErrNotFound = errors.New("store: key not found")

// PlaylistsKey is the flat key holding the whole serialized playlist set.
const PlaylistsKey = "playlists"

const (
	recordsDir = "records"
	blobsDir   = "blobs"
)

// Persistence is the local key-value contract the library sits on. Records
// are opaque JSON payloads addressed by namespaced keys ("book-<id>",
// "audio-<id>", "playlists"); uploaded binaries live beside the records as
// blobs addressed by the same key.
type Persistence interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) []string
	WriteBlob(key, src string) (string, error)
	BlobPath(key string) string
	RemoveBlob(key string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          filepath.Join(basePath, recordsDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Get(_ context.Context, key string) ([]byte, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, nil
}

func (p *persistence) Set(_ context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("store: key required")
	}
	if err := p.d.Write(key, value); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Delete(_ context.Context, key string) error {
	if err := p.d.Erase(key); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteBlob copies the file at src into the blob area under key and returns
// the stored path. The blob is owned by the record with the same key and is
// removed with it.
func (p *persistence) WriteBlob(key, src string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("store: blob key required")
	}
	dir := filepath.Join(p.basePath, blobsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: ensure blob path: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("store: open source %s: %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(dir, key)
	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("store: create blob %s: %w", key, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("store: copy blob %s: %w", key, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("store: close blob %s: %w", key, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return "", fmt.Errorf("store: commit blob %s: %w", key, err)
	}
	return dst, nil
}

func (p *persistence) BlobPath(key string) string {
	return filepath.Join(p.basePath, blobsDir, key)
}

func (p *persistence) RemoveBlob(key string) error {
	if err := os.Remove(p.BlobPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: remove blob %s: %w", key, err)
	}
	return nil
}

// keyToPathTransform buckets keys by their namespace prefix: "book-<id>"
// lands in a book/ directory, prefixless keys (the playlists blob) stay at
// the root. Only the first dash separates; record ids may contain dashes.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) == 1 {
		return &diskv.PathKey{
			Path:     []string{},
			FileName: s,
		}
	}
	return &diskv.PathKey{
		Path:     []string{parts[0]},
		FileName: parts[1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
