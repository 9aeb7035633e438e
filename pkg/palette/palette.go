// Package palette maintains a small in-process cache of parsed shape
// definitions keyed by resolved shape-directory path. Reloading the
// palette after files change is an explicit invalidate-and-reload
// operation, never ambient global state.
package palette

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/EJaworenko/Node-Weaver/pkg/codec"
	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Entry is one shape definition found in a directory.
type Entry struct {
	Name string
	Path string
	Doc  *shape.Document
}

// Cache caches directory listings of parsed shape definitions.
// Definition files that fail to parse are skipped with a warning so one
// bad file never hides the rest of a palette.
type Cache struct {
	mu   sync.Mutex
	dirs *lru.Cache[string, []Entry]
	log  zerolog.Logger
}

// defaultSize bounds the number of cached directories. Palettes come
// from at most a handful of roots, so the bound is generous.
const defaultSize = 16

// New creates a cache. Pass zerolog.Nop() to silence skip warnings.
func New(log zerolog.Logger) (*Cache, error) {
	dirs, err := lru.New[string, []Entry](defaultSize)
	if err != nil {
		return nil, err
	}
	return &Cache{dirs: dirs, log: log}, nil
}

// Load returns the palette for a shape directory, reading it from disk
// on first access and from cache afterwards.
func (c *Cache) Load(dir string) ([]Entry, error) {
	key := filepath.Clean(dir)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entries, ok := c.dirs.Get(key); ok {
		return entries, nil
	}
	entries, err := c.scan(key)
	if err != nil {
		return nil, err
	}
	c.dirs.Add(key, entries)
	return entries, nil
}

// Invalidate drops a directory from the cache.
func (c *Cache) Invalidate(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirs.Remove(filepath.Clean(dir))
}

// Reload drops the cached listing and reads the directory again.
func (c *Cache) Reload(dir string) ([]Entry, error) {
	c.Invalidate(dir)
	return c.Load(dir)
}

func (c *Cache) scan(dir string) ([]Entry, error) {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, shape.PathError{Path: dir, Reason: "cannot list shape directory", Err: err}
	}

	var entries []Entry
	for _, f := range listing {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, f.Name())
		doc, err := codec.ReadFile(path)
		if err != nil {
			c.log.Warn().Str("path", path).Err(err).Msg("skipping unreadable shape definition")
			continue
		}
		entries = append(entries, Entry{Name: doc.Name, Path: path, Doc: doc})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
