// Package assets loads textures and models from layered file systems.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/Faultbox/islet/internal/engine/model"
	"github.com/Faultbox/islet/internal/engine/texture"
)

// ErrNotFound is returned when no source holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Loader reads asset bytes from a stack of file systems.
// Sources are searched in reverse order (last added = highest priority).
type Loader struct {
	sources []fs.FS
	cache   *Cache
	mu      sync.RWMutex
}

// NewLoader creates a loader over the given sources.
func NewLoader(sources ...fs.FS) *Loader {
	return &Loader{
		sources: sources,
		cache:   NewCache(),
	}
}

// AddSource adds a file system on top of the existing ones.
func (l *Loader) AddSource(fsys fs.FS) {
	l.mu.Lock()
	l.sources = append(l.sources, fsys)
	l.mu.Unlock()
}

// AddDir adds a directory on disk as a source.
func (l *Loader) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("asset dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset dir %s: not a directory", dir)
	}
	l.AddSource(os.DirFS(dir))
	return nil
}

// Load returns the contents of name, a slash-separated path.
func (l *Loader) Load(name string) ([]byte, error) {
	name = path.Clean(name)
	if data, ok := l.cache.Get(name); ok {
		return data, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.sources) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(l.sources[i], name)
		if err == nil {
			l.cache.Set(name, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}

	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Image decodes name into RGBA pixels.
func (l *Loader) Image(name string) (*texture.Image, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	img, err := texture.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

// Model parses name as OBJ and unitizes it.
func (l *Loader) Model(name string) (*model.Mesh, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	m, err := model.ParseOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	m.Unitize()
	return m, nil
}

// Stats returns cache hit and miss counts.
func (l *Loader) Stats() (hits, misses int) {
	return l.cache.Stats()
}

// Close drops every source and the cache.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources = nil
	l.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
