package pattern

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/quill-lang/quill/fixture"
)

type fileMetadata struct {
	hash         string
	lastModified time.Time
}

type cacheEntry struct {
	metadata fileMetadata
	fx       *fixture.Fixture
}

// fixtureCache keeps parsed fixtures keyed by path so watch mode does not
// re-parse files that have not changed. Entries are validated by
// modification time first and content hash second, so a touch without an
// edit stays a hit.
type fixtureCache struct {
	mutex   sync.Mutex
	entries map[string]cacheEntry
}

func newFixtureCache() *fixtureCache {
	return &fixtureCache{entries: make(map[string]cacheEntry)}
}

func (c *fixtureCache) load(path string) (*fixture.Fixture, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("pattern: accessing %s: %w", path, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[path]
	if ok && entry.metadata.lastModified.Equal(info.ModTime()) {
		return entry.fx, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pattern: reading %s: %w", path, err)
	}
	hash, err := hashContent(data)
	if err != nil {
		return nil, err
	}
	if ok && entry.metadata.hash == hash {
		entry.metadata.lastModified = info.ModTime()
		c.entries[path] = entry
		return entry.fx, nil
	}

	fx, err := fixture.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("pattern: %s: %w", path, err)
	}
	if fx.Name == "" {
		fx.Name = path
	}
	c.entries[path] = cacheEntry{
		metadata: fileMetadata{hash: hash, lastModified: info.ModTime()},
		fx:       fx,
	}
	return fx, nil
}

func hashContent(data []byte) (string, error) {
	h := md5.New()
	if _, err := io.WriteString(h, string(data)); err != nil {
		return "", fmt.Errorf("pattern: hashing fixture: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
