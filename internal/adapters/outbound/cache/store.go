package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is how long a fetched payload stays fresh.
const DefaultTTL = 30 * 24 * time.Hour

type entry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Store is a file-based cache of fetched JSON payloads, one file per key
// under <dir>/<namespace>/.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New creates a cache store rooted at dir. A non-positive ttl uses DefaultTTL.
func New(dir string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// DefaultDir is the per-user cache directory, falling back to a temp dir.
func DefaultDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "dockcheck")
	}
	return filepath.Join(os.TempDir(), "dockcheck-cache")
}

// Dir returns the cache root.
func (s *Store) Dir() string { return s.dir }

// Load reads a fresh payload. Returns (nil, nil) if no usable entry exists;
// expired or unreadable entries count as missing.
func (s *Store) Load(namespace, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(namespace, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no cache is not an error
		}
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, nil
	}
	if s.now().Sub(e.FetchedAt) > s.ttl {
		return nil, nil
	}
	return e.Payload, nil
}

// Save writes a payload, creating directories as needed. The payload must be
// valid JSON.
func (s *Store) Save(namespace, key string, payload []byte) error {
	path := s.path(namespace, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entry{FetchedAt: s.now(), Payload: payload}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Invalidate removes the entry for key.
func (s *Store) Invalidate(namespace, key string) error {
	if err := os.Remove(s.path(namespace, key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(namespace, key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, " ", "_")
	return filepath.Join(s.dir, namespace, key+".json")
}
