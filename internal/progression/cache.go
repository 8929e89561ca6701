package progression

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// cacheVersion is bumped when the blob schema changes so Load can apply
	// migrations in the future.
	cacheVersion = 1

	cacheFileName = "progress.json"
	appDirName    = "fieldpass"
)

// Cache is the serialized mirror of the full aggregate, written after every
// state transition and read once at startup.
type Cache struct {
	Version      int       `json:"version"`
	State        *State    `json:"state"`
	Missions     []Mission `json:"missions"`
	Leaderboard  []Entry   `json:"leaderboard"`
	SeasonEndsAt time.Time `json:"seasonEndsAt"`

	// Rotation markers: window start of the last daily/weekly mission reset.
	DailyResetAt  time.Time `json:"dailyResetAt,omitempty"`
	WeeklyResetAt time.Time `json:"weeklyResetAt,omitempty"`

	UpdatedAt time.Time `json:"lastUpdated"`
}

// CacheStore persists the aggregate blob. The engine only depends on this
// interface so tests can point it at a temp directory or an in-memory fake.
type CacheStore interface {
	// Load reads the cached aggregate. A missing cache returns (nil, nil);
	// a present-but-unreadable one returns an error.
	Load() (*Cache, error)
	Save(*Cache) error
}

// FileStore keeps the cache as a single JSON file under a state directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on the first Save. Pass an empty string to use the default XDG state path.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &FileStore{dir: dir}
}

// Path returns the full path to the cache file.
func (fs *FileStore) Path() string {
	return filepath.Join(fs.dir, cacheFileName)
}

// Load reads the cache from disk. A missing file is a cache miss, not an
// error.
func (fs *FileStore) Load() (*Cache, error) {
	data, err := os.ReadFile(fs.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing cache: %w", err)
	}
	if c.State != nil {
		c.State.initMaps()
	}
	return &c, nil
}

// Save writes the cache to disk using an atomic temp-file-then-rename
// pattern. The directory is created if it does not already exist.
func (fs *FileStore) Save(c *Cache) error {
	if err := os.MkdirAll(fs.dir, 0o700); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	c.Version = cacheVersion
	c.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(fs.dir, ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.Path()); err != nil {
		return fmt.Errorf("renaming cache file: %w", err)
	}
	committed = true

	return nil
}

// defaultStateDir returns ~/.local/state/fieldpass, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
