package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"matubridge/internal/maputil"
)

// Store is the narrow interface onto the host editor's configuration
// storage: one object-valued entry, read and replaced whole.
type Store interface {
	// Get returns the current value of the entry, or an empty map when the
	// entry (or the backing document) is absent.
	Get(key string) (map[string]any, error)

	// Update atomically replaces the entry's value.
	Update(key string, value map[string]any) error
}

// PersistError reports a failed configuration write. The write is atomic at
// file granularity: on failure the previous document is intact.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting settings: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// DefaultSettingsPath returns the platform default location of the editor's
// user settings file.
func DefaultSettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(root, "Code", "User", "settings.json"), nil
}

// FileStore implements Store on a JSON settings file. The document is
// externally owned: only the addressed top-level key is rewritten, every
// other byte of the user's file is left as found.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the settings file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing settings file path.
func (s *FileStore) Path() string { return s.path }

// Get reads the object stored under key. A missing file or missing key
// yields an empty map, not an error.
func (s *FileStore) Get(key string) (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}

		return nil, fmt.Errorf("reading settings file %q: %w", s.path, err)
	}

	res := gjson.GetBytes(data, escapeKey(key))
	if !res.Exists() {
		return map[string]any{}, nil
	}

	obj := map[string]any{}
	if err := json.Unmarshal([]byte(res.Raw), &obj); err != nil {
		return nil, fmt.Errorf("settings key %q is not an object: %w", key, err)
	}

	return obj, nil
}

// Update rewrites the single entry under key and persists the document via
// temp-file rename, so a crash mid-write never corrupts the settings file.
func (s *FileStore) Update(key string, value map[string]any) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return &PersistError{Err: err}
		}

		data = []byte("{}\n")
	}

	next, err := sjson.SetBytes(data, escapeKey(key), value)
	if err != nil {
		return &PersistError{Err: err}
	}

	if err := writeFileAtomic(s.path, next); err != nil {
		return &PersistError{Err: err}
	}

	return nil
}

// writeFileAtomic writes data to path via a temp file in the same directory
// followed by a rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".matubridge-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}

// escapeKey escapes gjson path syntax so a dotted settings key such as
// "workbench.colorCustomizations" addresses one literal top-level key.
func escapeKey(key string) string {
	r := strings.NewReplacer(
		".", `\.`,
		"*", `\*`,
		"?", `\?`,
		"|", `\|`,
		"#", `\#`,
		"@", `\@`,
	)

	return r.Replace(key)
}

// MemStore is an in-memory Store used by tests and dry runs. Values are
// copied on the way in and out so callers never alias the stored object.
// Safe for concurrent use.
type MemStore struct {
	// FailWrites makes every Update fail with a PersistError.
	FailWrites bool

	mu      sync.Mutex
	entries map[string]map[string]any
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]map[string]any)}
}

// Get returns a copy of the entry, or an empty map when absent.
func (s *MemStore) Get(key string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.entries[key]
	if !ok {
		return map[string]any{}, nil
	}

	return maputil.DeepCopyMap(v), nil
}

// Update stores a copy of value under key.
func (s *MemStore) Update(key string, value map[string]any) error {
	if s.FailWrites {
		return &PersistError{Err: errors.New("store unavailable")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = maputil.DeepCopyMap(value)

	return nil
}
