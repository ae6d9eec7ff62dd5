package authtoken

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage persists the current token durably. Implementations must be safe
// for concurrent use. Load returns "" for an absent token.
type Storage interface {
	Load() (string, error)
	Save(token string) error
	Remove() error
}

// FileStorage keeps the token in a 0600 file named after StorageKey inside
// the operator's state directory. An empty directory disables persistence,
// which downgrades every call to a no-op (non-durable context).
type FileStorage struct {
	path string
}

func NewFileStorage(stateDir string) *FileStorage {
	if stateDir == "" {
		return &FileStorage{}
	}
	return &FileStorage{path: filepath.Join(stateDir, StorageKey)}
}

func (f *FileStorage) Load() (string, error) {
	if f.path == "" {
		return "", nil
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *FileStorage) Save(token string) error {
	if f.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

func (f *FileStorage) Remove() error {
	if f.path == "" {
		return nil
	}
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemStorage is an in-memory Storage for tests and non-durable contexts.
type MemStorage struct {
	mu    sync.Mutex
	token string
	has   bool
}

func (m *MemStorage) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.has {
		return "", nil
	}
	return m.token, nil
}

func (m *MemStorage) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.has = true
	return nil
}

func (m *MemStorage) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.has = false
	return nil
}

// Has reports whether a token is currently persisted. Test helper.
func (m *MemStorage) Has() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.has
}
