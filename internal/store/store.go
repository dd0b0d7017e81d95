package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	sqliteFileName = "microtask.sqlite"
	fileKVDirName  = "kv"
)

// KV is the blob store the app state persists into. Implementations own
// atomicity and crash safety; callers treat a write as all-or-nothing.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendSQLite:
		return BackendSQLite, nil
	case BackendFile:
		return BackendFile, nil
	case BackendMemory:
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unknown backend: %s (expected sqlite|file|memory)", s)
	}
}

// Store locates persisted data under a single directory.
type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) fileKVDir() string {
	return filepath.Join(s.Dir, fileKVDirName)
}

// Open returns the KV for backend along with a close func the caller must run.
func (s Store) Open(ctx context.Context, backend Backend) (KV, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case BackendMemory:
		return NewMemoryKV(), noop, nil
	case BackendFile:
		if err := s.Ensure(); err != nil {
			return nil, nil, err
		}
		kv, err := NewFileKV(s.fileKVDir())
		if err != nil {
			return nil, nil, err
		}
		return kv, noop, nil
	case "", BackendSQLite:
		if err := s.Ensure(); err != nil {
			return nil, nil, err
		}
		kv, err := OpenSQLiteKV(ctx, s.sqlitePath())
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return kv, kv.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend: %s", backend)
	}
}
