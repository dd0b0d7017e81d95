package store

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const fileKVExt = ".kv"

// FileKV stores each key as its own file under Dir.
type FileKV struct {
	Dir string
}

var _ KV = FileKV{}

func NewFileKV(dir string) (FileKV, error) {
	if strings.TrimSpace(dir) == "" {
		return FileKV{}, errors.New("file kv: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FileKV{}, err
	}
	return FileKV{Dir: dir}, nil
}

func (s FileKV) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("file kv: empty key")
	}
	return filepath.Join(s.Dir, url.PathEscape(key)+fileKVExt), nil
}

func (s FileKV) Get(key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (s FileKV) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, ".kv-*.tmp", path, value, 0o644)
}

func (s FileKV) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
