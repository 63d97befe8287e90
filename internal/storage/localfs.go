package storage

import (
	"io"
	"os"
	"path/filepath"
)

// FileStore is where uploaded and processed avatar files live. The
// local implementation keeps them under a base directory; a bucket
// backed implementation can replace it without touching callers.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
	Path(name string) string
}

type localStore struct {
	dir string
}

func NewLocal(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(name string, r io.Reader) (string, error) {
	full := filepath.Join(s.dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", err
	}
	return name, nil
}

func (s *localStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}

func (s *localStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *localStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}
