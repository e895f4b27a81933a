package keystore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/mezonai/xoledger/signing"
	"github.com/pkg/errors"
)

const keyFileExt = ".priv"

// FileStore keeps one file per key under dir, readable by the owner only.
type FileStore struct {
	dir    string
	sealer *Sealer
	mu     sync.Mutex
}

func NewFileStore(dir string, sealer *Sealer) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create key directory %s", dir)
	}
	if sealer == nil {
		sealer = NewSealer("")
	}
	return &FileStore{dir: dir, sealer: sealer}, nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+keyFileExt)
}

func (f *FileStore) Load(name string) (signing.PrivateKey, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read key %q", name)
	}
	defer clear(data)

	record, err := f.sealer.Open(data)
	if err != nil {
		return nil, errors.Wrapf(err, "open key %q", name)
	}
	defer clear(record)
	return decodeRecord(record)
}

// Save writes to a temporary file and renames it over the old key so a
// crash never leaves a truncated key behind.
func (f *FileStore) Save(name string, key signing.PrivateKey) error {
	if err := validateName(name); err != nil {
		return err
	}
	record, err := encodeRecord(key)
	if err != nil {
		return err
	}
	defer clear(record)
	data, err := f.sealer.Seal(record)
	if err != nil {
		return errors.Wrapf(err, "seal key %q", name)
	}
	defer clear(data)

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp key file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod temp key file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp key file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp key file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp key file")
	}
	return errors.Wrapf(os.Rename(tmpName, f.path(name)), "install key %q", name)
}

func (f *FileStore) Close() error {
	return nil
}
