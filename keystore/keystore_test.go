package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mezonai/xoledger/config"
	"github.com/mezonai/xoledger/internal/testutil"
	"github.com/mezonai/xoledger/signing"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// argon2 with the production parameters takes ~100ms per call
func newTestSealer(passphrase string) *Sealer {
	s := NewSealer(passphrase)
	s.params = kdfParams{time: 1, memoryKB: 64, threads: 1}
	return s
}

func pinnedKey(t *testing.T) signing.PrivateKey {
	t.Helper()
	key, err := signing.Secp256k1PrivateKeyFromHex(testutil.PrivateKeyHex)
	require.NoError(t, err)
	return key
}

type storeFactory func(t *testing.T) KeyStore

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) KeyStore {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) KeyStore {
			s, err := NewFileStore(t.TempDir(), nil)
			require.NoError(t, err)
			return s
		},
		"file-sealed": func(t *testing.T) KeyStore {
			s, err := NewFileStore(t.TempDir(), newTestSealer("correct horse"))
			require.NoError(t, err)
			return s
		},
		"bolt": func(t *testing.T) KeyStore {
			s, err := NewBoltStore(filepath.Join(t.TempDir(), "keys.db"), nil)
			require.NoError(t, err)
			return s
		},
		"bolt-sealed": func(t *testing.T) KeyStore {
			s, err := NewBoltStore(filepath.Join(t.TempDir(), "keys.db"), newTestSealer("correct horse"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoresRoundTrip(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			_, err := store.Load("alice")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			key := pinnedKey(t)
			require.NoError(t, store.Save("alice", key))

			loaded, err := store.Load("alice")
			require.NoError(t, err)
			assert.Equal(t, key.Hex(), loaded.Hex())
			assert.Equal(t, signing.Secp256k1AlgorithmName, loaded.AlgorithmName())

			other, err := signing.Secp256k1PrivateKeyFromHex(testutil.OtherPrivateKeyHex)
			require.NoError(t, err)
			require.NoError(t, store.Save("alice", other))
			loaded, err = store.Load("alice")
			require.NoError(t, err)
			assert.Equal(t, testutil.OtherPrivateKeyHex, loaded.Hex())
		})
	}
}

func TestStoresRejectBadNames(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			for _, bad := range []string{"", "../escape", ".hidden", "a/b", strings.Repeat("x", 200)} {
				assert.ErrorIs(t, store.Save(bad, pinnedKey(t)), ErrInvalidName, bad)
				_, err := store.Load(bad)
				assert.ErrorIs(t, err, ErrInvalidName, bad)
			}
		})
	}
}

func TestGetOrCreate(t *testing.T) {
	ctx := signing.NewSecp256k1Context()
	store := NewMemoryStore()

	first, created, err := GetOrCreate(store, ctx, "player")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := GetOrCreate(store, ctx, "player")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Hex(), second.Hex())

	third, created, err := GetOrCreate(store, ctx, "other-player")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.Hex(), third.Hex())
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (f failingStore) Load(string) (signing.PrivateKey, error) {
	return nil, f.loadErr
}

func (f failingStore) Save(string, signing.PrivateKey) error {
	return f.saveErr
}

func (f failingStore) Close() error {
	return nil
}

func TestGetOrCreatePropagatesErrors(t *testing.T) {
	ctx := signing.NewSecp256k1Context()

	_, _, err := GetOrCreate(failingStore{loadErr: ErrAuthFailed}, ctx, "player")
	assert.ErrorIs(t, err, ErrAuthFailed)

	diskFull := errors.New("disk full")
	key, created, err := GetOrCreate(failingStore{loadErr: ErrKeyNotFound, saveErr: diskFull}, ctx, "player")
	assert.ErrorIs(t, err, diskFull)
	assert.Nil(t, key)
	assert.False(t, created)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := signing.NewSecp256k1Context()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := GetOrCreate(store, ctx, "shared")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err := store.Load("shared")
	assert.NoError(t, err)
}

func TestClosedStores(t *testing.T) {
	mem := NewMemoryStore()
	require.NoError(t, mem.Save("alice", pinnedKey(t)))
	require.NoError(t, mem.Close())
	_, err := mem.Load("alice")
	assert.ErrorIs(t, err, ErrClosed)

	bolt, err := NewBoltStore(filepath.Join(t.TempDir(), "keys.db"), nil)
	require.NoError(t, err)
	require.NoError(t, bolt.Close())
	_, err = bolt.Load("alice")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, bolt.Save("alice", pinnedKey(t)), ErrClosed)
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save("alice", pinnedKey(t)))

	path := filepath.Join(dir, "alice.priv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "secp256k1:"+testutil.PrivateKeyHex, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreSealedOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, newTestSealer("correct horse"))
	require.NoError(t, err)
	require.NoError(t, store.Save("alice", pinnedKey(t)))

	data, err := os.ReadFile(filepath.Join(dir, "alice.priv"))
	require.NoError(t, err)
	assert.True(t, IsSealed(data))
	assert.NotContains(t, string(data), testutil.PrivateKeyHex)

	wrong, err := NewFileStore(dir, newTestSealer("battery staple"))
	require.NoError(t, err)
	_, err = wrong.Load("alice")
	assert.ErrorIs(t, err, ErrAuthFailed)

	unsealed, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	_, err = unsealed.Load("alice")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.priv"), []byte("not a key"), 0o600))

	store, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	_, err = store.Load("alice")
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.priv"), []byte("ed25519:00"), 0o600))
	_, err = store.Load("bob")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBoltStoreNames(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "keys.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("bob", pinnedKey(t)))
	require.NoError(t, store.Save("alice", pinnedKey(t)))

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestNewKeyStore(t *testing.T) {
	store, err := NewKeyStore(config.KeyStoreConfig{Type: config.KeyStoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewKeyStore(config.KeyStoreConfig{Type: config.KeyStoreFile, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = NewKeyStore(config.KeyStoreConfig{Type: config.KeyStoreBolt, Path: filepath.Join(t.TempDir(), "k.db")})
	require.NoError(t, err)
	assert.IsType(t, &BoltStore{}, store)
	require.NoError(t, store.Close())

	store, err = NewKeyStore(config.KeyStoreConfig{Type: config.KeyStorePostgres, DSN: "postgres://localhost/xo", MasterKey: "short"})
	assert.Error(t, err)
	assert.Nil(t, store)

	_, err = NewKeyStore(config.KeyStoreConfig{Type: "vault"})
	assert.ErrorContains(t, err, "unknown type")
}
