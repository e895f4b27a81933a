package keystore

import (
	"time"

	"github.com/mezonai/xoledger/signing"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var keysBucket = []byte("keys")

// BoltStore keeps all keys in one bbolt database file, bucket "keys".
type BoltStore struct {
	db     *bbolt.DB
	sealer *Sealer
}

func NewBoltStore(path string, sealer *Sealer) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt key store %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(keysBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create keys bucket")
	}
	if sealer == nil {
		sealer = NewSealer("")
	}
	return &BoltStore{db: db, sealer: sealer}, nil
}

func (b *BoltStore) Load(name string) (signing.PrivateKey, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(keysBucket).Get([]byte(name))
		if v == nil {
			return ErrKeyNotFound
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	defer clear(data)

	record, err := b.sealer.Open(data)
	if err != nil {
		return nil, errors.Wrapf(err, "open key %q", name)
	}
	defer clear(record)
	return decodeRecord(record)
}

func (b *BoltStore) Save(name string, key signing.PrivateKey) error {
	if err := validateName(name); err != nil {
		return err
	}
	record, err := encodeRecord(key)
	if err != nil {
		return err
	}
	defer clear(record)
	data, err := b.sealer.Seal(record)
	if err != nil {
		return errors.Wrapf(err, "seal key %q", name)
	}

	err = b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(keysBucket).Put([]byte(name), data)
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return errors.Wrapf(err, "put key %q", name)
}

// Names lists stored key names in byte order.
func (b *BoltStore) Names() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(keysBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
