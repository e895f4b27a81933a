package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"io"

	_ "github.com/lib/pq"
	"github.com/mezonai/xoledger/signing"
	"github.com/pkg/errors"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS xo_user_keys (
	name        TEXT PRIMARY KEY,
	public_key  TEXT NOT NULL,
	enc_privkey BYTEA NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PgStore keeps keys in postgres, encrypted with AES-GCM under a 32-byte
// master key. The row name is bound as associated data so ciphertexts
// cannot be swapped between rows.
type PgStore struct {
	db     *sql.DB
	aead   cipher.AEAD
	ownsDB bool
}

// OpenPgStore connects with dsn and creates the table when missing.
func OpenPgStore(dsn, base64MasterKey string) (*PgStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	store, err := NewPgStore(db, base64MasterKey)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.ownsDB = true
	if err := store.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewPgStore(db *sql.DB, base64MasterKey string) (*PgStore, error) {
	aead, err := newMasterAEAD(base64MasterKey)
	if err != nil {
		return nil, err
	}
	return &PgStore{db: db, aead: aead}, nil
}

func newMasterAEAD(base64MasterKey string) (cipher.AEAD, error) {
	mk, err := base64.StdEncoding.DecodeString(base64MasterKey)
	if err != nil {
		return nil, errors.Wrap(err, "master-key decode")
	}
	defer clear(mk)
	if len(mk) != 32 {
		return nil, errors.New("master-key must be 32 bytes")
	}
	block, err := aes.NewCipher(mk)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (p *PgStore) EnsureSchema() error {
	_, err := p.db.Exec(pgSchema)
	return errors.Wrap(err, "create xo_user_keys")
}

func (p *PgStore) encrypt(name string, plain []byte) ([]byte, error) {
	nonce := make([]byte, p.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return append(nonce, p.aead.Seal(nil, nonce, plain, []byte(name))...), nil
}

func (p *PgStore) decrypt(name string, ciphertext []byte) ([]byte, error) {
	ns := p.aead.NonceSize()
	if len(ciphertext) < ns {
		return nil, errors.Wrap(ErrCorrupt, "ciphertext too short")
	}
	plain, err := p.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], []byte(name))
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plain, nil
}

func (p *PgStore) Load(name string) (signing.PrivateKey, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var enc []byte
	err := p.db.QueryRow(`SELECT enc_privkey FROM xo_user_keys WHERE name=$1`, name).Scan(&enc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select key %q", name)
	}

	record, err := p.decrypt(name, enc)
	if err != nil {
		return nil, errors.Wrapf(err, "decrypt key %q", name)
	}
	defer clear(record)
	return decodeRecord(record)
}

func (p *PgStore) Save(name string, key signing.PrivateKey) error {
	if err := validateName(name); err != nil {
		return err
	}
	record, err := encodeRecord(key)
	if err != nil {
		return err
	}
	defer clear(record)

	ctx, err := signing.CreateContext(key.AlgorithmName())
	if err != nil {
		return err
	}
	pub, err := ctx.GetPublicKey(key)
	if err != nil {
		return err
	}

	enc, err := p.encrypt(name, record)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(
		`INSERT INTO xo_user_keys(name,public_key,enc_privkey) VALUES($1,$2,$3)
		 ON CONFLICT (name) DO UPDATE SET public_key=EXCLUDED.public_key, enc_privkey=EXCLUDED.enc_privkey, updated_at=now()`,
		name, pub.Hex(), enc,
	)
	return errors.Wrapf(err, "upsert key %q", name)
}

func (p *PgStore) Close() error {
	if !p.ownsDB {
		return nil
	}
	return p.db.Close()
}
