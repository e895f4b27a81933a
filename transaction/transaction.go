package transaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mezonai/xoledger/hashing"
	"github.com/mezonai/xoledger/signing"
	"github.com/mezonai/xoledger/types"
)

// PayloadDelimiter joins resource name, action and argument. Transaction
// processors split on it, so the field order is part of the wire format.
const PayloadDelimiter = ","

var (
	ErrInvalidSignature = errors.New("transaction: header signature does not verify")
	ErrPayloadMismatch  = errors.New("transaction: payload digest mismatch")
)

// Family identifies the transaction processor that handles a transaction.
// Its name is also the address namespace.
type Family struct {
	Name    string
	Version string
}

type Option func(*Builder)

// WithNonceSource replaces the random UUID nonce. Nonces must never repeat.
func WithNonceSource(next func() string) Option {
	return func(b *Builder) {
		b.nonce = next
	}
}

// Builder turns application actions into signed transactions for one family.
type Builder struct {
	signer *signing.Signer
	family Family
	nonce  func() string
}

func NewBuilder(signer *signing.Signer, family Family, opts ...Option) *Builder {
	b := &Builder{
		signer: signer,
		family: family,
		nonce:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Family() Family {
	return b.family
}

// Payload is the canonical payload for an action on a resource.
func Payload(resourceName, action, arg string) string {
	return strings.Join([]string{resourceName, action, arg}, PayloadDelimiter)
}

// Build creates a transaction reading and writing the resource's address.
// Either a fully signed transaction or an error is returned.
func (b *Builder) Build(resourceName, action, arg string) (*types.Transaction, error) {
	payload := Payload(resourceName, action, arg)
	address := hashing.MakeAddress(b.family.Name, resourceName)

	pub, err := b.signer.GetPublicKey()
	if err != nil {
		return nil, fmt.Errorf("get signer public key: %w", err)
	}

	header := &types.TransactionHeader{
		BatcherPublicKey: pub.Hex(),
		FamilyName:       b.family.Name,
		FamilyVersion:    b.family.Version,
		Inputs:           []string{address},
		Nonce:            b.nonce(),
		Outputs:          []string{address},
		PayloadSha512:    hashing.Sha512Hex(payload),
		SignerPublicKey:  pub.Hex(),
	}

	headerBytes, err := header.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize transaction header: %w", err)
	}

	signature, err := b.signer.Sign(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("sign transaction header: %w", err)
	}
	if signature == "" {
		return nil, fmt.Errorf("sign transaction header: %w", signing.ErrInvalidSignature)
	}

	return &types.Transaction{
		Header:          headerBytes,
		HeaderSignature: signature,
		Payload:         []byte(payload),
	}, nil
}

// Verify checks that txn's header signature verifies under the header's
// signer key and that the header commits to the payload.
func Verify(ctx signing.Context, txn *types.Transaction) error {
	header, err := txn.DecodeHeader()
	if err != nil {
		return fmt.Errorf("decode transaction header: %w", err)
	}

	pub, err := signing.ParsePublicKey(ctx.AlgorithmName(), header.SignerPublicKey)
	if err != nil {
		return err
	}

	ok, err := ctx.Verify(txn.HeaderSignature, txn.Header, pub)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidSignature
	}

	if hashing.Sha512HexBytes(txn.Payload) != header.PayloadSha512 {
		return ErrPayloadMismatch
	}
	return nil
}
