package batch

import (
	"errors"
	"fmt"

	"github.com/mezonai/xoledger/signing"
	"github.com/mezonai/xoledger/transaction"
	"github.com/mezonai/xoledger/types"
)

var (
	ErrEmptyBatch          = errors.New("batch: no transactions")
	ErrUnsignedTransaction = errors.New("batch: transaction has no header signature")
	ErrInvalidSignature    = errors.New("batch: header signature does not verify")
	ErrTransactionMismatch = errors.New("batch: header transaction ids do not match transactions")
	ErrBatcherMismatch     = errors.New("batch: transaction batcher key differs from batch signer")
)

// Builder signs batches with a single key. The same key is expected to have
// signed the transactions as their batcher.
type Builder struct {
	signer *signing.Signer
}

func NewBuilder(signer *signing.Signer) *Builder {
	return &Builder{signer: signer}
}

// BuildBatch wraps txns, in the given order, into one signed batch. The
// order of the header's transaction ids is the order the ledger executes
// them in.
func (b *Builder) BuildBatch(txns []*types.Transaction) (*types.Batch, error) {
	if len(txns) == 0 {
		return nil, ErrEmptyBatch
	}

	ids := make([]string, len(txns))
	for i, txn := range txns {
		if txn == nil || txn.HeaderSignature == "" {
			return nil, fmt.Errorf("%w: index %d", ErrUnsignedTransaction, i)
		}
		ids[i] = txn.HeaderSignature
	}

	pub, err := b.signer.GetPublicKey()
	if err != nil {
		return nil, fmt.Errorf("get signer public key: %w", err)
	}

	header := &types.BatchHeader{
		SignerPublicKey: pub.Hex(),
		TransactionIDs:  ids,
	}
	headerBytes, err := header.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize batch header: %w", err)
	}

	signature, err := b.signer.Sign(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("sign batch header: %w", err)
	}
	if signature == "" {
		return nil, fmt.Errorf("sign batch header: %w", signing.ErrInvalidSignature)
	}

	return &types.Batch{
		Header:          headerBytes,
		HeaderSignature: signature,
		Transactions:    append([]*types.Transaction(nil), txns...),
	}, nil
}

// Build returns a single-batch list ready for submission together with the
// batch ID used to poll its status.
func (b *Builder) Build(txns []*types.Transaction) (*types.BatchList, string, error) {
	batch, err := b.BuildBatch(txns)
	if err != nil {
		return nil, "", err
	}
	return &types.BatchList{Batches: []*types.Batch{batch}}, batch.ID(), nil
}

// Verify checks the batch signature, that the header lists exactly the
// batch's transactions in order, and every transaction.
func Verify(ctx signing.Context, batch *types.Batch) error {
	header, err := batch.DecodeHeader()
	if err != nil {
		return fmt.Errorf("decode batch header: %w", err)
	}

	pub, err := signing.ParsePublicKey(ctx.AlgorithmName(), header.SignerPublicKey)
	if err != nil {
		return err
	}
	ok, err := ctx.Verify(batch.HeaderSignature, batch.Header, pub)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidSignature
	}

	if len(header.TransactionIDs) != len(batch.Transactions) {
		return fmt.Errorf("%w: header lists %d, batch holds %d", ErrTransactionMismatch, len(header.TransactionIDs), len(batch.Transactions))
	}
	for i, txn := range batch.Transactions {
		if header.TransactionIDs[i] != txn.HeaderSignature {
			return fmt.Errorf("%w: index %d", ErrTransactionMismatch, i)
		}
		if err := transaction.Verify(ctx, txn); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		txnHeader, err := txn.DecodeHeader()
		if err != nil {
			return err
		}
		if txnHeader.BatcherPublicKey != header.SignerPublicKey {
			return fmt.Errorf("%w: index %d", ErrBatcherMismatch, i)
		}
	}
	return nil
}

// VerifyList verifies every batch of list. An empty list is rejected.
func VerifyList(ctx signing.Context, list *types.BatchList) error {
	if list == nil || len(list.Batches) == 0 {
		return ErrEmptyBatch
	}
	for i, b := range list.Batches {
		if err := Verify(ctx, b); err != nil {
			return fmt.Errorf("batch %d: %w", i, err)
		}
	}
	return nil
}
