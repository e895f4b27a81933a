package types

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers of the ledger's batch.proto.
const (
	batchHeaderSignerPublicKey protowire.Number = 1
	batchHeaderTransactionIDs  protowire.Number = 2

	batchHeader          protowire.Number = 1
	batchHeaderSignature protowire.Number = 2
	batchTransactions    protowire.Number = 3
	batchTrace           protowire.Number = 4

	batchListBatches protowire.Number = 1
)

// BatchHeader lists the IDs of the batch's transactions in execution order.
type BatchHeader struct {
	SignerPublicKey string
	TransactionIDs  []string
}

func (h *BatchHeader) Marshal() ([]byte, error) {
	e := &encoder{}
	e.putString(batchHeaderSignerPublicKey, "signer_public_key", h.SignerPublicKey)
	e.putStrings(batchHeaderTransactionIDs, "transaction_ids", h.TransactionIDs)
	return e.result()
}

func (h *BatchHeader) Unmarshal(b []byte) error {
	fields, err := decodeFields(b)
	if err != nil {
		return err
	}

	*h = BatchHeader{}
	for _, f := range fields {
		var s string
		switch f.num {
		case batchHeaderSignerPublicKey:
			s, err = f.asString()
			h.SignerPublicKey = s
		case batchHeaderTransactionIDs:
			s, err = f.asString()
			h.TransactionIDs = append(h.TransactionIDs, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type Batch struct {
	Header          []byte
	HeaderSignature string
	Transactions    []*Transaction
	Trace           bool
}

// ID is the batch header signature, the handle used to poll batch status.
func (b *Batch) ID() string {
	return b.HeaderSignature
}

func (b *Batch) DecodeHeader() (*BatchHeader, error) {
	h := &BatchHeader{}
	if err := h.Unmarshal(b.Header); err != nil {
		return nil, err
	}
	return h, nil
}

func (b *Batch) Marshal() ([]byte, error) {
	e := &encoder{}
	e.putBytes(batchHeader, b.Header)
	e.putString(batchHeaderSignature, "header_signature", b.HeaderSignature)
	for _, txn := range b.Transactions {
		raw, err := txn.Marshal()
		e.putMessage(batchTransactions, raw, err)
	}
	e.putBool(batchTrace, b.Trace)
	return e.result()
}

func (b *Batch) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	*b = Batch{}
	for _, f := range fields {
		switch f.num {
		case batchHeader:
			b.Header, err = f.asBytes()
		case batchHeaderSignature:
			b.HeaderSignature, err = f.asString()
		case batchTransactions:
			var raw []byte
			if raw, err = f.asBytes(); err == nil {
				txn := &Transaction{}
				if err = txn.Unmarshal(raw); err == nil {
					b.Transactions = append(b.Transactions, txn)
				}
			}
		case batchTrace:
			b.Trace, err = f.asBool()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// BatchList is the body posted to the ledger's /batches endpoint.
type BatchList struct {
	Batches []*Batch
}

func (l *BatchList) Marshal() ([]byte, error) {
	e := &encoder{}
	for _, b := range l.Batches {
		raw, err := b.Marshal()
		e.putMessage(batchListBatches, raw, err)
	}
	return e.result()
}

func (l *BatchList) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	*l = BatchList{}
	for _, f := range fields {
		if f.num != batchListBatches {
			continue
		}
		raw, err := f.asBytes()
		if err != nil {
			return err
		}
		b := &Batch{}
		if err := b.Unmarshal(raw); err != nil {
			return err
		}
		l.Batches = append(l.Batches, b)
	}
	return nil
}

// BatchIDs returns the IDs of the listed batches in order.
func (l *BatchList) BatchIDs() []string {
	ids := make([]string, 0, len(l.Batches))
	for _, b := range l.Batches {
		ids = append(ids, b.ID())
	}
	return ids
}
