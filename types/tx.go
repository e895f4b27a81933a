package types

import "google.golang.org/protobuf/encoding/protowire"

// TransactionHeader field numbers of the ledger's transaction.proto.
const (
	txHeaderBatcherPublicKey protowire.Number = 1
	txHeaderDependencies     protowire.Number = 2
	txHeaderFamilyName       protowire.Number = 3
	txHeaderFamilyVersion    protowire.Number = 4
	txHeaderInputs           protowire.Number = 5
	txHeaderNonce            protowire.Number = 6
	txHeaderOutputs          protowire.Number = 7
	txHeaderPayloadSha512    protowire.Number = 9
	txHeaderSignerPublicKey  protowire.Number = 10

	txHeader          protowire.Number = 1
	txHeaderSignature protowire.Number = 2
	txPayload         protowire.Number = 3
)

type TransactionHeader struct {
	BatcherPublicKey string
	Dependencies     []string
	FamilyName       string
	FamilyVersion    string
	Inputs           []string
	Nonce            string
	Outputs          []string
	PayloadSha512    string
	SignerPublicKey  string
}

// Marshal returns the canonical encoding of the header. The bytes depend only
// on field values, so they are what gets signed.
func (h *TransactionHeader) Marshal() ([]byte, error) {
	e := &encoder{}
	e.putString(txHeaderBatcherPublicKey, "batcher_public_key", h.BatcherPublicKey)
	e.putStrings(txHeaderDependencies, "dependencies", h.Dependencies)
	e.putString(txHeaderFamilyName, "family_name", h.FamilyName)
	e.putString(txHeaderFamilyVersion, "family_version", h.FamilyVersion)
	e.putStrings(txHeaderInputs, "inputs", h.Inputs)
	e.putString(txHeaderNonce, "nonce", h.Nonce)
	e.putStrings(txHeaderOutputs, "outputs", h.Outputs)
	e.putString(txHeaderPayloadSha512, "payload_sha512", h.PayloadSha512)
	e.putString(txHeaderSignerPublicKey, "signer_public_key", h.SignerPublicKey)
	return e.result()
}

func (h *TransactionHeader) Unmarshal(b []byte) error {
	fields, err := decodeFields(b)
	if err != nil {
		return err
	}

	*h = TransactionHeader{}
	for _, f := range fields {
		var s string
		switch f.num {
		case txHeaderBatcherPublicKey, txHeaderDependencies, txHeaderFamilyName, txHeaderFamilyVersion,
			txHeaderInputs, txHeaderNonce, txHeaderOutputs, txHeaderPayloadSha512, txHeaderSignerPublicKey:
			if s, err = f.asString(); err != nil {
				return err
			}
		default:
			continue
		}

		switch f.num {
		case txHeaderBatcherPublicKey:
			h.BatcherPublicKey = s
		case txHeaderDependencies:
			h.Dependencies = append(h.Dependencies, s)
		case txHeaderFamilyName:
			h.FamilyName = s
		case txHeaderFamilyVersion:
			h.FamilyVersion = s
		case txHeaderInputs:
			h.Inputs = append(h.Inputs, s)
		case txHeaderNonce:
			h.Nonce = s
		case txHeaderOutputs:
			h.Outputs = append(h.Outputs, s)
		case txHeaderPayloadSha512:
			h.PayloadSha512 = s
		case txHeaderSignerPublicKey:
			h.SignerPublicKey = s
		}
	}
	return nil
}

// Transaction carries the serialized header, the signature over exactly
// those bytes and the raw payload. The signature doubles as the ID.
type Transaction struct {
	Header          []byte
	HeaderSignature string
	Payload         []byte
}

func (t *Transaction) ID() string {
	return t.HeaderSignature
}

// DecodeHeader parses the serialized header.
func (t *Transaction) DecodeHeader() (*TransactionHeader, error) {
	h := &TransactionHeader{}
	if err := h.Unmarshal(t.Header); err != nil {
		return nil, err
	}
	return h, nil
}

func (t *Transaction) Marshal() ([]byte, error) {
	e := &encoder{}
	e.putBytes(txHeader, t.Header)
	e.putString(txHeaderSignature, "header_signature", t.HeaderSignature)
	e.putBytes(txPayload, t.Payload)
	return e.result()
}

func (t *Transaction) Unmarshal(b []byte) error {
	fields, err := decodeFields(b)
	if err != nil {
		return err
	}

	*t = Transaction{}
	for _, f := range fields {
		switch f.num {
		case txHeader:
			t.Header, err = f.asBytes()
		case txHeaderSignature:
			t.HeaderSignature, err = f.asString()
		case txPayload:
			t.Payload, err = f.asBytes()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
