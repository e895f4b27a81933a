package client

import (
	"encoding/base64"
	"fmt"

	xoerrors "github.com/mezonai/xoledger/errors"
)

// BatchStatusValue is the ledger's view of a submitted batch.
type BatchStatusValue string

const (
	StatusInvalid   BatchStatusValue = "INVALID"
	StatusCommitted BatchStatusValue = "COMMITTED"
	StatusPending   BatchStatusValue = "PENDING"
	StatusUnknown   BatchStatusValue = "UNKNOWN"
	// StatusUnhandled stands for any status string the client does not know.
	StatusUnhandled BatchStatusValue = "UNHANDLED"
)

func ParseBatchStatusValue(s string) BatchStatusValue {
	switch v := BatchStatusValue(s); v {
	case StatusInvalid, StatusCommitted, StatusPending, StatusUnknown:
		return v
	default:
		return StatusUnhandled
	}
}

type InvalidTransaction struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	ExtendedData string `json:"extended_data"`
}

// ExtendedDataBytes decodes the base64 extended data the ledger attaches to
// some rejections.
func (t InvalidTransaction) ExtendedDataBytes() ([]byte, error) {
	if t.ExtendedData == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(t.ExtendedData)
}

type BatchStatus struct {
	ID                  string               `json:"id"`
	Status              BatchStatusValue     `json:"-"`
	RawStatus           string               `json:"status"`
	InvalidTransactions []InvalidTransaction `json:"invalid_transactions"`
}

// Describe returns the message shown to a user for this status. For an
// invalid batch it is the first invalid transaction's message and id.
func (s *BatchStatus) Describe() string {
	switch s.Status {
	case StatusInvalid:
		return s.Err().Error()
	case StatusCommitted:
		return "Batch committed"
	case StatusPending:
		return "Batch pending"
	case StatusUnknown:
		return "Batch status unknown"
	default:
		return fmt.Sprintf("Unhandled status %q", s.RawStatus)
	}
}

// Err is non-nil only for INVALID batches.
func (s *BatchStatus) Err() error {
	if s.Status != StatusInvalid {
		return nil
	}
	if len(s.InvalidTransactions) == 0 {
		return &xoerrors.InvalidTransactionError{BatchID: s.ID, Message: "Batch rejected without transaction detail"}
	}
	first := s.InvalidTransactions[0]
	return &xoerrors.InvalidTransactionError{
		BatchID:       s.ID,
		TransactionID: first.ID,
		Message:       first.Message,
	}
}

// Final reports whether polling can stop.
func (s *BatchStatus) Final() bool {
	return s.Status != StatusPending
}

type StateEntry struct {
	Address string `json:"address"`
	Data    []byte `json:"-"`
}

type batchStatusResponse struct {
	Data []*BatchStatus `json:"data"`
	Link string         `json:"link"`
}

type stateListResponse struct {
	Data []struct {
		Address string `json:"address"`
		Data    string `json:"data"`
	} `json:"data"`
	Head   string `json:"head"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type stateResponse struct {
	Data string `json:"data"`
	Head string `json:"head"`
}

type submitResponse struct {
	Link string `json:"link"`
}

// Result is delivered once on the channel returned by Submit.
type Result struct {
	BatchID string
	Status  *BatchStatus
	Err     error
}
