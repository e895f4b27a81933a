package errors

import (
	"fmt"

	"github.com/mezonai/xoledger/jsonx"
)

// ClientErrorCode represents standardized error codes for ledger REST calls
type ClientErrorCode string

const (
	ErrCodeInternal           ClientErrorCode = "internal_error"
	ErrCodeSubmitRejected     ClientErrorCode = "submit_rejected"
	ErrCodeUnexpectedStatus   ClientErrorCode = "unexpected_status"
	ErrCodeInvalidResponse    ClientErrorCode = "invalid_response"
	ErrCodeInvalidTransaction ClientErrorCode = "invalid_transaction"
	ErrCodeRateLimited        ClientErrorCode = "rate_limited"
)

// Error message constants - user-friendly and concise
const (
	ErrMsgSubmitRejected   = "Batch submission was not accepted"
	ErrMsgUnexpectedStatus = "Ledger returned an unexpected response"
	ErrMsgInvalidResponse  = "Ledger response could not be read"
	ErrMsgRateLimited      = "Too many requests, please slow down"
	ErrMsgInternal         = "Client error, please try again"
)

// SubmitError is returned when the ledger does not answer a batch
// submission with 202 Accepted.
type SubmitError struct {
	Code       ClientErrorCode `json:"code"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

// Error implements the error interface
func (e *SubmitError) Error() string {
	out, _ := jsonx.Marshal(SubmitError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Detail:     e.Detail,
	})
	return string(out)
}

// NewSubmitError creates a SubmitError for an HTTP status and response detail.
func NewSubmitError(code ClientErrorCode, message string, statusCode int, detail string) error {
	return &SubmitError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Detail:     detail,
	}
}

// InvalidTransactionError carries the first invalid transaction reported in
// a batch status, with the ledger's message unchanged.
type InvalidTransactionError struct {
	BatchID       string `json:"batch_id"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("%s (Invalid Transaction ID: %s)", e.Message, e.TransactionID)
}
