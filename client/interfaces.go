package client

import (
	"context"

	"github.com/mezonai/xoledger/types"
)

// LedgerClient is the submission boundary used by application handlers.
type LedgerClient interface {
	SubmitBatches(ctx context.Context, list *types.BatchList) error
	GetBatchStatus(ctx context.Context, batchID string, wait int) (*BatchStatus, error)
	WaitForStatus(ctx context.Context, batchID string) (*BatchStatus, error)
	GetState(ctx context.Context, addressPrefix string) ([]StateEntry, error)
	GetStateEntry(ctx context.Context, address string) ([]byte, error)
	Submit(ctx context.Context, list *types.BatchList, batchID string) <-chan Result
}
