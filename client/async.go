package client

import (
	"context"
	"fmt"

	"github.com/mezonai/xoledger/exception"
	"github.com/mezonai/xoledger/types"
)

// Submit posts list and waits for batchID to leave PENDING in the
// background. The returned channel yields exactly one Result and is then
// closed.
func (c *RestClient) Submit(ctx context.Context, list *types.BatchList, batchID string) <-chan Result {
	out := make(chan Result, 1)

	exception.SafeGo("client.Submit", func() {
		defer close(out)
		defer exception.Recover("client.Submit", func(r interface{}) {
			select {
			case out <- Result{BatchID: batchID, Err: fmt.Errorf("client: submit panicked: %v", r)}:
			default:
			}
		})

		if err := c.SubmitBatches(ctx, list); err != nil {
			out <- Result{BatchID: batchID, Err: err}
			return
		}
		status, err := c.WaitForStatus(ctx, batchID)
		if err == nil {
			err = status.Err()
		}
		out <- Result{BatchID: batchID, Status: status, Err: err}
	})

	return out
}
