package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/mezonai/xoledger/jsonx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitErrorRendersJSON(t *testing.T) {
	err := NewSubmitError(ErrCodeSubmitRejected, ErrMsgSubmitRejected, 400, "bad protobuf")

	var decoded SubmitError
	require.NoError(t, jsonx.Unmarshal([]byte(err.Error()), &decoded))
	assert.Equal(t, ErrCodeSubmitRejected, decoded.Code)
	assert.Equal(t, ErrMsgSubmitRejected, decoded.Message)
	assert.Equal(t, 400, decoded.StatusCode)
	assert.Equal(t, "bad protobuf", decoded.Detail)

	var target *SubmitError
	require.True(t, stderrors.As(fmt.Errorf("submit: %w", err), &target))
	assert.Equal(t, 400, target.StatusCode)
}

func TestInvalidTransactionErrorKeepsMessage(t *testing.T) {
	err := &InvalidTransactionError{BatchID: "b1", TransactionID: "t1", Message: "Game already exists"}
	assert.Equal(t, "Game already exists (Invalid Transaction ID: t1)", err.Error())
}
