package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mezonai/xoledger/batch"
	"github.com/mezonai/xoledger/config"
	xoerrors "github.com/mezonai/xoledger/errors"
	"github.com/mezonai/xoledger/internal/testutil"
	"github.com/mezonai/xoledger/signing"
	"github.com/mezonai/xoledger/transaction"
	"github.com/mezonai/xoledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server) *RestClient {
	t.Helper()
	c, err := NewClient(Config{
		Endpoint:     srv.URL,
		Timeout:      5 * time.Second,
		PollInterval: time.Millisecond,
		PollTimeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func pinnedBatchList(t *testing.T) (*types.BatchList, string) {
	t.Helper()
	key, err := signing.Secp256k1PrivateKeyFromHex(testutil.PrivateKeyHex)
	require.NoError(t, err)
	signer := signing.NewSigner(signing.NewSecp256k1Context(), key)

	txn, err := transaction.NewBuilder(signer, transaction.Family{Name: testutil.FamilyName, Version: testutil.FamilyVersion},
		transaction.WithNonceSource(func() string { return testutil.FirstNonce })).Build("gameA", "create", "")
	require.NoError(t, err)

	list, id, err := batch.NewBuilder(signer).Build([]*types.Transaction{txn})
	require.NoError(t, err)
	return list, id
}

func statusBody(id, status string, invalid ...InvalidTransaction) string {
	body, _ := jsonMarshal(map[string]interface{}{
		"data": []map[string]interface{}{{
			"id":                   id,
			"status":               status,
			"invalid_transactions": invalid,
		}},
		"link": "http://ledger/batch_statuses?id=" + id,
	})
	return body
}

func TestNewClientValidatesEndpoint(t *testing.T) {
	_, err := NewClient(Config{Endpoint: "ftp://ledger"})
	assert.Error(t, err)

	c, err := NewClient(ConfigFromSettings(config.Default().Client))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultURL, c.Endpoint())
	assert.Nil(t, c.limiter)
}

func TestSubmitBatches(t *testing.T) {
	list, _ := pinnedBatchList(t)
	want, err := list.Marshal()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/batches", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, want, body)
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"link":"http://ledger/batch_statuses?id=x"}`)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(t, srv).SubmitBatches(context.Background(), list))
}

func TestSubmitBatchesRejected(t *testing.T) {
	list, _ := pinnedBatchList(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":35,"title":"Submitted Batches Invalid","message":"The submitted BatchList was rejected"}}`)
	}))
	defer srv.Close()

	err := newTestClient(t, srv).SubmitBatches(context.Background(), list)
	var submitErr *xoerrors.SubmitError
	require.True(t, errors.As(err, &submitErr))
	assert.Equal(t, xoerrors.ErrCodeSubmitRejected, submitErr.Code)
	assert.Equal(t, http.StatusBadRequest, submitErr.StatusCode)
	assert.Equal(t, "The submitted BatchList was rejected", submitErr.Detail)
}

func TestSubmitBatchesTreatsOKAsFailure(t *testing.T) {
	list, _ := pinnedBatchList(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(t, srv).SubmitBatches(context.Background(), list)
	var submitErr *xoerrors.SubmitError
	require.True(t, errors.As(err, &submitErr))
	assert.Equal(t, http.StatusOK, submitErr.StatusCode)
}

func TestSubmitBatchesRejectsEmptyList(t *testing.T) {
	c, err := NewClient(Config{Endpoint: "http://127.0.0.1:1"})
	require.NoError(t, err)

	var submitErr *xoerrors.SubmitError
	assert.True(t, errors.As(c.SubmitBatches(context.Background(), &types.BatchList{}), &submitErr))
}

func TestGetBatchStatusMapsStatuses(t *testing.T) {
	cases := map[string]BatchStatusValue{
		"COMMITTED": StatusCommitted,
		"PENDING":   StatusPending,
		"UNKNOWN":   StatusUnknown,
		"INVALID":   StatusInvalid,
		"ARCHIVED":  StatusUnhandled,
		"":          StatusUnhandled,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/batch_statuses", r.URL.Path)
				assert.Equal(t, "b1", r.URL.Query().Get("id"))
				assert.Equal(t, "3", r.URL.Query().Get("wait"))
				fmt.Fprint(w, statusBody("b1", raw))
			}))
			defer srv.Close()

			bs, err := newTestClient(t, srv).GetBatchStatus(context.Background(), "b1", 3)
			require.NoError(t, err)
			assert.Equal(t, "b1", bs.ID)
			assert.Equal(t, want, bs.Status)
		})
	}
}

func TestInvalidStatusDescribesFirstTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statusBody("b1", "INVALID",
			InvalidTransaction{ID: "t1", Message: "Invalid action: Game already exists", ExtendedData: base64.StdEncoding.EncodeToString([]byte("x"))},
			InvalidTransaction{ID: "t2", Message: "second"},
		))
	}))
	defer srv.Close()

	bs, err := newTestClient(t, srv).GetBatchStatus(context.Background(), "b1", 0)
	require.NoError(t, err)
	assert.Equal(t, "Invalid action: Game already exists (Invalid Transaction ID: t1)", bs.Describe())

	var invalid *xoerrors.InvalidTransactionError
	require.True(t, errors.As(bs.Err(), &invalid))
	assert.Equal(t, "t1", invalid.TransactionID)
	assert.Equal(t, "Invalid action: Game already exists", invalid.Message)
	assert.Equal(t, "b1", invalid.BatchID)

	extended, err := bs.InvalidTransactions[0].ExtendedDataBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), extended)
}

func TestDescribeOtherStatuses(t *testing.T) {
	assert.Equal(t, "Batch committed", (&BatchStatus{Status: StatusCommitted}).Describe())
	assert.Equal(t, "Batch pending", (&BatchStatus{Status: StatusPending}).Describe())
	assert.Equal(t, "Batch status unknown", (&BatchStatus{Status: StatusUnknown}).Describe())
	assert.Equal(t, `Unhandled status "ARCHIVED"`, (&BatchStatus{Status: StatusUnhandled, RawStatus: "ARCHIVED"}).Describe())
	assert.NoError(t, (&BatchStatus{Status: StatusCommitted}).Err())
	assert.Error(t, (&BatchStatus{Status: StatusInvalid}).Err())
}

func TestGetBatchStatusEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetBatchStatus(context.Background(), "b1", 0)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestWaitForStatusPollsWhilePending(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			fmt.Fprint(w, statusBody("b1", "PENDING"))
			return
		}
		fmt.Fprint(w, statusBody("b1", "COMMITTED"))
	}))
	defer srv.Close()

	bs, err := newTestClient(t, srv).WaitForStatus(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, bs.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWaitForStatusGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statusBody("b1", "PENDING"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.cfg.PollTimeout = 20 * time.Millisecond

	bs, err := c.WaitForStatus(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrStillPending)
	require.NotNil(t, bs)
	assert.Equal(t, StatusPending, bs.Status)
}

func TestWaitForStatusDoesNotRetryLedgerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).WaitForStatus(context.Background(), "b1")
	var submitErr *xoerrors.SubmitError
	require.True(t, errors.As(err, &submitErr))
	assert.Equal(t, xoerrors.ErrCodeUnexpectedStatus, submitErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetStateFollowsPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/state", r.URL.Path)
		assert.Equal(t, "5b7349", r.URL.Query().Get("address"))
		if r.URL.Query().Get("start") == "" {
			fmt.Fprintf(w, `{"data":[{"address":"a1","data":"%s"}],"paging":{"next":"http://rest-api:8008/state?address=5b7349&start=a2"}}`,
				base64.StdEncoding.EncodeToString([]byte("gameA,---------,P1-NEXT,,")))
			return
		}
		fmt.Fprintf(w, `{"data":[{"address":"a2","data":"%s"}],"paging":{}}`,
			base64.StdEncoding.EncodeToString([]byte("gameB,---------,P1-NEXT,,")))
	}))
	defer srv.Close()

	entries, err := newTestClient(t, srv).GetState(context.Background(), "5b7349")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a1", entries[0].Address)
	assert.Equal(t, "gameA,---------,P1-NEXT,,", string(entries[0].Data))
	assert.Equal(t, "gameB,---------,P1-NEXT,,", string(entries[1].Data))
}

func TestGetStateRejectsBadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"address":"a1","data":"%%%"}]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetState(context.Background(), "5b7349")
	assert.Error(t, err)
}

func TestGetStateEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/state/"+testutil.GameAAddress {
			fmt.Fprintf(w, `{"data":"%s","head":"h"}`, base64.StdEncoding.EncodeToString([]byte("gameA,---------,P1-NEXT,,")))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":75,"message":"State not found"}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	data, err := c.GetStateEntry(context.Background(), testutil.GameAAddress)
	require.NoError(t, err)
	assert.Equal(t, "gameA,---------,P1-NEXT,,", string(data))

	_, err = c.GetStateEntry(context.Background(), testutil.GameAAddress[:69]+"0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitDeliversOneResult(t *testing.T) {
	list, batchID := pinnedBatchList(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/batches":
			w.WriteHeader(http.StatusAccepted)
		case "/batch_statuses":
			assert.Equal(t, batchID, r.URL.Query().Get("id"))
			fmt.Fprint(w, statusBody(batchID, "INVALID", InvalidTransaction{ID: testutil.FirstTxnID, Message: "Invalid action: Game already exists"}))
		}
	}))
	defer srv.Close()

	results := newTestClient(t, srv).Submit(context.Background(), list, batchID)

	select {
	case res := <-results:
		assert.Equal(t, batchID, res.BatchID)
		require.NotNil(t, res.Status)
		assert.Equal(t, StatusInvalid, res.Status.Status)
		var invalid *xoerrors.InvalidTransactionError
		require.True(t, errors.As(res.Err, &invalid))
		assert.Equal(t, testutil.FirstTxnID, invalid.TransactionID)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}

	_, open := <-results
	assert.False(t, open)
}

func TestSubmitReportsSubmitFailure(t *testing.T) {
	list, batchID := pinnedBatchList(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := <-newTestClient(t, srv).Submit(context.Background(), list, batchID)
	assert.Nil(t, res.Status)
	var submitErr *xoerrors.SubmitError
	require.True(t, errors.As(res.Err, &submitErr))
	assert.Equal(t, http.StatusServiceUnavailable, submitErr.StatusCode)
}

type panicTransport struct{}

func (panicTransport) RoundTrip(*http.Request) (*http.Response, error) {
	panic("transport exploded")
}

func TestSubmitReportsPanic(t *testing.T) {
	list, batchID := pinnedBatchList(t)
	c, err := NewClient(Config{
		Endpoint:   "http://ledger.invalid",
		HTTPClient: &http.Client{Transport: panicTransport{}},
	})
	require.NoError(t, err)

	results := c.Submit(context.Background(), list, batchID)
	select {
	case res := <-results:
		assert.Equal(t, batchID, res.BatchID)
		assert.ErrorContains(t, res.Err, "submit panicked: transport exploded")
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}

	select {
	case _, open := <-results:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("result channel was not closed")
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statusBody("b1", "COMMITTED"))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, RateLimit: 0.001, RateBurst: 1})
	require.NoError(t, err)

	_, err = c.GetBatchStatus(context.Background(), "b1", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.GetBatchStatus(ctx, "b1", 0)
	var submitErr *xoerrors.SubmitError
	require.True(t, errors.As(err, &submitErr))
	assert.Equal(t, xoerrors.ErrCodeRateLimited, submitErr.Code)
}
