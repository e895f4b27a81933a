package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mezonai/xoledger/config"
	xoerrors "github.com/mezonai/xoledger/errors"
	"github.com/mezonai/xoledger/jsonx"
	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/monitoring"
	"github.com/mezonai/xoledger/stringutil"
	"github.com/mezonai/xoledger/types"
	"golang.org/x/time/rate"
)

const (
	octetStream     = "application/octet-stream"
	maxResponseSize = 16 << 20
	maxStatePages   = 1000
)

var (
	ErrNotFound      = errors.New("client: resource not found")
	ErrEmptyResponse = errors.New("client: response holds no data")
	ErrStillPending  = errors.New("client: batch still pending")
)

type Config struct {
	Endpoint     string
	Timeout      time.Duration
	Wait         int
	RateLimit    float64
	RateBurst    int
	PollInterval time.Duration
	PollTimeout  time.Duration
	HTTPClient   *http.Client
}

func ConfigFromSettings(c config.ClientConfig) Config {
	return Config{
		Endpoint:     c.URL,
		Timeout:      c.Timeout(),
		Wait:         c.WaitSeconds,
		RateLimit:    c.RateLimit,
		RateBurst:    c.RateBurst,
		PollInterval: c.PollInterval(),
		PollTimeout:  c.PollTimeout(),
	}
}

// RestClient talks to a Sawtooth-style REST API.
type RestClient struct {
	cfg     Config
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) (*RestClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must be http or https", cfg.Endpoint)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Minute
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &RestClient{cfg: cfg, base: base, http: httpClient}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

func (c *RestClient) Endpoint() string {
	return c.base.String()
}

func (c *RestClient) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *RestClient) do(ctx context.Context, method, target, contentType string, body []byte) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, xoerrors.NewSubmitError(xoerrors.ErrCodeRateLimited, xoerrors.ErrMsgRateLimited, 0, err.Error())
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// errorDetail extracts error.message from a REST error body, falling back to
// the raw body.
func errorDetail(body []byte) string {
	if msg := jsonx.Get(body, "error", "message").ToString(); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(body))
}

// SubmitBatches posts the serialized batch list. Only 202 Accepted counts as
// success.
func (c *RestClient) SubmitBatches(ctx context.Context, list *types.BatchList) error {
	if list == nil || len(list.Batches) == 0 {
		return xoerrors.NewSubmitError(xoerrors.ErrCodeSubmitRejected, xoerrors.ErrMsgSubmitRejected, 0, "empty batch list")
	}
	body, err := list.Marshal()
	if err != nil {
		return fmt.Errorf("serialize batch list: %w", err)
	}

	start := time.Now()
	status, data, err := c.do(ctx, http.MethodPost, c.endpoint("/batches", nil), octetStream, body)
	if err != nil {
		monitoring.RecordSubmit(monitoring.SubmitTransport, time.Since(start))
		logx.Error("CLIENT", "Submit batches failed: ", err)
		return err
	}
	if status != http.StatusAccepted {
		monitoring.RecordSubmit(monitoring.SubmitRejected, time.Since(start))
		logx.Warn("CLIENT", "Submit batches rejected with status ", status)
		return xoerrors.NewSubmitError(xoerrors.ErrCodeSubmitRejected, xoerrors.ErrMsgSubmitRejected, status, errorDetail(data))
	}

	monitoring.RecordSubmit(monitoring.SubmitAccepted, time.Since(start))
	var accepted submitResponse
	if err := jsonx.Unmarshal(data, &accepted); err == nil && accepted.Link != "" {
		logx.Debug("CLIENT", "Batches accepted, status link ", accepted.Link)
	}
	logx.Info("CLIENT", "Submitted batches ", strings.Join(list.BatchIDs(), ","))
	return nil
}

// GetBatchStatus asks for one batch's status, letting the ledger hold the
// request for up to wait seconds while the batch is pending.
func (c *RestClient) GetBatchStatus(ctx context.Context, batchID string, wait int) (*BatchStatus, error) {
	query := url.Values{"id": {batchID}}
	if wait > 0 {
		query.Set("wait", strconv.Itoa(wait))
	}

	status, data, err := c.do(ctx, http.MethodGet, c.endpoint("/batch_statuses", query), "", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, xoerrors.NewSubmitError(xoerrors.ErrCodeUnexpectedStatus, xoerrors.ErrMsgUnexpectedStatus, status, errorDetail(data))
	}

	var resp batchStatusResponse
	if err := jsonx.Unmarshal(data, &resp); err != nil {
		return nil, xoerrors.NewSubmitError(xoerrors.ErrCodeInvalidResponse, xoerrors.ErrMsgInvalidResponse, status, err.Error())
	}
	if len(resp.Data) == 0 || resp.Data[0] == nil {
		return nil, ErrEmptyResponse
	}

	bs := resp.Data[0]
	bs.Status = ParseBatchStatusValue(bs.RawStatus)
	monitoring.RecordBatchStatus(string(bs.Status))
	return bs, nil
}

func (c *RestClient) newPollBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.PollInterval
	b.MaxInterval = 10 * c.cfg.PollInterval
	b.MaxElapsedTime = c.cfg.PollTimeout
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// WaitForStatus polls until the batch leaves PENDING. Transport failures
// are retried; ledger errors are not. When polling gives up on a pending
// batch the last status is returned with ErrStillPending.
func (c *RestClient) WaitForStatus(ctx context.Context, batchID string) (*BatchStatus, error) {
	start := time.Now()
	var last *BatchStatus

	operation := func() error {
		bs, err := c.GetBatchStatus(ctx, batchID, c.cfg.Wait)
		if err != nil {
			var submitErr *xoerrors.SubmitError
			if errors.As(err, &submitErr) {
				return backoff.Permanent(err)
			}
			return err
		}
		last = bs
		if !bs.Final() {
			return ErrStillPending
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		logx.Debug("CLIENT", "Batch ", stringutil.ShortenLog(batchID), " not final (", err, "), retrying in ", next)
	}

	err := backoff.RetryNotify(operation, c.newPollBackOff(ctx), notify)
	if err != nil {
		if last != nil && !last.Final() {
			return last, fmt.Errorf("%w: %s", ErrStillPending, batchID)
		}
		return nil, err
	}
	monitoring.RecordTimeToCommit(time.Since(start))
	return last, nil
}

// GetState lists every state entry under addressPrefix, following paging
// links.
func (c *RestClient) GetState(ctx context.Context, addressPrefix string) ([]StateEntry, error) {
	target := c.endpoint("/state", url.Values{"address": {addressPrefix}})
	var entries []StateEntry

	for page := 0; target != ""; page++ {
		if page == maxStatePages {
			return nil, fmt.Errorf("client: state listing exceeded %d pages", maxStatePages)
		}
		status, data, err := c.do(ctx, http.MethodGet, target, "", nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, xoerrors.NewSubmitError(xoerrors.ErrCodeUnexpectedStatus, xoerrors.ErrMsgUnexpectedStatus, status, errorDetail(data))
		}

		var resp stateListResponse
		if err := jsonx.Unmarshal(data, &resp); err != nil {
			return nil, xoerrors.NewSubmitError(xoerrors.ErrCodeInvalidResponse, xoerrors.ErrMsgInvalidResponse, status, err.Error())
		}
		for _, d := range resp.Data {
			raw, err := base64.StdEncoding.DecodeString(d.Data)
			if err != nil {
				return nil, fmt.Errorf("decode state at %s: %w", d.Address, err)
			}
			entries = append(entries, StateEntry{Address: d.Address, Data: raw})
		}

		target, err = c.nextPage(resp.Paging.Next)
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// nextPage keeps paging on the configured endpoint; the ledger may report
// links with its own host name.
func (c *RestClient) nextPage(link string) (string, error) {
	if link == "" {
		return "", nil
	}
	next, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse paging link: %w", err)
	}
	return c.endpoint(strings.TrimPrefix(next.Path, strings.TrimRight(c.base.Path, "/")), next.Query()), nil
}

// GetStateEntry reads the value stored at one full address.
func (c *RestClient) GetStateEntry(ctx context.Context, address string) ([]byte, error) {
	status, data, err := c.do(ctx, http.MethodGet, c.endpoint("/state/"+url.PathEscape(address), nil), "", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	if status != http.StatusOK {
		return nil, xoerrors.NewSubmitError(xoerrors.ErrCodeUnexpectedStatus, xoerrors.ErrMsgUnexpectedStatus, status, errorDetail(data))
	}

	var resp stateResponse
	if err := jsonx.Unmarshal(data, &resp); err != nil {
		return nil, xoerrors.NewSubmitError(xoerrors.ErrCodeInvalidResponse, xoerrors.ErrMsgInvalidResponse, status, err.Error())
	}
	return base64.StdEncoding.DecodeString(resp.Data)
}
