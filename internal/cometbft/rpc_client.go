// Package cometbft talks to a CometBFT node over its HTTP RPC and websocket endpoints.
package cometbft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
	"go.uber.org/ratelimit"
)

const (
	// DefaultTimeout bounds a whole RPC round trip.
	DefaultTimeout   = 30 * time.Second
	maxResponseBytes = 64 << 20
)

// Config configures Client.
type Config struct {
	URL string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// RequestsPerSecond caps outgoing calls; zero disables the cap.
	RequestsPerSecond int
}

// Client fetches node status and blocks. It never retries; callers own the retry policy.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    ratelimit.Limiter
	rpcMetrics RPCMetrics
}

// NewClient constructs an instrumented RPC client.
func NewClient(cfg Config, rpcMetrics RPCMetrics) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("rpc url is required")
	}
	if rpcMetrics == nil {
		return nil, errors.New("rpc metrics is required")
	}
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported rpc url scheme %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		limiter:    limiter,
		rpcMetrics: rpcMetrics,
	}, nil
}

// Status returns the node's latest and earliest available heights.
func (c *Client) Status(ctx context.Context) (status *chain.Status, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("status", err, started)
	}()

	raw, err := c.call(ctx, "status", nil)
	if err != nil {
		return nil, err
	}
	return convertStatus(raw)
}

// FetchBlock returns the block at height.
func (c *Client) FetchBlock(ctx context.Context, height uint64) (block *chain.Block, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("block", err, started)
	}()

	raw, err := c.call(ctx, "block", url.Values{"height": {strconv.FormatUint(height, 10)}})
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", height, err)
	}
	return convertBlock(raw, height)
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	c.limiter.Take()

	u := c.baseURL.JoinPath(method)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", chain.ErrTransport, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %w", chain.ErrTransport, method, err)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %s: unexpected status %d", chain.ErrTransport, method, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s: %w", chain.ErrDecode, method, err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error.err(method)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", chain.ErrTransport, method, resp.StatusCode)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil, fmt.Errorf("%w: %s: empty result", chain.ErrDecode, method)
	}
	return envelope.Result, nil
}

// Phrases CometBFT uses when a height is outside the stored range.
var notFoundPhrases = []string{
	"must be less than or equal to the current blockchain height",
	"is not available, lowest height is",
	"could not find results for height",
}

func (e *rpcError) err(method string) error {
	detail := e.Message
	if e.Data != "" {
		detail += ": " + e.Data
	}
	for _, phrase := range notFoundPhrases {
		if strings.Contains(e.Data, phrase) || strings.Contains(e.Message, phrase) {
			return fmt.Errorf("%w: %s: %s", chain.ErrNotFound, method, detail)
		}
	}
	return fmt.Errorf("%w: %s: rpc error %d: %s", chain.ErrTransport, method, e.Code, detail)
}
