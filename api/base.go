package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/chinmay1088/gasline/config"
)

const defaultTimeout = 30 * time.Second

// Keys are the Shinami access keys. Each service family has its own key.
type Keys struct {
	Gas    string
	Wallet string
	Node   string
}

// Client handles JSON-RPC calls to Shinami services and the Sui full node.
type Client struct {
	httpClient *http.Client
	keys       Keys
	region     string
	network    string
	endpoints  map[string]string
	nextID     atomic.Uint64
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint points a chain service at a different URL.
func WithEndpoint(chain, service, url string) Option {
	return func(c *Client) {
		c.endpoints[endpointKey(chain, service)] = url
	}
}

// NewClient creates a new API client for network using the keys in cfg.
func NewClient(cfg config.Config, network string, opts ...Option) *Client {
	if !ValidNetwork(network) {
		network = NetworkTestnet
	}
	region := cfg.Region
	if region == "" {
		region = "us1"
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		keys: Keys{
			Gas:    cfg.GasAccessKey,
			Wallet: cfg.WalletAccessKey,
			Node:   cfg.NodeAccessKey,
		},
		region:    region,
		network:   network,
		endpoints: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTestnet returns true if the client is using testnet
func (c *Client) IsTestnet() bool {
	return c.network == NetworkTestnet
}

// Network returns the network the client was created for.
func (c *Client) Network() string {
	return c.network
}

// RPCError is a JSON-RPC error object returned by a service.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// HTTPError is returned when a service answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// call performs a single JSON-RPC 2.0 request against url and decodes the
// result into out. out may be nil when the result is not needed.
func (c *Client) call(ctx context.Context, url, accessKey, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := c.postJSON(ctx, url, accessKey, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return fmt.Errorf("%s: no result in response", method)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%s: failed to parse result: %w", method, err)
	}
	return nil
}

// postJSON sends a POST request with JSON payload
func (c *Client) postJSON(ctx context.Context, url, accessKey string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessKey != "" {
		req.Header.Set("X-Api-Key", accessKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
