package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinmay1088/gasline/config"
)

type recordedCall struct {
	Method    string
	Params    []json.RawMessage
	AccessKey string
}

// rpcStub is a JSON-RPC server answering every method from a table.
type rpcStub struct {
	t       *testing.T
	mu      sync.Mutex
	calls   []recordedCall
	results map[string]any
	errors  map[string]*RPCError
}

func newRPCStub(t *testing.T) (*rpcStub, *httptest.Server) {
	stub := &rpcStub{
		t:       t,
		results: make(map[string]any),
		errors:  make(map[string]*RPCError),
	}
	srv := httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(srv.Close)
	return stub, srv
}

func (s *rpcStub) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JSONRPC string            `json:"jsonrpc"`
		ID      uint64            `json:"id"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params"`
	}
	require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Equal(s.t, "2.0", req.JSONRPC)
	assert.Equal(s.t, "application/json", r.Header.Get("Content-Type"))

	s.mu.Lock()
	s.calls = append(s.calls, recordedCall{Method: req.Method, Params: req.Params, AccessKey: r.Header.Get("X-Api-Key")})
	result, ok := s.results[req.Method]
	rpcErr := s.errors[req.Method]
	s.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	switch {
	case rpcErr != nil:
		resp["error"] = rpcErr
	case ok:
		resp["result"] = result
	default:
		resp["error"] = &RPCError{Code: -32601, Message: "Method not found"}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *rpcStub) lastCall() recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(s.t, s.calls)
	return s.calls[len(s.calls)-1]
}

func (c recordedCall) param(t *testing.T, i int, out any) {
	t.Helper()
	require.Greater(t, len(c.Params), i)
	require.NoError(t, json.Unmarshal(c.Params[i], out))
}

func testConfig() config.Config {
	return config.Config{
		GasAccessKey:    "gas-key",
		WalletAccessKey: "wallet-key",
		Region:          "us1",
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(config.Config{}, "bogus")
	assert.True(t, c.IsTestnet())
	assert.Equal(t, "https://api.us1.shinami.com/aptos/gas/v1", c.endpoint(config.ChainAptos, ServiceGas))
	assert.Equal(t, "https://api.us1.shinami.com/movement/gas/v1", c.endpoint(config.ChainMovement, ServiceGas))
	assert.Equal(t, TestnetSuiRPC, c.endpoint(config.ChainSui, ServiceNode))

	mainnet := NewClient(config.Config{NodeAccessKey: "node", Region: "us2"}, NetworkMainnet)
	assert.False(t, mainnet.IsTestnet())
	assert.Equal(t, "https://api.us2.shinami.com/sui/node/v1", mainnet.endpoint(config.ChainSui, ServiceNode))
	assert.Equal(t, MainnetSuiRPC, mainnet.GetSuiRPC())
}

func TestCallSendsAccessKey(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.results["gas_getFund"] = Fund{Network: "testnet", Name: "demo", Balance: 1000, InFlight: 250, DepositAddress: "0xabc"}

	c := NewClient(testConfig(), NetworkTestnet, WithEndpoint(config.ChainAptos, ServiceGas, srv.URL))
	fund, err := c.GetFund(context.Background(), config.ChainAptos)
	require.NoError(t, err)

	assert.Equal(t, "demo", fund.Name)
	assert.Equal(t, uint64(750), fund.Available())
	call := stub.lastCall()
	assert.Equal(t, "gas_getFund", call.Method)
	assert.Equal(t, "gas-key", call.AccessKey)
	assert.Empty(t, call.Params)
}

func TestCallRPCError(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.errors["gas_getFund"] = &RPCError{Code: -32602, Message: "Invalid params"}

	c := NewClient(testConfig(), NetworkTestnet, WithEndpoint(config.ChainSui, ServiceGas, srv.URL))
	_, err := c.GetFund(context.Background(), config.ChainSui)
	require.Error(t, err)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Contains(t, err.Error(), "gas_getFund")
}

func TestCallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad access key", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testConfig(), NetworkTestnet, WithEndpoint(config.ChainSui, ServiceGas, srv.URL))
	_, err := c.GetFund(context.Background(), config.ChainSui)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "bad access key")
}

func TestCallNullResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testConfig(), NetworkTestnet, WithEndpoint(config.ChainSui, ServiceNode, srv.URL))
	_, err := c.GetSuiTransaction(context.Background(), "digest")
	assert.ErrorContains(t, err, "no result in response")
}

func TestCallHonoursContext(t *testing.T) {
	_, srv := newRPCStub(t)
	c := NewClient(testConfig(), NetworkTestnet, WithEndpoint(config.ChainSui, ServiceGas, srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetFund(ctx, config.ChainSui)
	assert.ErrorIs(t, err, context.Canceled)
}
