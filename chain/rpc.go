package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// rpcNotFound is the node's error code for an unknown transaction or block.
const rpcNotFound = -5

// RPCConfig holds the connection parameters of a node's JSON-RPC interface.
type RPCConfig struct {
	URL      string
	User     string
	Password string
	Timeout  time.Duration // zero means 30s
}

// RPCClient is a JSON-RPC 1.0 client for a BSV node.
type RPCClient struct {
	url    string
	user   string
	pass   string
	client *http.Client
	nextID atomic.Int64
}

var _ Service = (*RPCClient)(nil)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRPCClient returns a client for cfg. Basic auth is sent when User is set.
func NewRPCClient(cfg RPCConfig) *RPCClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RPCClient{
		url:  cfg.URL,
		user: cfg.User,
		pass: cfg.Password,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Call invokes method and decodes the result into result, which may be nil.
// The node's "not found" error code maps to ErrTxNotFound.
func (c *RPCClient) Call(ctx context.Context, method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}
	reqBody := rpcRequest{
		JSONRPC: "1.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("chain: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chain: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Nodes answer RPC errors with HTTP 404/500 and a JSON body.
	var rpcResp rpcResponse
	decErr := json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(&rpcResp)
	if rpcResp.Error != nil {
		if rpcResp.Error.Code == rpcNotFound {
			return fmt.Errorf("%w: %s", ErrTxNotFound, rpcResp.Error.Message)
		}
		return fmt.Errorf("chain: rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrConnectionFailed, resp.StatusCode)
	}
	if decErr != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, decErr)
	}
	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response id %d, want %d", ErrInvalidResponse, rpcResp.ID, reqBody.ID)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}
