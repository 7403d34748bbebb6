package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	rpcTimeout   = 15 * time.Second
	pollInterval = 2 * time.Second
)

// RPCGateway talks to a node over Ethereum JSON-RPC.
type RPCGateway struct {
	endpoint string
	client   *http.Client
	nextID   atomic.Uint64
}

// NewRPCGateway builds a gateway against the given JSON-RPC endpoint.
func NewRPCGateway(endpoint string) (*RPCGateway, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("rpc endpoint is required")
	}
	return &RPCGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: rpcTimeout},
	}, nil
}

// BalanceAt returns the latest balance of the address in wei.
func (g *RPCGateway) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	var out string
	if err := g.call(ctx, "eth_getBalance", []any{address, "latest"}, &out); err != nil {
		return nil, &GatewayError{Op: "get balance", Err: err}
	}
	bal, err := parseHexBig(out)
	if err != nil {
		return nil, &GatewayError{Op: "get balance", Err: err}
	}
	return bal, nil
}

// GasPrice returns the node's suggested legacy gas price in wei.
func (g *RPCGateway) GasPrice(ctx context.Context) (*big.Int, error) {
	var out string
	if err := g.call(ctx, "eth_gasPrice", []any{}, &out); err != nil {
		return nil, &GatewayError{Op: "get gas price", Err: err}
	}
	price, err := parseHexBig(out)
	if err != nil {
		return nil, &GatewayError{Op: "get gas price", Err: err}
	}
	return price, nil
}

// PendingNonce returns the next nonce for the address including mempool
// transactions.
func (g *RPCGateway) PendingNonce(ctx context.Context, address string) (uint64, error) {
	var out string
	if err := g.call(ctx, "eth_getTransactionCount", []any{address, "pending"}, &out); err != nil {
		return 0, &GatewayError{Op: "get nonce", Err: err}
	}
	nonce, err := parseHexBig(out)
	if err != nil {
		return 0, &GatewayError{Op: "get nonce", Err: err}
	}
	return nonce.Uint64(), nil
}

// Broadcast submits a signed raw transaction and returns its hash.
func (g *RPCGateway) Broadcast(ctx context.Context, rawTx string) (string, error) {
	var hash string
	if err := g.call(ctx, "eth_sendRawTransaction", []any{rawTx}, &hash); err != nil {
		return "", &GatewayError{Op: "broadcast", Err: err}
	}
	return hash, nil
}

// AwaitInclusion polls for the transaction receipt until the transaction is
// mined or ctx is cancelled.
func (g *RPCGateway) AwaitInclusion(ctx context.Context, txHash string) (Receipt, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var raw *rpcReceipt
		if err := g.call(ctx, "eth_getTransactionReceipt", []any{txHash}, &raw); err != nil {
			return Receipt{}, &GatewayError{Op: "await inclusion", Err: err}
		}
		if raw != nil {
			block, err := parseHexBig(raw.BlockNumber)
			if err != nil {
				return Receipt{}, &GatewayError{Op: "await inclusion", Err: err}
			}
			status, err := parseHexBig(raw.Status)
			if err != nil {
				return Receipt{}, &GatewayError{Op: "await inclusion", Err: err}
			}
			return Receipt{TxHash: txHash, BlockNumber: block.Uint64(), Status: status.Uint64()}, nil
		}

		select {
		case <-ctx.Done():
			return Receipt{}, &GatewayError{Op: "await inclusion", Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

type rpcReceipt struct {
	BlockNumber string `json:"blockNumber"`
	Status      string `json:"status"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (g *RPCGateway) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      g.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return fmt.Errorf("%s: %w", method, decoded.Error)
	}
	if err := json.Unmarshal(decoded.Result, result); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func parseHexBig(s string) (*big.Int, error) {
	body := strings.TrimPrefix(s, "0x")
	if body == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(body, 16)
	if !ok {
		return nil, fmt.Errorf("malformed hex quantity %q", s)
	}
	return v, nil
}
