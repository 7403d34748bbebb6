package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"
)

// StaticGateway simulates a chain backend with in-memory balances. It is used
// when no RPC endpoint is configured (development) and by tests.
type StaticGateway struct {
	mu         sync.Mutex
	balances   map[string]*big.Int
	nonces     map[string]uint64
	broadcasts []string
	gasPrice   *big.Int
	status     uint64
	block      uint64

	// BroadcastErr, when set, is returned by Broadcast to simulate a
	// network failure before submission.
	BroadcastErr error
}

// NewStaticGateway builds a simulated gateway with a 1 gwei gas price.
func NewStaticGateway() *StaticGateway {
	return &StaticGateway{
		balances: make(map[string]*big.Int),
		nonces:   make(map[string]uint64),
		gasPrice: big.NewInt(1_000_000_000),
		status:   1,
		block:    1,
	}
}

// SetBalance seeds the balance of an address in wei.
func (g *StaticGateway) SetBalance(address string, wei *big.Int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balances[strings.ToLower(address)] = new(big.Int).Set(wei)
}

// SetGasPrice overrides the simulated gas price.
func (g *StaticGateway) SetGasPrice(wei *big.Int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gasPrice = new(big.Int).Set(wei)
}

// SetStatus overrides the on-chain status reported for mined transactions.
func (g *StaticGateway) SetStatus(status uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
}

// Broadcasts returns the raw transactions submitted so far.
func (g *StaticGateway) Broadcasts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.broadcasts...)
}

// BalanceAt returns the seeded balance, defaulting to zero.
func (g *StaticGateway) BalanceAt(_ context.Context, address string) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if bal, ok := g.balances[strings.ToLower(address)]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

// GasPrice returns the simulated gas price.
func (g *StaticGateway) GasPrice(_ context.Context) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.gasPrice), nil
}

// PendingNonce returns an incrementing nonce per address.
func (g *StaticGateway) PendingNonce(_ context.Context, address string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nonces[strings.ToLower(address)], nil
}

// Broadcast records the raw transaction and returns its Keccak-256 hash.
func (g *StaticGateway) Broadcast(_ context.Context, rawTx string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.BroadcastErr != nil {
		return "", &GatewayError{Op: "broadcast", Err: g.BroadcastErr}
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(rawTx, "0x"))
	if err != nil {
		return "", &GatewayError{Op: "broadcast", Err: fmt.Errorf("malformed raw transaction: %w", err)}
	}

	g.broadcasts = append(g.broadcasts, rawTx)
	g.block++
	return "0x" + hex.EncodeToString(keccak256(raw)), nil
}

// AwaitInclusion reports immediate inclusion with the configured status.
func (g *StaticGateway) AwaitInclusion(_ context.Context, txHash string) (Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Receipt{TxHash: txHash, BlockNumber: g.block, Status: g.status}, nil
}
