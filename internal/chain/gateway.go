package chain

import (
	"context"
	"fmt"
	"math/big"
)

// TransferGasLimit is the fixed gas cost of a simple value transfer. Contract
// calls are out of scope, so no estimation is performed.
const TransferGasLimit = 21000

// Receipt reports the on-chain outcome of a broadcast transaction.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	Status      uint64
}

// Succeeded reports whether the transaction executed successfully on chain.
func (r Receipt) Succeeded() bool {
	return r.Status == 1
}

// Gateway is the boundary to the blockchain network. Implementations are
// expected to be safe for concurrent use.
type Gateway interface {
	// BalanceAt returns the current balance of the address in wei.
	BalanceAt(ctx context.Context, address string) (*big.Int, error)
	// GasPrice returns the current legacy gas price in wei.
	GasPrice(ctx context.Context) (*big.Int, error)
	// PendingNonce returns the next usable nonce for the address, including
	// transactions still in the mempool.
	PendingNonce(ctx context.Context, address string) (uint64, error)
	// Broadcast submits a signed raw transaction and returns its hash.
	Broadcast(ctx context.Context, rawTx string) (string, error)
	// AwaitInclusion blocks until the transaction is mined or ctx is done.
	AwaitInclusion(ctx context.Context, txHash string) (Receipt, error)
}

// GatewayError wraps any failure talking to the chain backend. Callers treat
// it as opaque; the operation name gives a human-readable cause.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("chain gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
