package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/baintwallet/baintwallet/internal/chain"
	"github.com/baintwallet/baintwallet/internal/custody"
)

var (
	// ErrInsufficientFunds indicates the balance cannot cover the transfer
	// amount plus the network fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidDestination indicates the destination failed address
	// re-validation.
	ErrInvalidDestination = errors.New("invalid destination address")
)

// inclusionTimeout bounds how long a confirm waits for the transaction to be
// mined. A timeout after broadcast is surfaced as a failure, never retried.
const inclusionTimeout = 2 * time.Minute

// Service constructs, signs, and broadcasts value transfers.
type Service struct {
	custody *custody.Store
	gateway chain.Gateway
	chainID *big.Int
	logger  *slog.Logger
}

// NewService builds a transfer service.
func NewService(custodyStore *custody.Store, gateway chain.Gateway, chainID *big.Int, logger *slog.Logger) *Service {
	return &Service{custody: custodyStore, gateway: gateway, chainID: chainID, logger: logger}
}

// Receipt describes a completed transfer. It is returned once and not stored.
type Receipt struct {
	Hash        string
	From        string
	To          string
	Amount      string
	BlockNumber uint64
	Status      string
}

// Execute moves funds from the identity's wallet to the destination. All
// validation and affordability checks happen before the private key is
// decrypted; nothing is signed unless the full cost is provably covered.
func (s *Service) Execute(ctx context.Context, identity, destination, amount string) (Receipt, error) {
	if !chain.IsValidAddress(destination) {
		return Receipt{}, ErrInvalidDestination
	}

	value, err := chain.ToWei(amount)
	if err != nil {
		return Receipt{}, err
	}

	from, err := s.custody.AddressOf(ctx, identity)
	if err != nil {
		return Receipt{}, err
	}

	balance, err := s.gateway.BalanceAt(ctx, from)
	if err != nil {
		return Receipt{}, err
	}
	gasPrice, err := s.gateway.GasPrice(ctx)
	if err != nil {
		return Receipt{}, err
	}

	fee := new(big.Int).Mul(gasPrice, big.NewInt(chain.TransferGasLimit))
	totalCost := new(big.Int).Add(value, fee)
	if balance.Cmp(totalCost) < 0 {
		return Receipt{}, ErrInsufficientFunds
	}

	nonce, err := s.gateway.PendingNonce(ctx, from)
	if err != nil {
		return Receipt{}, err
	}

	var rawTx string
	err = s.custody.WithSigningHandle(ctx, identity, func(signer *chain.Signer) error {
		var signErr error
		rawTx, signErr = signer.SignTransfer(chain.Transfer{
			Nonce:    nonce,
			GasPrice: gasPrice,
			GasLimit: chain.TransferGasLimit,
			To:       destination,
			Value:    value,
			ChainID:  s.chainID,
		})
		return signErr
	})
	if err != nil {
		return Receipt{}, err
	}

	hash, err := s.gateway.Broadcast(ctx, rawTx)
	if err != nil {
		return Receipt{}, err
	}

	s.logger.Info("transfer broadcast", "hash", hash, "nonce", nonce)

	waitCtx, cancel := context.WithTimeout(ctx, inclusionTimeout)
	defer cancel()

	receipt, err := s.gateway.AwaitInclusion(waitCtx, hash)
	if err != nil {
		// The transaction is already on the network; report the failure
		// rather than resubmitting.
		return Receipt{}, fmt.Errorf("transaction %s submitted but confirmation failed: %w", hash, err)
	}

	status := "failed"
	if receipt.Succeeded() {
		status = "success"
	}

	return Receipt{
		Hash:        receipt.TxHash,
		From:        from,
		To:          destination,
		Amount:      amount,
		BlockNumber: receipt.BlockNumber,
		Status:      status,
	}, nil
}

// Snapshot pairs the identity's address with its current balance.
type Snapshot struct {
	Address string
	Balance *big.Int
}

// Describe returns the identity's address and balance snapshot.
func (s *Service) Describe(ctx context.Context, identity string) (Snapshot, error) {
	address, err := s.custody.AddressOf(ctx, identity)
	if err != nil {
		return Snapshot{}, err
	}
	balance, err := s.gateway.BalanceAt(ctx, address)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Address: address, Balance: balance}, nil
}

// HistoryEntry is one formatted past transaction.
type HistoryEntry struct {
	Hash      string
	Direction string
	Amount    string
	Time      time.Time
}

// History returns recent transactions for the identity. Without an external
// indexer the lookup is best effort and currently yields nothing.
func (s *Service) History(ctx context.Context, identity string) ([]HistoryEntry, error) {
	if _, err := s.custody.AddressOf(ctx, identity); err != nil {
		return nil, err
	}
	return nil, nil
}
