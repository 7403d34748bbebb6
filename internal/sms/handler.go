package sms

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/baintwallet/baintwallet/internal/chain"
	"github.com/baintwallet/baintwallet/internal/custody"
	"github.com/baintwallet/baintwallet/internal/pending"
	"github.com/baintwallet/baintwallet/internal/transfer"
)

// Options carries the presentation and session settings for the interpreter.
type Options struct {
	ChainName   string
	ChainSymbol string
	ExplorerURL string
	PendingTTL  time.Duration
}

// Handler turns one inbound message into one reply. It derives the session
// state from the custody store and the pending cache; nothing else is kept
// between messages.
type Handler struct {
	custody   *custody.Store
	pending   pending.Cache
	transfers *transfer.Service
	opts      Options
	logger    *slog.Logger
}

// NewHandler builds the command interpreter.
func NewHandler(custodyStore *custody.Store, cache pending.Cache, transfers *transfer.Service, opts Options, logger *slog.Logger) *Handler {
	return &Handler{custody: custodyStore, pending: cache, transfers: transfers, opts: opts, logger: logger}
}

// Handle processes one inbound message and always returns a reply string.
// Internal failures are logged and rendered into user-safe text here, at the
// interpreter boundary.
func (h *Handler) Handle(ctx context.Context, identity, text string) string {
	cmd := Parse(text)

	// Everything except START and HELP requires a provisioned wallet. The
	// guard runs before command-body validation, so an unprovisioned sender
	// of a malformed SEND only sees the onboarding prompt.
	if cmd.Kind != KindStart && cmd.Kind != KindHelp {
		exists, err := h.custody.Exists(ctx, identity)
		if err != nil {
			h.logger.Error("wallet lookup failed", "command", cmd.Kind.String(), "error", err)
			return replyInternalError
		}
		if !exists {
			return replyOnboarding
		}
	}

	switch cmd.Kind {
	case KindStart:
		return h.handleStart(ctx, identity)
	case KindBalance:
		return h.handleBalance(ctx, identity)
	case KindWallet:
		return h.handleWallet(ctx, identity)
	case KindSend:
		return h.handleSend(ctx, identity, cmd.Args)
	case KindConfirm:
		return h.handleConfirm(ctx, identity)
	case KindCancel:
		return h.handleCancel(ctx, identity)
	case KindHistory:
		return h.handleHistory(ctx, identity)
	case KindHelp:
		return replyHelp
	default:
		return replyUnknown(cmd.Verb)
	}
}

func (h *Handler) handleStart(ctx context.Context, identity string) string {
	exists, err := h.custody.Exists(ctx, identity)
	if err != nil {
		h.logger.Error("wallet lookup failed", "command", "START", "error", err)
		return replyInternalError
	}
	if exists {
		return replyAlreadyProvisioned
	}

	address, err := h.custody.Provision(ctx, identity)
	if errors.Is(err, custody.ErrAlreadyProvisioned) {
		// Lost a race against a concurrent START; the first record stands.
		return replyAlreadyProvisioned
	}
	if err != nil {
		h.logger.Error("provision failed", "error", err)
		return replyProvisionFailed
	}
	return replyWalletCreated(address)
}

func (h *Handler) handleBalance(ctx context.Context, identity string) string {
	snap, err := h.transfers.Describe(ctx, identity)
	if err != nil {
		h.logger.Error("balance fetch failed", "error", err)
		return replyBalanceFailed
	}
	return replyBalance(chain.FormatWei(snap.Balance), h.opts.ChainSymbol, h.opts.ChainName)
}

func (h *Handler) handleWallet(ctx context.Context, identity string) string {
	address, err := h.custody.AddressOf(ctx, identity)
	if err != nil {
		h.logger.Error("address lookup failed", "error", err)
		return replyInternalError
	}
	return replyWallet(address)
}

func (h *Handler) handleSend(ctx context.Context, identity string, args []string) string {
	if len(args) != 2 {
		return replySendUsage
	}
	to, amount := args[0], args[1]

	if len(to) != 42 || !strings.HasPrefix(to, "0x") {
		return replyInvalidAddress
	}
	if v, err := strconv.ParseFloat(amount, 64); err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return replyInvalidAmount
	}

	if err := h.pending.Put(ctx, pending.Transfer{Identity: identity, To: to, Amount: amount}); err != nil {
		h.logger.Error("stage transfer failed", "error", err)
		return replyInternalError
	}
	return replySendPrompt(to, amount, h.opts.ChainSymbol)
}

func (h *Handler) handleConfirm(ctx context.Context, identity string) string {
	staged, err := h.pending.TakeIfFresh(ctx, identity, h.opts.PendingTTL)
	switch {
	case errors.Is(err, pending.ErrNotFound):
		return replyNoPending
	case errors.Is(err, pending.ErrExpired):
		return replyExpired
	case err != nil:
		h.logger.Error("take pending transfer failed", "error", err)
		return replyInternalError
	}

	// The entry is consumed at this point: a failed transfer requires a new
	// SEND, resending CONFIRM cannot double-submit.
	receipt, err := h.transfers.Execute(ctx, identity, staged.To, staged.Amount)
	if err != nil {
		h.logger.Error("transfer failed", "error", err)
		return renderTransferError(err)
	}
	return replyConfirmed(receipt, h.opts.ChainSymbol, h.opts.ExplorerURL)
}

func (h *Handler) handleCancel(ctx context.Context, identity string) string {
	existed, err := h.pending.Clear(ctx, identity)
	if err != nil {
		h.logger.Error("clear pending transfer failed", "error", err)
		return replyInternalError
	}
	if !existed {
		return replyNothingToCancel
	}
	return replyCancelled
}

func (h *Handler) handleHistory(ctx context.Context, identity string) string {
	entries, err := h.transfers.History(ctx, identity)
	if err != nil {
		h.logger.Error("history fetch failed", "error", err)
		return replyHistoryFailed
	}
	if len(entries) == 0 {
		return replyEmptyHistory
	}
	return replyHistory(entries, h.opts.ChainSymbol)
}

func renderTransferError(err error) string {
	switch {
	case errors.Is(err, transfer.ErrInsufficientFunds):
		return replyInsufficientFunds
	case errors.Is(err, transfer.ErrInvalidDestination):
		return replyInvalidAddress
	case errors.Is(err, chain.ErrInvalidAmount):
		return replyInvalidAmount
	case errors.Is(err, custody.ErrDecryptionFailed):
		return replyWalletLocked
	default:
		return replyTransferFailed
	}
}
