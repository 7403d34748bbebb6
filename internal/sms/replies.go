package sms

import (
	"fmt"
	"strings"

	"github.com/baintwallet/baintwallet/internal/transfer"
)

// User-facing reply copy. Replies never include internal error detail.

const (
	replyOnboarding = "Welcome to Baintwallet! 🎉\n\nReply START to create your wallet."

	replyAlreadyProvisioned = "You already have a wallet! 👍\n\nReply WALLET to see your address or HELP for commands."

	replyProvisionFailed = "Failed to create wallet. Please try again."

	replyBalanceFailed = "Failed to fetch balance. Please try again."

	replySendUsage = "❌ Invalid format.\n\n" +
		"Use: SEND <address> <amount>\n\n" +
		"Example: SEND 0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb 0.01"

	replyInvalidAddress = "❌ Invalid address format. Address must start with 0x and be 42 characters long."

	replyInvalidAmount = "❌ Invalid amount. Must be a positive number."

	replyNoPending = "❌ No pending transaction found.\n\nUse SEND <address> <amount> first."

	replyExpired = "❌ Transaction expired. Please create a new transaction."

	replyCancelled = "✅ Transaction cancelled."

	replyNothingToCancel = "ℹ️ No pending transaction to cancel."

	replyEmptyHistory = "📜 No transaction history yet."

	replyHistoryFailed = "Failed to fetch transaction history."

	replyTransferFailed = "❌ Transaction failed. Please try again later."

	replyInsufficientFunds = "❌ Insufficient balance for transaction + gas."

	replyWalletLocked = "❌ Your wallet could not be unlocked. Please contact support."

	replyInternalError = "Sorry, an error occurred. Please try again later."

	replyHelp = "📱 Baintwallet Commands:\n\n" +
		"START - Create your wallet\n" +
		"BALANCE - Check balance\n" +
		"WALLET - Get your address\n" +
		"SEND <addr> <amt> - Send tokens\n" +
		"CONFIRM - Confirm transaction\n" +
		"CANCEL - Cancel transaction\n" +
		"HISTORY - View transactions\n" +
		"HELP - Show this message\n\n" +
		"Example:\n" +
		"SEND 0x742d35Cc... 0.01"
)

func replyWalletCreated(address string) string {
	return "✅ Wallet created!\n\n" +
		"Address: " + address + "\n\n" +
		"⚠️ IMPORTANT: Keep your phone secure. Your private key is encrypted and stored securely.\n\n" +
		"Reply HELP for available commands."
}

func replyBalance(formatted, symbol, chainName string) string {
	return "💰 Your Balance:\n\n" +
		formatted + " " + symbol + "\n\n" +
		"Chain: " + chainName
}

func replyWallet(address string) string {
	return "🏦 Your Wallet:\n\n" +
		address + "\n\n" +
		"Reply BALANCE to check your balance."
}

func replySendPrompt(to, amount, symbol string) string {
	return "📤 Send Transaction:\n\n" +
		"To: " + to + "\n" +
		"Amount: " + amount + " " + symbol + "\n\n" +
		"⚠️ Reply CONFIRM to proceed or CANCEL to abort.\n\n" +
		"This transaction cannot be reversed!"
}

func replyConfirmed(receipt transfer.Receipt, symbol, explorerURL string) string {
	return "✅ Transaction Sent!\n\n" +
		"Hash: " + receipt.Hash + "\n" +
		"Amount: " + receipt.Amount + " " + symbol + "\n" +
		"To: " + receipt.To + "\n\n" +
		"Track at: " + explorerURL + "/tx/" + receipt.Hash
}

func replyUnknown(verb string) string {
	return fmt.Sprintf("Unknown command: %s\n\nReply HELP for available commands.", verb)
}

func replyHistory(entries []transfer.HistoryEntry, symbol string) string {
	var b strings.Builder
	b.WriteString("📜 Recent Transactions:\n\n")
	for i, tx := range entries {
		if i == 5 {
			break
		}
		hash := tx.Hash
		if len(hash) > 10 {
			hash = hash[:10] + "..."
		}
		fmt.Fprintf(&b, "%d. %s %s %s\n   %s\n   %s\n\n",
			i+1, tx.Direction, tx.Amount, symbol, hash, tx.Time.Format("2006-01-02"))
	}
	b.WriteString("Reply WALLET for your address.")
	return b.String()
}
