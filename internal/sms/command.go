package sms

import "strings"

// Kind enumerates the closed set of recognized commands.
type Kind int

const (
	KindUnknown Kind = iota
	KindStart
	KindBalance
	KindWallet
	KindSend
	KindConfirm
	KindCancel
	KindHistory
	KindHelp
)

// String returns the canonical command verb, used in logs.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "START"
	case KindBalance:
		return "BALANCE"
	case KindWallet:
		return "WALLET"
	case KindSend:
		return "SEND"
	case KindConfirm:
		return "CONFIRM"
	case KindCancel:
		return "CANCEL"
	case KindHistory:
		return "HISTORY"
	case KindHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

// Command is one parsed inbound message. Args holds the tokens after the
// verb, unvalidated.
type Command struct {
	Kind Kind
	Verb string
	Args []string
}

// Parse splits the inbound text on whitespace and maps the case-folded first
// token onto the command set. Unrecognized verbs parse as KindUnknown; the
// interpreter decides the reply, never the parser.
func Parse(text string) Command {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Command{Kind: KindUnknown}
	}

	verb := strings.ToUpper(tokens[0])
	cmd := Command{Verb: verb, Args: tokens[1:]}

	switch verb {
	case "START":
		cmd.Kind = KindStart
	case "BALANCE", "BAL":
		cmd.Kind = KindBalance
	case "WALLET", "ADDRESS":
		cmd.Kind = KindWallet
	case "SEND":
		cmd.Kind = KindSend
	case "CONFIRM":
		cmd.Kind = KindConfirm
	case "CANCEL":
		cmd.Kind = KindCancel
	case "HISTORY", "TX":
		cmd.Kind = KindHistory
	case "HELP":
		cmd.Kind = KindHelp
	default:
		cmd.Kind = KindUnknown
	}
	return cmd
}
