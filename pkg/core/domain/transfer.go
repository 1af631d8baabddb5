package domain

import "fmt"

// TakeEverything is the file id that asks the remote side to save the whole share.
const TakeEverything = "0"

// ReceiveRequest is sent to the remote save-share capability
type ReceiveRequest struct {
	ShareID    string
	AccessCode string
	FolderID   int64
	FileID     string
}

// ReceiveReply is the part of the remote reply the transfer classification needs
type ReceiveReply struct {
	State bool
	Error string
	ErrNo int
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeAlreadyTransferred
	OutcomeMissingAccessCode
	OutcomeRemoteError
	OutcomeException
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadyTransferred:
		return "already_transferred"
	case OutcomeMissingAccessCode:
		return "missing_access_code"
	case OutcomeRemoteError:
		return "remote_error"
	case OutcomeException:
		return "exception"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// TransferOutcome is the classified result of one transfer attempt.
// Message is only meaningful for RemoteError and Exception.
type TransferOutcome struct {
	Kind    OutcomeKind
	Message string
}

func Success() TransferOutcome            { return TransferOutcome{Kind: OutcomeSuccess} }
func AlreadyTransferred() TransferOutcome { return TransferOutcome{Kind: OutcomeAlreadyTransferred} }
func MissingAccessCode() TransferOutcome  { return TransferOutcome{Kind: OutcomeMissingAccessCode} }

func RemoteError(msg string) TransferOutcome {
	return TransferOutcome{Kind: OutcomeRemoteError, Message: msg}
}

func Exception(msg string) TransferOutcome {
	return TransferOutcome{Kind: OutcomeException, Message: msg}
}

func (o TransferOutcome) String() string {
	if o.Message == "" {
		return o.Kind.String()
	}
	return o.Kind.String() + ": " + o.Message
}
