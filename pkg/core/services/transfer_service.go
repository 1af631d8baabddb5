package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
)

const unknownRemoteError = "unknown error"

type TransferService struct {
	receiver ports.ShareReceiver
}

func NewTransferService(receiver ports.ShareReceiver) *TransferService {
	return &TransferService{receiver: receiver}
}

// Transfer asks the remote side to save the whole share into folderID.
// Every failure is returned as an outcome; the ledger is left to the caller.
func (s *TransferService) Transfer(ctx context.Context, candidate domain.ShareCandidate, folderID int64) domain.TransferOutcome {
	if candidate.AccessCode == "" {
		return domain.MissingAccessCode()
	}

	req := domain.ReceiveRequest{
		ShareID:    candidate.ShareID,
		AccessCode: candidate.AccessCode,
		FolderID:   folderID,
		FileID:     domain.TakeEverything,
	}

	reply, err := s.receiver.ReceiveShare(ctx, req)
	if err != nil {
		return domain.Exception(err.Error())
	}
	if reply == nil {
		return domain.Exception("empty reply from remote")
	}

	if reply.State {
		return domain.Success()
	}

	msg := reply.Error
	if msg == "" {
		msg = unknownRemoteError
	}
	zerolog.Ctx(ctx).Debug().
		Str("share_id", candidate.ShareID).
		Int("errno", reply.ErrNo).
		Str("error", msg).
		Msg("remote refused share")
	return domain.RemoteError(msg)
}

var _ ports.TransferService = (*TransferService)(nil)
