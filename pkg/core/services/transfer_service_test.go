package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
)

type stubReceiver struct {
	reply *domain.ReceiveReply
	err   error
	got   []domain.ReceiveRequest
}

func (s *stubReceiver) ReceiveShare(_ context.Context, req domain.ReceiveRequest) (*domain.ReceiveReply, error) {
	s.got = append(s.got, req)
	return s.reply, s.err
}

func TestTransferService(t *testing.T) {
	candidate := domain.ShareCandidate{ShareID: "abc123", AccessCode: "ab12", SourceDomain: "115.com"}

	tests := []struct {
		name     string
		receiver *stubReceiver
		want     domain.TransferOutcome
	}{
		{
			name:     "success",
			receiver: &stubReceiver{reply: &domain.ReceiveReply{State: true}},
			want:     domain.Success(),
		},
		{
			name:     "refused with message",
			receiver: &stubReceiver{reply: &domain.ReceiveReply{State: false, Error: "share expired", ErrNo: 4100012}},
			want:     domain.RemoteError("share expired"),
		},
		{
			name:     "refused without message",
			receiver: &stubReceiver{reply: &domain.ReceiveReply{State: false}},
			want:     domain.RemoteError("unknown error"),
		},
		{
			name:     "transport error",
			receiver: &stubReceiver{err: assert.AnError},
			want:     domain.Exception(assert.AnError.Error()),
		},
		{
			name:     "nil reply",
			receiver: &stubReceiver{},
			want:     domain.Exception("empty reply from remote"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTransferService(tt.receiver).Transfer(context.Background(), candidate, 2468)
			assert.Equal(t, tt.want, got)

			require.Len(t, tt.receiver.got, 1)
			assert.Equal(t, domain.ReceiveRequest{
				ShareID:    "abc123",
				AccessCode: "ab12",
				FolderID:   2468,
				FileID:     domain.TakeEverything,
			}, tt.receiver.got[0])
		})
	}
}

func TestTransferServiceMissingCode(t *testing.T) {
	r := &stubReceiver{reply: &domain.ReceiveReply{State: true}}

	got := NewTransferService(r).Transfer(context.Background(), domain.ShareCandidate{ShareID: "abc123"}, 1)

	assert.Equal(t, domain.OutcomeMissingAccessCode, got.Kind)
	assert.Empty(t, r.got, "remote must not be called without a code")
}
