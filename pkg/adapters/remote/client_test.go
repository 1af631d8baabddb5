package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"gitlab.com/tozd/go/errors"
)

func TestReceiveShareSendsForm(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"state": true, "error": "", "errno": 0}`))
	}))
	defer srv.Close()

	c := NewClient("UID=1; CID=2; SEID=3", WithReceiveURL(srv.URL))
	reply, err := c.ReceiveShare(context.Background(), domain.ReceiveRequest{
		ShareID: "swzxy987", AccessCode: "9Q7k", FolderID: 2468013579,
	})
	require.NoError(t, err)
	assert.Equal(t, &domain.ReceiveReply{State: true}, reply)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "UID=1; CID=2; SEID=3", got.Header.Get("Cookie"))
	assert.NotEmpty(t, got.Header.Get("User-Agent"))
	assert.Equal(t, "swzxy987", got.PostForm.Get("share_code"))
	assert.Equal(t, "9Q7k", got.PostForm.Get("receive_code"))
	assert.Equal(t, "0", got.PostForm.Get("file_id"))
	assert.Equal(t, "2468013579", got.PostForm.Get("cid"))
}

func TestReceiveShareReplies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *domain.ReceiveReply
	}{
		{
			name: "refused with error_msg",
			body: `{"state": false, "error": "x", "error_msg": "链接已过期", "errno": 4100012}`,
			want: &domain.ReceiveReply{State: false, Error: "链接已过期", ErrNo: 4100012},
		},
		{
			name: "refused with error only",
			body: `{"state": false, "error": "already received", "errno": "4200045"}`,
			want: &domain.ReceiveReply{State: false, Error: "already received", ErrNo: 4200045},
		},
		{
			name: "numeric state",
			body: `{"state": 1}`,
			want: &domain.ReceiveReply{State: true},
		},
		{
			name: "empty object",
			body: `{}`,
			want: &domain.ReceiveReply{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			reply, err := NewClient("c=1", WithReceiveURL(srv.URL)).ReceiveShare(context.Background(), domain.ReceiveRequest{ShareID: "a", AccessCode: "bbbb"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestReceiveShareErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "html login page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>please log in</html>"))
			},
		},
		{
			name: "bad state",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"state": "maybe"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			reply, err := NewClient("c=1", WithReceiveURL(srv.URL)).ReceiveShare(context.Background(), domain.ReceiveRequest{ShareID: "a", AccessCode: "bbbb"})
			assert.Error(t, err)
			assert.Nil(t, reply)
		})
	}
}

func TestReceiveShareTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient("c=1", WithReceiveURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := c.ReceiveShare(context.Background(), domain.ReceiveRequest{ShareID: "a", AccessCode: "bbbb"})
	assert.Error(t, err)
}

func TestLoadCookies(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "115-cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("  UID=1; CID=2\n"), 0o600))
	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	assert.Equal(t, "UID=1; CID=2", cookies)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0o600))
	_, err = LoadCookies(empty)
	assert.True(t, errors.Is(err, ErrNoCookies))

	_, err = LoadCookies(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
