// Package remote talks to the cloud drive web API with a logged-in browser session.
package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultReceiveURL = "https://webapi.115.com/share/receive"
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	maxReplySize      = 1 << 20
)

var ErrNoCookies = errors.Base("cookie file is empty")

// LoadCookies reads the exported session cookie string
func LoadCookies(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading cookies: %w", err)
	}
	cookies := strings.TrimSpace(string(data))
	if cookies == "" {
		return "", errors.WithDetails(ErrNoCookies, "path", path)
	}
	return cookies, nil
}

type Client struct {
	httpClient *http.Client
	receiveURL string
	cookies    string
	userAgent  string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithReceiveURL(u string) Option {
	return func(cl *Client) {
		if u != "" {
			cl.receiveURL = u
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

func NewClient(cookies string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		receiveURL: DefaultReceiveURL,
		cookies:    cookies,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// receiveReply mirrors the JSON the web API answers with
type receiveReply struct {
	State    flexBool `json:"state"`
	Error    string   `json:"error"`
	ErrorMsg string   `json:"error_msg"`
	ErrNo    flexInt  `json:"errno"`
}

// ReceiveShare saves a share into the account. A refused share is a reply with
// State false; transport and decoding problems are errors.
func (c *Client) ReceiveShare(ctx context.Context, req domain.ReceiveRequest) (*domain.ReceiveReply, error) {
	fileID := req.FileID
	if fileID == "" {
		fileID = domain.TakeEverything
	}
	form := url.Values{
		"share_code":   {req.ShareID},
		"receive_code": {req.AccessCode},
		"file_id":      {fileID},
		"cid":          {strconv.FormatInt(req.FolderID, 10)},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.receiveURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Cookie", c.cookies)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Errorf("receiving share %s: %w", req.ShareID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return nil, errors.Errorf("reading reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var r receiveReply
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errors.Errorf("decoding reply: %w", err)
	}

	zerolog.Ctx(ctx).Trace().
		Str("share_id", req.ShareID).
		Bool("state", bool(r.State)).
		Int("errno", int(r.ErrNo)).
		Msg("receive reply")

	msg := r.ErrorMsg
	if msg == "" {
		msg = r.Error
	}
	return &domain.ReceiveReply{State: bool(r.State), Error: msg, ErrNo: int(r.ErrNo)}, nil
}

// flexBool accepts true/false as well as 1/0 and "1"/"0"
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch s := strings.Trim(string(data), `"`); s {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return errors.Errorf("invalid state %s", data)
	}
	return nil
}

// flexInt accepts numbers written with or without quotes
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return errors.Errorf("invalid errno %s", data)
	}
	*n = flexInt(v)
	return nil
}

var _ ports.ShareReceiver = (*Client)(nil)
