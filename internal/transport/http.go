package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ciphergate/internal/domain"
)

// MaxReplyBytes bounds how much of a reply body is read.
const MaxReplyBytes = 8 << 20

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// HTTP posts JSON to a backend origin.
type HTTP struct {
	Base string
	HTTP *http.Client
	log  zerolog.Logger
}

// NewHTTP returns a client for base. A nil client means http.DefaultClient.
func NewHTTP(base string, client *http.Client, log zerolog.Logger) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{
		Base: strings.TrimRight(base, "/"),
		HTTP: client,
		log:  log.With().Str("component", "transport").Logger(),
	}
}

// Post encodes in as JSON, posts it to path and returns the raw reply.
// Only network-level failures are errors; status handling is left to the
// caller because the backend signals session loss with a 403 JSON body.
func (c *HTTP) Post(ctx context.Context, path string, in any) (domain.Reply, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return domain.Reply{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: post %s: %v", domain.ErrTransport, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxReplyBytes))
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: read %s: %v", domain.ErrTransport, path, err)
	}
	c.log.Debug().
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("post")
	return domain.Reply{StatusCode: resp.StatusCode, Body: body}, nil
}

var _ domain.Transport = (*HTTP)(nil)
