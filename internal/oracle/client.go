package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
)

// PoolState is the subset of the pool resource the oracle reads back.
type PoolState struct {
	ID              uint   `json:"id"`
	TotalAvailable  uint64 `json:"total_available"`
	GlobalNextIndex uint64 `json:"global_next_index"`
}

// Client talks to a battlechain server on behalf of the pool oracle.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Pool fetches the current watermark of a pool.
func (c *Client) Pool(ctx context.Context, poolID uint) (*PoolState, error) {
	var out PoolState
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/pools/%d", constants.RouteAPIPrefix, poolID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refill submits a batch and returns the updated pool state.
func (c *Client) Refill(ctx context.Context, poolID uint, b Batch) (*PoolState, error) {
	var out PoolState
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/pools/%d/refill", constants.RouteAPIPrefix, poolID), b.Request(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "encode request")
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", constants.ContentTypeJSON)
	}
	if c.Token != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return eris.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode >= 300 {
		return eris.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return eris.Wrap(json.Unmarshal(data, out), "decode response")
}
