// Package backend is the client of the wallet backend API: bridge builds,
// bridge fees and fee schedules.
package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/bridge"
	"github/veilport/go-wallet/internal/wallet/fees"
)

// Client implements fees.Loader and bridge.Transport over the backend's
// REST API. Errors are returned verbatim; callers own retry policy.
type Client struct {
	endpoint string
	http     *http.Client
}

var (
	_ fees.Loader      = (*Client)(nil)
	_ bridge.Transport = (*Client)(nil)
)

// NewClient creates a backend client from the service configuration.
func NewClient(cfg config.BridgeServer) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
	}
}

// FeeSchedule fetches the fee table of a network.
func (c *Client) FeeSchedule(ctx context.Context, net wallet.Network) (*fees.Table, error) {
	query := url.Values{}
	query.Set("net", string(net))

	var table fees.Table
	if err := c.get(ctx, "/v1/fees", query, &table); err != nil {
		return nil, err
	}

	return &table, nil
}

// RequestBuild asks the backend for a ready-to-submit bridge transaction.
func (c *Client) RequestBuild(ctx context.Context, req bridge.QuoteRequest) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("net", string(req.Source))
	query.Set("target_net", string(req.Target))
	query.Set("address", req.Address)
	query.Set("to", req.To)
	query.Set("amount", req.Amount)

	var payload json.RawMessage
	if err := c.get(ctx, "/v1/bridge/build", query, &payload); err != nil {
		return nil, err
	}

	return payload, nil
}

// RequestOriginFee fetches the fee the bridge charges on the origin side.
func (c *Client) RequestOriginFee(ctx context.Context, net wallet.Network) (*bridge.OriginFeeInfo, error) {
	query := url.Values{}
	query.Set("net", string(net))

	var info bridge.OriginFeeInfo
	if err := c.get(ctx, "/v1/bridge/origin-fee", query, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// RequestMinAmount fetches the minimum bridgeable amount for a network pair.
func (c *Client) RequestMinAmount(ctx context.Context, source wallet.Network, target wallet.Network) (float64, error) {
	query := url.Values{}
	query.Set("net", string(source))
	query.Set("target_net", string(target))

	var min float64
	if err := c.get(ctx, "/v1/bridge/min-amount", query, &min); err != nil {
		return 0, err
	}

	return min, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.endpoint + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", path)
	}

	return nil
}
