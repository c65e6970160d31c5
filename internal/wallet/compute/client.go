package compute

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/signer"
)

// Client talks to the confidential-computation endpoint (queries and
// transaction broadcast). It enforces no retries and no timeouts beyond the
// configured HTTP client timeout.
type Client struct {
	endpoint string
	chainID  string
	pageSize int
	http     *http.Client
}

// NewClient creates a compute client from the service configuration.
func NewClient(cfg config.ComputeServer) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		chainID:  cfg.ChainID,
		pageSize: cfg.HistoryPage,
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
	}
}

// Balance queries a token contract for the wallet's confidential balance.
// A wrong credential surfaces as *ViewingKeyError.
func (c *Client) Balance(ctx context.Context, contractAddress string, walletAddress string, viewingKey string) (string, error) {
	msg, err := json.Marshal(map[string]any{
		"balance": map[string]string{
			"address": walletAddress,
			"key":     viewingKey,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal balance query")
	}

	result, err := c.query(ctx, contractAddress, msg)
	if err != nil {
		return "", err
	}

	if result.Balance == nil {
		return "", errors.New("unexpected balance query response")
	}

	return result.Balance.Amount, nil
}

// TransferHistory queries a token contract for one page of the wallet's
// transfer history. A wrong credential surfaces as *ViewingKeyError.
func (c *Client) TransferHistory(ctx context.Context, contractAddress string, walletAddress string, viewingKey string, page int) ([]wallet.Transfer, *int64, error) {
	msg, err := json.Marshal(map[string]any{
		"transfer_history": map[string]any{
			"address":   walletAddress,
			"key":       viewingKey,
			"page":      page,
			"page_size": c.pageSize,
		},
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to marshal transfer_history query")
	}

	result, err := c.query(ctx, contractAddress, msg)
	if err != nil {
		return nil, nil, err
	}

	if result.TransferHistory == nil {
		return nil, nil, errors.New("unexpected transfer_history query response")
	}

	return result.TransferHistory.Txs, result.TransferHistory.Total, nil
}

// Execute signs and broadcasts one state-changing contract call. The
// signing capability is invoked exactly once, over the canonical sign doc.
func (c *Client) Execute(ctx context.Context, sender string, req ExecuteRequest, sign signer.SignFunc) (*ExecuteResult, error) {
	account, err := c.fetchAccount(ctx, sender)
	if err != nil {
		return nil, err
	}

	execMsg, err := json.Marshal(map[string]any{
		"type": "wasm/MsgExecuteContract",
		"value": map[string]any{
			"sender":     sender,
			"contract":   req.Contract,
			"msg":        req.Msg,
			"sent_funds": coinsOrEmpty(req.SentFunds),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal execute msg")
	}

	signDoc, err := canonicalJSON(map[string]any{
		"account_number": account.AccountNumber,
		"chain_id":       c.chainID,
		"fee":            req.Fee,
		"memo":           req.Memo,
		"msgs":           []json.RawMessage{execMsg},
		"sequence":       account.Sequence,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build sign doc")
	}

	envelope, err := sign(ctx, signDoc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	envelopeJSON, err := json.Marshal(envelope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal signature envelope")
	}

	return c.broadcast(ctx, broadcastRequest{
		Tx: broadcastTx{
			Msg:        []json.RawMessage{execMsg},
			Fee:        req.Fee,
			Memo:       req.Memo,
			Signatures: []json.RawMessage{envelopeJSON},
		},
		Mode: "block",
	})
}

func (c *Client) query(ctx context.Context, contractAddress string, msg json.RawMessage) (*queryResult, error) {
	body, err := json.Marshal(queryRequest{
		ContractAddress: contractAddress,
		Query:           msg,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal query request")
	}

	raw, err := c.post(ctx, "/compute/v1/query", body)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode query response")
	}

	var result queryResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode query result")
	}

	if result.ViewingKeyError != nil {
		return nil, result.ViewingKeyError
	}

	return &result, nil
}

func (c *Client) fetchAccount(ctx context.Context, address string) (*accountResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/auth/v1/accounts/"+address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build account request")
	}

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var account accountResponse
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, errors.Wrap(err, "failed to decode account response")
	}

	return &account, nil
}

func (c *Client) broadcast(ctx context.Context, req broadcastRequest) (*ExecuteResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal broadcast request")
	}

	raw, err := c.post(ctx, "/txs", body)
	if err != nil {
		return nil, err
	}

	var resp broadcastResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode broadcast response")
	}

	if resp.Code != 0 {
		return nil, errors.Errorf("transaction failed with code %d: %s", resp.Code, resp.RawLog)
	}

	var data []byte
	if resp.Data != "" {
		data, err = base64.StdEncoding.DecodeString(resp.Data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode transaction data")
		}
	}

	return &ExecuteResult{
		TxHash: resp.TxHash,
		Data:   data,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %s", path)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", req.URL.Path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%s returned status %d: %s", req.URL.Path, resp.StatusCode, string(raw))
	}

	return raw, nil
}

// canonicalJSON renders v with lexicographically sorted object keys, the
// form the sign doc must be hashed in.
func canonicalJSON(v any) ([]byte, error) {
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(intermediate, &generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}

func coinsOrEmpty(coins []wallet.Coin) []wallet.Coin {
	if coins == nil {
		return []wallet.Coin{}
	}

	return coins
}

// MicroAmount converts a whole-unit decimal fee into the network's micro
// denomination (6 decimals), e.g. 0.25 -> "250000".
func MicroAmount(amount float64) string {
	const microPerUnit = 1_000_000

	// Round instead of truncate, 0.3*1e6 is 299999.99... in binary.
	return strconv.FormatInt(int64(math.Round(amount*microPerUnit)), 10)
}

// ExecFee builds the fee block for a contract execution. A zero feeAmount
// selects the static default.
func ExecFee(feeAmount float64, denom string) StdFee {
	const (
		defaultExecAmount = "200000"
		execGas           = "500000"
	)

	amount := defaultExecAmount
	if feeAmount > 0 {
		amount = MicroAmount(feeAmount)
	}

	return StdFee{
		Amount: []wallet.Coin{{Denom: denom, Amount: amount}},
		Gas:    execGas,
	}
}
