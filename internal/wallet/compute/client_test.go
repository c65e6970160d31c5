package compute_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/wallet/compute"
	"github/veilport/go-wallet/internal/wallet/signer"
)

func testClient(t *testing.T, handler http.Handler) *compute.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return compute.NewClient(config.ComputeServer{
		Endpoint:       srv.URL,
		ChainID:        "veil-test-1",
		HistoryPage:    10,
		RequestTimeout: 5,
	})
}

func TestBalance(t *testing.T) {
	var gotQuery map[string]map[string]string

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/compute/v1/query", r.URL.Path)

		var req struct {
			ContractAddress string          `json:"contract_address"`
			Query           json.RawMessage `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "veil1contract", req.ContractAddress)
		require.NoError(t, json.Unmarshal(req.Query, &gotQuery))

		_, _ = w.Write([]byte(`{"result":{"balance":{"amount":"1234"}}}`))
	}))

	amount, err := client.Balance(context.Background(), "veil1contract", "veil1wallet", "api_key_abc")
	require.NoError(t, err)
	assert.Equal(t, "1234", amount)

	require.Contains(t, gotQuery, "balance")
	assert.Equal(t, "veil1wallet", gotQuery["balance"]["address"])
	assert.Equal(t, "api_key_abc", gotQuery["balance"]["key"])
}

func TestBalanceViewingKeyRejection(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"viewing_key_error":{"msg":"Wrong viewing key for this address or viewing key not set"}}}`))
	}))

	_, err := client.Balance(context.Background(), "veil1contract", "veil1wallet", "bad-key")
	require.Error(t, err)

	var vkErr *compute.ViewingKeyError
	require.True(t, errors.As(err, &vkErr), "rejections must be typed, not plain errors")
	assert.Contains(t, vkErr.Msg, "Wrong viewing key")
}

func TestBalanceTransportErrorIsNotARejection(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Balance(context.Background(), "veil1contract", "veil1wallet", "key")
	require.Error(t, err)

	var vkErr *compute.ViewingKeyError
	assert.False(t, errors.As(err, &vkErr))
}

func TestTransferHistory(t *testing.T) {
	var gotQuery map[string]map[string]any

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query json.RawMessage `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NoError(t, json.Unmarshal(req.Query, &gotQuery))

		_, _ = w.Write([]byte(`{"result":{"transfer_history":{"txs":[{"id":7,"sender":"veil1a","receiver":"veil1b","coins":{"denom":"uveil","amount":"5"}}],"total":42}}}`))
	}))

	txs, total, err := client.TransferHistory(context.Background(), "veil1contract", "veil1wallet", "key", 3)
	require.NoError(t, err)

	require.Len(t, txs, 1)
	assert.EqualValues(t, 7, txs[0].ID)
	assert.Equal(t, "uveil", txs[0].Coins.Denom)
	require.NotNil(t, total)
	assert.EqualValues(t, 42, *total)

	require.Contains(t, gotQuery, "transfer_history")
	assert.EqualValues(t, 3, gotQuery["transfer_history"]["page"])
	assert.EqualValues(t, 10, gotQuery["transfer_history"]["page_size"], "page size comes from configuration")
}

func TestExecuteSignsCanonicalDocAndBroadcasts(t *testing.T) {
	var signedPayload []byte
	var broadcastBody map[string]any

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/accounts/veil1sender":
			_, _ = w.Write([]byte(`{"account_number":"17","sequence":"3"}`))
		case "/txs":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&broadcastBody))
			data := base64.StdEncoding.EncodeToString([]byte(`{"ok":true}`))
			_, _ = w.Write([]byte(`{"txhash":"CAFEBABE","code":0,"data":"` + data + `"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	sign := func(_ context.Context, payload []byte) (*signer.Envelope, error) {
		signedPayload = payload

		return &signer.Envelope{
			PubKey:    signer.PubKey{Type: "tendermint/PubKeySecp256k1", Value: "cHVi"},
			Signature: "c2ln",
		}, nil
	}

	result, err := client.Execute(context.Background(), "veil1sender", compute.ExecuteRequest{
		Contract: "veil1contract",
		Msg:      json.RawMessage(`{"transfer":{"recipient":"veil1b","amount":"5"}}`),
		Fee:      compute.ExecFee(0, "uveil"),
	}, sign)
	require.NoError(t, err)

	assert.Equal(t, "CAFEBABE", result.TxHash)
	assert.JSONEq(t, `{"ok":true}`, string(result.Data))

	// The sign doc carries the fetched account state and sorted keys.
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(signedPayload, &doc))
	assert.JSONEq(t, `"17"`, string(doc["account_number"]))
	assert.JSONEq(t, `"3"`, string(doc["sequence"]))
	assert.JSONEq(t, `"veil-test-1"`, string(doc["chain_id"]))

	canonical, err := canonicalize(signedPayload)
	require.NoError(t, err)
	assert.Equal(t, canonical, string(signedPayload), "sign doc must already be in canonical key order")

	// The broadcast carries the envelope produced by the signer.
	tx := broadcastBody["tx"].(map[string]any)
	sigs := tx["signatures"].([]any)
	require.Len(t, sigs, 1)
	sig := sigs[0].(map[string]any)
	assert.Equal(t, "c2ln", sig["signature"])
	assert.Equal(t, "block", broadcastBody["mode"])
}

func TestExecuteBroadcastFailure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/accounts/veil1sender":
			_, _ = w.Write([]byte(`{"account_number":"1","sequence":"0"}`))
		case "/txs":
			_, _ = w.Write([]byte(`{"txhash":"DEAD","code":5,"raw_log":"insufficient funds"}`))
		}
	}))

	sign := func(_ context.Context, _ []byte) (*signer.Envelope, error) {
		return &signer.Envelope{}, nil
	}

	_, err := client.Execute(context.Background(), "veil1sender", compute.ExecuteRequest{
		Contract: "veil1contract",
		Msg:      json.RawMessage(`{}`),
	}, sign)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestExecuteSignFailureAbortsBeforeBroadcast(t *testing.T) {
	broadcasts := 0

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/accounts/veil1sender":
			_, _ = w.Write([]byte(`{"account_number":"1","sequence":"0"}`))
		case "/txs":
			broadcasts++
		}
	}))

	sign := func(_ context.Context, _ []byte) (*signer.Envelope, error) {
		return nil, errors.New("user rejected on device")
	}

	_, err := client.Execute(context.Background(), "veil1sender", compute.ExecuteRequest{
		Contract: "veil1contract",
		Msg:      json.RawMessage(`{}`),
	}, sign)
	require.Error(t, err)
	assert.Zero(t, broadcasts)
}

func TestMicroAmount(t *testing.T) {
	assert.Equal(t, "250000", compute.MicroAmount(0.25))
	assert.Equal(t, "1000000", compute.MicroAmount(1))
	assert.Equal(t, "0", compute.MicroAmount(0))
}

func TestExecFee(t *testing.T) {
	fee := compute.ExecFee(0, "uveil")
	require.Len(t, fee.Amount, 1)
	assert.Equal(t, "200000", fee.Amount[0].Amount)
	assert.Equal(t, "uveil", fee.Amount[0].Denom)
	assert.Equal(t, "500000", fee.Gas)

	fee = compute.ExecFee(0.3, "uveil")
	assert.Equal(t, "300000", fee.Amount[0].Amount)
}

// canonicalize re-renders JSON with Go's sorted map keys.
func canonicalize(raw []byte) (string, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
