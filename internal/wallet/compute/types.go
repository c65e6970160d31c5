package compute

import (
	"encoding/json"

	"github/veilport/go-wallet/internal/wallet"
)

// ViewingKeyError is the structured rejection a token contract returns when
// the presented viewing key does not match the one it holds. It is the only
// error shape the resolver inspects; everything else passes through verbatim.
type ViewingKeyError struct {
	Msg string `json:"msg"`
}

func (e *ViewingKeyError) Error() string {
	return "wrong viewing key: " + e.Msg
}

// StdFee is the fee block of a confidential execution.
type StdFee struct {
	Amount []wallet.Coin `json:"amount"`
	Gas    string        `json:"gas"`
}

// ExecuteRequest describes one state-changing contract call.
type ExecuteRequest struct {
	Contract  string
	Msg       json.RawMessage
	Memo      string
	SentFunds []wallet.Coin
	Fee       StdFee
}

// ExecuteResult is the outcome of a broadcast execution.
type ExecuteResult struct {
	TxHash string
	// Data is the decoded contract response, e.g. the generated key of a
	// create_viewing_key call.
	Data []byte
}

// Wire shapes of the query endpoint.

type queryRequest struct {
	ContractAddress string          `json:"contract_address"`
	Query           json.RawMessage `json:"query"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type queryResult struct {
	Balance *struct {
		Amount string `json:"amount"`
	} `json:"balance"`
	TransferHistory *struct {
		Txs   []wallet.Transfer `json:"txs"`
		Total *int64            `json:"total"`
	} `json:"transfer_history"`
	ViewingKeyError *ViewingKeyError `json:"viewing_key_error"`
}

// Wire shapes of the account and broadcast endpoints.

type accountResponse struct {
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
}

type broadcastRequest struct {
	Tx   broadcastTx `json:"tx"`
	Mode string      `json:"mode"`
}

type broadcastTx struct {
	Msg        []json.RawMessage `json:"msg"`
	Fee        StdFee            `json:"fee"`
	Memo       string            `json:"memo"`
	Signatures []json.RawMessage `json:"signatures"`
}

type broadcastResponse struct {
	TxHash string `json:"txhash"`
	Code   int    `json:"code"`
	RawLog string `json:"raw_log"`
	Data   string `json:"data"` // base64 contract response
}
