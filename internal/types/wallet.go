package types

import (
	"encoding/json"

	"github.com/go-openapi/swag"
	"github/veilport/go-wallet/internal/wallet"
)

// WalletParams identifies the acting wallet in state-changing requests.
// Exactly one of PrivateKey or DeriveIndex selects the software key source;
// hardware wallets provide neither.
type WalletParams struct {
	Address     string  `json:"address"`
	Kind        string  `json:"kind"` // "software" | "hardware"
	PrivateKey  *string `json:"private_key,omitempty"`  // hex
	DeriveIndex *int64  `json:"derive_index,omitempty"` // index into the local seed
	UserID      string  `json:"user_id,omitempty"`      // device account for hardware wallets
}

// GetTokenBalanceResponse is the result of a balance resolve.
type GetTokenBalanceResponse struct {
	Amount    string `json:"amount"`
	KindUsed  string `json:"kind_used"`
	Reachable bool   `json:"reachable"`
}

// TransferItem is one history entry in API responses.
type TransferItem struct {
	ID       *uint64 `json:"id"`
	From     *string `json:"from"`
	Sender   *string `json:"sender"`
	Receiver *string `json:"receiver"`
	Amount   *string `json:"amount"`
	Denom    *string `json:"denom"`
}

// GetTokenTransactionsResponse is the result of a history resolve.
type GetTokenTransactionsResponse struct {
	Txs      []*TransferItem `json:"txs"`
	TotalTxs *int64          `json:"total_txs,omitempty"`
	KindUsed string          `json:"kind_used"`
}

// PostSyncRequest triggers a full token refresh for one wallet.
type PostSyncRequest struct {
	Wallet WalletParams `json:"wallet"`
}

// PostSyncResponse reports whether the sync ran or was skipped as in-flight.
type PostSyncResponse struct {
	Started bool `json:"started"`
}

// PostViewingKeyRequest establishes a viewing key for a token contract.
// An empty Key asks the contract to generate a random one.
type PostViewingKeyRequest struct {
	Wallet WalletParams `json:"wallet"`
	Key    string       `json:"key,omitempty"`
}

// PostViewingKeyResponse carries the broadcast result.
type PostViewingKeyResponse struct {
	TxHash     string `json:"tx_hash"`
	ViewingKey string `json:"viewing_key,omitempty"`
}

// PostTransferRequest moves confidential tokens.
type PostTransferRequest struct {
	Wallet    WalletParams `json:"wallet"`
	Recipient string       `json:"recipient"`
	Amount    string       `json:"amount"`
}

// PostTransferResponse carries the broadcast result.
type PostTransferResponse struct {
	TxHash string `json:"tx_hash"`
}

// PostWrapRequest converts native coin into its confidential token.
type PostWrapRequest struct {
	Wallet WalletParams `json:"wallet"`
	Amount string       `json:"amount"`
}

// PostUnwrapRequest redeems confidential tokens back into native coin.
type PostUnwrapRequest struct {
	Wallet WalletParams `json:"wallet"`
	Amount string       `json:"amount"`
}

// PostConvertRequest sends tokens to a bridge contract for the foreign
// recipient address.
type PostConvertRequest struct {
	Wallet         WalletParams `json:"wallet"`
	BridgeContract string       `json:"bridge_contract"`
	To             string       `json:"to"`
	Amount         string       `json:"amount"`
}

// PostBridgeQuoteRequest asks for a bridge fee or a prebuilt transaction.
type PostBridgeQuoteRequest struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Address string `json:"address"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

// PostBridgeQuoteResponse is the normalized quote result. Payload carries
// the ready-to-submit transaction for direct builds only.
type PostBridgeQuoteResponse struct {
	OK      bool            `json:"ok"`
	Fee     float64         `json:"fee"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GetMinAmountResponse is the minimum bridgeable amount for a pair.
type GetMinAmountResponse struct {
	MinAmount float64 `json:"min_amount"`
}

// NewTransferItems converts store transfers into API items.
func NewTransferItems(txs []wallet.Transfer) []*TransferItem {
	items := make([]*TransferItem, 0, len(txs))
	for _, tx := range txs {
		items = append(items, &TransferItem{
			ID:       swag.Uint64(tx.ID),
			From:     swag.String(tx.From),
			Sender:   swag.String(tx.Sender),
			Receiver: swag.String(tx.Receiver),
			Amount:   swag.String(tx.Coins.Amount),
			Denom:    swag.String(tx.Coins.Denom),
		})
	}

	return items
}
