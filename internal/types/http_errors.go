package types

// Public error type identifiers returned to API clients.
const (
	PublicHTTPErrorTypeGeneric          = "generic"
	PublicHTTPErrorTypeInvalidWallet    = "invalid_wallet"
	PublicHTTPErrorTypeNoSigningPath    = "no_signing_path"
	PublicHTTPErrorTypeTokenUnavailable = "token_unavailable"
	PublicHTTPErrorTypeUnknownToken     = "unknown_token"
)

// PublicHTTPError is the JSON error body of every non-2xx API response.
type PublicHTTPError struct {
	Status int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
}
