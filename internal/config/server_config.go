package config

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"github/veilport/go-wallet/internal/util"
)

// ModuleName is the canonical name of this service
const ModuleName = "go-wallet"

// EchoServer holds the HTTP listener configuration
type EchoServer struct {
	Debug         bool
	ListenAddress string
}

// LoggerServer holds the zerolog configuration
type LoggerServer struct {
	Level              string
	PrettyPrintConsole bool
}

// ComputeServer holds the confidential-computation endpoint configuration
type ComputeServer struct {
	Endpoint       string
	ChainID        string
	HistoryPage    int
	RequestTimeout int // seconds
}

// BridgeServer holds the bridge transport configuration
type BridgeServer struct {
	Endpoint       string
	RequestTimeout int // seconds
}

// WalletServer holds the local software wallet configuration
type WalletServer struct {
	Mnemonic   string
	Passphrase string
}

// Token describes one tracked confidential token contract
type Token struct {
	Code            string `json:"code"`
	Symbol          string `json:"symbol"`
	Network         string `json:"network"`
	ContractAddress string `json:"contract_address"`
	Decimals        int    `json:"decimals"`
	Favorite        bool   `json:"favorite"`
}

// Server is the top-level service configuration, resolved once from ENV
type Server struct {
	Echo    EchoServer
	Logger  LoggerServer
	Compute ComputeServer
	Bridge  BridgeServer
	Wallet  WalletServer
	Tokens  []Token
}

var (
	config     Server
	configOnce sync.Once
)

// defaultTokens is the built-in token registry, overridable via WALLET_TOKENS
const defaultTokens = `[
  {"code":"veil_wveil","symbol":"wVEIL","network":"veil_token","contract_address":"veil1wrappedveilcontract0000000000000000000000","decimals":6,"favorite":true}
]`

// DefaultServiceConfigFromEnv returns the server config as parsed from the environment.
// The result is cached after the first call.
func DefaultServiceConfigFromEnv() Server {
	configOnce.Do(func() {
		config = Server{
			Echo: EchoServer{
				Debug:         util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
				ListenAddress: util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8077"),
			},
			Logger: LoggerServer{
				Level:              util.GetEnv("SERVER_LOGGER_LEVEL", "debug"),
				PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
			},
			Compute: ComputeServer{
				Endpoint:       util.GetEnv("SERVER_COMPUTE_ENDPOINT", "https://lcd.veilport.network"),
				ChainID:        util.GetEnv("SERVER_COMPUTE_CHAIN_ID", "veil-4"),
				HistoryPage:    util.GetEnvAsInt("SERVER_COMPUTE_HISTORY_PAGE_SIZE", 10),
				RequestTimeout: util.GetEnvAsInt("SERVER_COMPUTE_REQUEST_TIMEOUT_SEC", 30),
			},
			Bridge: BridgeServer{
				Endpoint:       util.GetEnv("SERVER_BRIDGE_ENDPOINT", "https://bridge.veilport.network"),
				RequestTimeout: util.GetEnvAsInt("SERVER_BRIDGE_REQUEST_TIMEOUT_SEC", 30),
			},
			Wallet: WalletServer{
				Mnemonic:   util.GetEnv("WALLET_MNEMONIC", ""),
				Passphrase: util.GetEnv("WALLET_PASSPHRASE", ""),
			},
			Tokens: tokensFromEnv(),
		}
	})

	return config
}

func tokensFromEnv() []Token {
	raw := util.GetEnv("WALLET_TOKENS", defaultTokens)

	var tokens []Token
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		log.Warn().Err(err).Msg("Failed to parse WALLET_TOKENS, falling back to built-in registry")

		if err := json.Unmarshal([]byte(defaultTokens), &tokens); err != nil {
			// built-in registry is a compile-time constant
			panic(err)
		}
	}

	return tokens
}
