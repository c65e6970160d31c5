package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/veilport/go-wallet/internal/config"
)

// New returns the env subcommand.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the resolved configuration",
		Long:  `Prints the configuration as resolved from the current environment as JSON.`,
		Run: func(_ *cobra.Command, _ []string) {
			printConfig()
		},
	}
}

func printConfig() {
	cfg := config.DefaultServiceConfigFromEnv()

	// The mnemonic grants full signing power, never echo it back.
	cfg.Wallet.Mnemonic = ""
	cfg.Wallet.Passphrase = ""

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config")
	}

	fmt.Println(string(out))
}
