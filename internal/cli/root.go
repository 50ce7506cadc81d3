// Package cli implements the zklink-signer command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/config"
	"github.com/zklinkprotocol/zklink-go-sdk/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
	// Signer selects a named record from the secret store instead of the configured wallet.
	Signer string

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the zklink-signer CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "zklink-signer",
		Short: "Offline signer for zkLink layer-2 transactions",
		Long: `Derive zkLink layer-2 keys from Ethereum keys, sign orders and
verify Musig signatures without talking to a node.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.LoadFromFile(opts.ConfigPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logCfg := cfg.Log
			if opts.Verbose {
				logCfg.Level = "debug"
			}
			logCfg.Console = cmd.ErrOrStderr()
			if err := logger.Init(logCfg); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml, .yml or .json)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Signer, "signer", "", "named signer from the secret store")

	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewSignOrderCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewCreate2AddressCommand(opts))
	cmd.AddCommand(NewChangePubKeyCommand(opts))
	cmd.AddCommand(NewTypesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
