package cli

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/logger"
	"github.com/zklinkprotocol/zklink-go-sdk/pkg/secretstore"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/signing"
)

type keygenOptions struct {
	FromConfig bool
	Save       string
	ShowSecret bool
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &keygenOptions{}
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create an Ethereum key and derive its zkLink key",
		Long: `Generate a fresh Ethereum private key (or use the configured one with
--from-config) and derive the layer-2 signing key from its signature over
the key derivation message. --save stores the result in the secret store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.FromConfig, "from-config", false, "derive from the configured wallet instead of a new key")
	cmd.Flags().StringVar(&opts.Save, "save", "", "store the key under this name in the secret store")
	cmd.Flags().BoolVar(&opts.ShowSecret, "show-secret", false, "print private keys")
	return cmd
}

func runKeygen(rootOpts *RootOptions, opts *keygenOptions, cmd *cobra.Command) error {
	var (
		s   *signing.Signer
		err error
	)
	if opts.FromConfig || rootOpts.Signer != "" {
		s, err = loadSigner(rootOpts)
	} else {
		key, genErr := crypto.GenerateKey()
		if genErr != nil {
			return genErr
		}
		s, err = signing.NewSignerFromEthSigner(ethsigner.NewPrivateKeySignerFromECDSA(key))
	}
	if err != nil {
		return err
	}

	out, err := signerFields(s)
	if err != nil {
		return err
	}
	if opts.ShowSecret {
		out = append(out,
			field{"eth_private_key", s.EthSigner().PrivateKeyHex()},
			field{"zk_private_key", s.ZkSigner().PrivateKey().Hex()},
		)
	}

	if opts.Save != "" {
		store, err := openStore(rootOpts.cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		rec := secretstore.SignerRecord{
			EthPrivateKey: s.EthSigner().PrivateKeyHex(),
			Address:       s.Address().String(),
		}
		if err := store.PutSigner(opts.Save, rec); err != nil {
			return err
		}
		logger.WithField("name", opts.Save).WithField("address", rec.Address).Info("signer saved")
		out = append(out, field{"saved_as", opts.Save})
	}
	return writeResult(cmd.OutOrStdout(), rootOpts.Format, out)
}
