package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/bindings"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/tx"
)

// NewCreate2AddressCommand creates the create2-address command.
func NewCreate2AddressCommand(rootOpts *RootOptions) *cobra.Command {
	var creator, salt, codeHash, pubKeyHash string
	cmd := &cobra.Command{
		Use:   "create2-address",
		Short: "Compute the CREATE2 account address bound to a pubkey hash",
		Long: `Compute the counterfactual contract wallet address used by CREATE2
ChangePubKey authorization: salt = keccak256(salt_arg || pub_key_hash).
Without --pub-key-hash the configured signer's hash is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseCreate2Data(creator, salt, codeHash)
			if err != nil {
				return err
			}

			h, err := create2PubKeyHash(rootOpts, pubKeyHash)
			if err != nil {
				return err
			}
			out := result{{"pub_key_hash", h.Hex()}, {"address", data.GetAddress(h).Hex()}}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, out)
		},
	}
	cmd.Flags().StringVar(&creator, "creator", "", "factory contract address")
	cmd.Flags().StringVar(&salt, "salt", "", "0x 32-byte salt argument")
	cmd.Flags().StringVar(&codeHash, "code-hash", "", "0x 32-byte init code hash")
	cmd.Flags().StringVar(&pubKeyHash, "pub-key-hash", "", "0x 20-byte pubkey hash")
	for _, name := range []string{"creator", "salt", "code-hash"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func parseCreate2Data(creator, salt, codeHash string) (tx.Create2Data, error) {
	var data tx.Create2Data
	if !common.IsHexAddress(creator) {
		return data, fmt.Errorf("creator: invalid address %q", creator)
	}
	data.CreatorAddress = common.HexToAddress(creator)
	var err error
	if data.SaltArg, err = bindings.H256Hex.IntoCustom(salt); err != nil {
		return data, fmt.Errorf("salt: %w", err)
	}
	if data.CodeHash, err = bindings.H256Hex.IntoCustom(codeHash); err != nil {
		return data, fmt.Errorf("code-hash: %w", err)
	}
	return data, nil
}

func create2PubKeyHash(rootOpts *RootOptions, raw string) (zksigner.PubKeyHash, error) {
	if raw != "" {
		h, err := bindings.PubKeyHashHex.IntoCustom(raw)
		if err != nil {
			return h, fmt.Errorf("pub-key-hash: %w", err)
		}
		return h, nil
	}
	s, err := loadSigner(rootOpts)
	if err != nil {
		return zksigner.PubKeyHash{}, err
	}
	return s.ZkSigner().PublicKeyHash()
}
