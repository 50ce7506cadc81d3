package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/bindings"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	var message, signature string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a Musig signature over a message",
		Long: `Verify a 96-byte zkLink signature (public key || R || s) over the
given 0x-prefixed hex message. Exits non-zero when the signature is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := types.DecodePrefixedHex(message, -1)
			if err != nil {
				return fmt.Errorf("message: %w", err)
			}
			sig, err := bindings.ZkLinkSignatureHex.IntoCustom(signature)
			if err != nil {
				return fmt.Errorf("signature: %w", err)
			}
			ok, err := sig.Verify(msg)
			if err != nil {
				return err
			}
			pkHash, err := sig.PubKey.PublicKeyHash()
			if err != nil {
				return err
			}
			if err := writeResult(cmd.OutOrStdout(), rootOpts.Format, result{
				{"valid", ok},
				{"pub_key_hash", pkHash.Hex()},
			}); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("signature does not match message")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "0x hex message")
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "0x hex signature (96 bytes)")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
