package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/config"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/bindings"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/signing"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/tx"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Values accepted by --auth.
const (
	authOnChain = "onchain"
	authECDSA   = "ecdsa"
	authCreate2 = "create2"
)

type changePubKeyOptions struct {
	Auth         string
	AccountId    uint64
	SubAccountId uint64
	FeeToken     uint64
	Fee          string
	Nonce        uint64
	Timestamp    uint64

	Creator  string
	Salt     string
	CodeHash string
}

// NewChangePubKeyCommand creates the change-pubkey command.
func NewChangePubKeyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &changePubKeyOptions{}
	cmd := &cobra.Command{
		Use:   "change-pubkey",
		Short: "Sign a ChangePubKey that registers the signer's layer-2 key",
		Long: `Bind the configured layer-2 key to an account.

The chain id, L1 client id, main contract and account address come from the
config file or ZKLINK_* environment. --auth selects the authorization:
  onchain  the pubkey hash is already registered on L1
  ecdsa    the Ethereum key signs the EIP712 ChangePubKey (needs main_contract)
  create2  the account is a CREATE2 wallet (needs --creator, --salt, --code-hash)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSigner(rootOpts)
			if err != nil {
				return err
			}
			out, err := opts.sign(rootOpts.cfg, s)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Auth, "auth", authOnChain, "authorization: onchain|ecdsa|create2")
	f.Uint64Var(&opts.AccountId, "account-id", 0, "account id")
	f.Uint64Var(&opts.SubAccountId, "sub-account-id", 0, "sub-account id")
	f.Uint64Var(&opts.FeeToken, "fee-token", 0, "fee token id")
	f.StringVar(&opts.Fee, "fee", "0", "fee in the smallest unit")
	f.Uint64Var(&opts.Nonce, "nonce", 0, "account nonce")
	f.Uint64Var(&opts.Timestamp, "timestamp", 0, "unix timestamp in seconds")
	f.StringVar(&opts.Creator, "creator", "", "create2: factory contract address")
	f.StringVar(&opts.Salt, "salt", "", "create2: 0x 32-byte salt argument")
	f.StringVar(&opts.CodeHash, "code-hash", "", "create2: 0x 32-byte init code hash")
	_ = cmd.MarkFlagRequired("account-id")
	return cmd
}

func (o *changePubKeyOptions) sign(cfg *config.Config, s *signing.Signer) (result, error) {
	req, err := o.authRequest()
	if err != nil {
		return nil, err
	}
	cpk, err := o.build(cfg, s)
	if err != nil {
		return nil, err
	}
	if err := cpk.Validate(); err != nil {
		return nil, err
	}

	var mainContract types.ZkLinkAddress
	if cfg.MainContract != "" {
		if mainContract, err = bindings.ZkLinkAddressHex.IntoCustom(cfg.MainContract); err != nil {
			return nil, fmt.Errorf("main_contract: %w", err)
		}
	} else if o.Auth == authECDSA {
		return nil, fmt.Errorf("ecdsa auth needs main_contract (or ZKLINK_MAIN_CONTRACT)")
	}
	account := s.Address()
	if cfg.AccountAddress != "" {
		if account, err = bindings.ZkLinkAddressHex.IntoCustom(cfg.AccountAddress); err != nil {
			return nil, fmt.Errorf("account_address: %w", err)
		}
	}

	res, err := signing.SignChangePubKey(s.EthSigner(), s.ZkSigner(), *cpk, mainContract, cfg.L1ClientId, account, req)
	if err != nil {
		return nil, err
	}
	signed := res.Tx.(*tx.ChangePubKey)
	hash, err := signed.TxHash()
	if err != nil {
		return nil, err
	}

	out := result{
		{"chain_id", uint8(signed.ChainId)},
		{"account_id", uint32(signed.AccountId)},
		{"sub_account_id", uint8(signed.SubAccountId)},
		{"new_pk_hash", bindings.PubKeyHashHex.FromCustom(signed.NewPkHash)},
		{"fee_token", uint32(signed.FeeToken)},
		{"fee", bindings.DecimalString{}.FromCustom(signed.Fee)},
		{"nonce", uint32(signed.Nonce)},
		{"timestamp", uint32(signed.Ts)},
		{"auth_type", signed.EthAuthData.AuthType().String()},
	}
	if auth, ok := signed.EthAuthData.(tx.EthECDSAAuthData); ok {
		out = append(out, field{"eth_signature", bindings.PackedEthSignatureHex.FromCustom(auth.EthSignature)})
	}
	out = append(out,
		field{"tx_hash", bindings.TxHashHex.FromCustom(hash)},
		field{"signature", bindings.ZkLinkSignatureHex.FromCustom(&signed.Signature)},
	)
	return out, nil
}

func (o *changePubKeyOptions) authRequest() (signing.AuthRequest, error) {
	switch o.Auth {
	case authOnChain:
		return signing.OnChainAuthRequest{}, nil
	case authECDSA:
		return signing.EthECDSAAuthRequest{}, nil
	case authCreate2:
		data, err := parseCreate2Data(o.Creator, o.Salt, o.CodeHash)
		if err != nil {
			return nil, err
		}
		return signing.EthCreate2AuthRequest{Data: data}, nil
	}
	return nil, fmt.Errorf("invalid auth %q: must be one of onchain, ecdsa, create2", o.Auth)
}

func (o *changePubKeyOptions) build(cfg *config.Config, s *signing.Signer) (*tx.ChangePubKey, error) {
	accountId, err := bindings.FixedInt[types.AccountId]{}.IntoCustom(o.AccountId)
	if err != nil {
		return nil, err
	}
	subAccountId, err := bindings.FixedInt[types.SubAccountId]{}.IntoCustom(o.SubAccountId)
	if err != nil {
		return nil, err
	}
	feeToken, err := bindings.FixedInt[types.TokenId]{}.IntoCustom(o.FeeToken)
	if err != nil {
		return nil, err
	}
	nonce, err := bindings.FixedInt[types.Nonce]{}.IntoCustom(o.Nonce)
	if err != nil {
		return nil, err
	}
	timestamp, err := bindings.FixedInt[types.TimeStamp]{}.IntoCustom(o.Timestamp)
	if err != nil {
		return nil, err
	}
	fee, err := bindings.DecimalString{}.IntoCustom(o.Fee)
	if err != nil {
		return nil, err
	}
	pkHash, err := s.ZkSigner().PublicKeyHash()
	if err != nil {
		return nil, err
	}
	return tx.NewChangePubKey(tx.ChangePubKeyBuilder{
		ChainId:       types.ChainId(cfg.ChainId),
		AccountId:     accountId,
		SubAccountId:  subAccountId,
		NewPubKeyHash: pkHash,
		FeeToken:      feeToken,
		Fee:           fee,
		Nonce:         nonce,
		Timestamp:     timestamp,
	}), nil
}
