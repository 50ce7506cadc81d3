package cli

import (
	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/bindings"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/tx"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

type signOrderOptions struct {
	AccountId    uint64
	SubAccountId uint64
	SlotId       uint64
	Nonce        uint64
	BaseToken    uint64
	QuoteToken   uint64
	Amount       string
	Price        string
	Sell         bool
	MakerFee     uint8
	TakerFee     uint8
}

// NewSignOrderCommand creates the sign-order command.
func NewSignOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &signOrderOptions{}
	cmd := &cobra.Command{
		Use:   "sign-order",
		Short: "Build, validate and sign a limit order",
		Long: `Build an order from the flags, reject it if any field is out of range
or the amount is not packable, and sign it with the configured layer-2 key.
Amount and price are base-10 integers in the smallest unit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := opts.build()
			if err != nil {
				return err
			}
			if err := order.Validate(); err != nil {
				return err
			}
			s, err := loadSigner(rootOpts)
			if err != nil {
				return err
			}
			signed, err := s.SignOrder(*order)
			if err != nil {
				return err
			}
			out, err := orderResult(signed)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, out)
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&opts.AccountId, "account-id", 0, "account id")
	f.Uint64Var(&opts.SubAccountId, "sub-account-id", 0, "sub-account id")
	f.Uint64Var(&opts.SlotId, "slot-id", 0, "order slot id")
	f.Uint64Var(&opts.Nonce, "nonce", 0, "order nonce within the slot")
	f.Uint64Var(&opts.BaseToken, "base-token", 0, "base token id")
	f.Uint64Var(&opts.QuoteToken, "quote-token", 0, "quote token id")
	f.StringVar(&opts.Amount, "amount", "", "base token amount")
	f.StringVar(&opts.Price, "price", "", "price in quote token per base token")
	f.BoolVar(&opts.Sell, "sell", false, "sell order (default buy)")
	f.Uint8Var(&opts.MakerFee, "maker-fee", 0, "maker fee ratio, 100 = 1%")
	f.Uint8Var(&opts.TakerFee, "taker-fee", 0, "taker fee ratio, 100 = 1%")
	for _, name := range []string{"account-id", "base-token", "quote-token", "amount", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (o *signOrderOptions) build() (*tx.Order, error) {
	accountId, err := bindings.FixedInt[types.AccountId]{}.IntoCustom(o.AccountId)
	if err != nil {
		return nil, err
	}
	subAccountId, err := bindings.FixedInt[types.SubAccountId]{}.IntoCustom(o.SubAccountId)
	if err != nil {
		return nil, err
	}
	slotId, err := bindings.FixedInt[types.SlotId]{}.IntoCustom(o.SlotId)
	if err != nil {
		return nil, err
	}
	nonce, err := bindings.FixedInt[types.Nonce]{}.IntoCustom(o.Nonce)
	if err != nil {
		return nil, err
	}
	tokens := bindings.FixedInt[types.TokenId]{}
	base, err := tokens.IntoCustom(o.BaseToken)
	if err != nil {
		return nil, err
	}
	quote, err := tokens.IntoCustom(o.QuoteToken)
	if err != nil {
		return nil, err
	}
	amount, err := bindings.DecimalString{}.IntoCustom(o.Amount)
	if err != nil {
		return nil, err
	}
	price, err := bindings.DecimalString{}.IntoCustom(o.Price)
	if err != nil {
		return nil, err
	}
	return tx.NewOrder(accountId, subAccountId, slotId, nonce, base, quote, amount, price, o.Sell, o.MakerFee, o.TakerFee), nil
}

func orderResult(o *tx.Order) (result, error) {
	hash, err := o.TxHash()
	if err != nil {
		return nil, err
	}
	dec := bindings.DecimalString{}
	return result{
		{"account_id", uint32(o.AccountId)},
		{"sub_account_id", uint8(o.SubAccountId)},
		{"slot_id", uint32(o.SlotId)},
		{"nonce", uint32(o.Nonce)},
		{"base_token_id", uint32(o.BaseTokenId)},
		{"quote_token_id", uint32(o.QuoteTokenId)},
		{"amount", dec.FromCustom(o.Amount)},
		{"price", dec.FromCustom(o.Price)},
		{"is_sell", o.IsSell},
		{"fee_ratio1", o.FeeRatio1},
		{"fee_ratio2", o.FeeRatio2},
		{"tx_hash", bindings.TxHashHex.FromCustom(hash)},
		{"signature", bindings.ZkLinkSignatureHex.FromCustom(&o.Signature)},
	}, nil
}
