package tx

import (
	"math/big"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Deposit L1 充值产生的优先操作，不需要二层签名
type Deposit struct {
	FromChainId   types.ChainId       `validate:"chain"`
	From          types.ZkLinkAddress `validate:"-"`
	SubAccountId  types.SubAccountId  `validate:"sub_account"`
	To            types.ZkLinkAddress `validate:"zklink_address"`
	L2TargetToken types.TokenId       `validate:"token"`
	L1SourceToken types.TokenId       `validate:"token"`
	Amount        *big.Int            `validate:"required,amount_unpackable"`
	SerialId      uint64
	L2Hash        types.H256
}

func (d *Deposit) TxType() byte { return DepositTxType }

// GetBytes tag fromChain sub l2Token l1Token amount(16) to(32) serialId(8) l2Hash(32)
func (d *Deposit) GetBytes() ([]byte, error) {
	e := newEncoder(DepositTxType, DepositBytes)
	e.u8(uint8(d.FromChainId))
	e.u8(uint8(d.SubAccountId))
	e.u16("L2TargetToken", uint32(d.L2TargetToken))
	e.u16("L1SourceToken", uint32(d.L1SourceToken))
	e.u128("amount", d.Amount)
	e.address("to", d.To)
	e.u64(d.SerialId)
	e.raw(d.L2Hash.Bytes())
	return e.bytes()
}

func (d *Deposit) Validate() error {
	return validateStruct("Deposit", d)
}

func (d *Deposit) IsValid() bool {
	return d.Validate() == nil
}

func (d *Deposit) TxHash() (types.TxHash, error) {
	return txHash(d.GetBytes)
}
