package tx

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// OrderMatching 撮合一对 maker/taker 订单
type OrderMatching struct {
	AccountId    types.AccountId    `validate:"account"`
	SubAccountId types.SubAccountId `validate:"sub_account"`
	Taker        Order
	Maker        Order
	Fee          *big.Int      `validate:"required,fee_packable"`
	FeeToken     types.TokenId `validate:"token"`
	// ExpectBaseAmount/ExpectQuoteAmount 提交者期望的最大成交量，0 表示不限制。
	// 两者之差不一定可压缩，因此按 u128 原样编码
	ExpectBaseAmount  *big.Int                 `validate:"required,amount_unpackable"`
	ExpectQuoteAmount *big.Int                 `validate:"required,amount_unpackable"`
	Signature         zksigner.ZkLinkSignature `validate:"-"`
}

// NewOrderMatching 创建未签名撮合交易
func NewOrderMatching(
	accountId types.AccountId,
	subAccountId types.SubAccountId,
	taker Order,
	maker Order,
	fee *big.Int,
	feeToken types.TokenId,
	expectBaseAmount *big.Int,
	expectQuoteAmount *big.Int,
) *OrderMatching {
	return &OrderMatching{
		AccountId:         accountId,
		SubAccountId:      subAccountId,
		Taker:             taker,
		Maker:             maker,
		Fee:               fee,
		FeeToken:          feeToken,
		ExpectBaseAmount:  expectBaseAmount,
		ExpectQuoteAmount: expectQuoteAmount,
	}
}

func (m *OrderMatching) TxType() byte { return OrderMatchingTxType }

// CheckOrdersWidth maker ∥ taker 超过 zksigner.OrdersBytes 时会被截断，返回 ErrRange
func CheckOrdersWidth(maker, taker []byte) error {
	if n := len(maker) + len(taker); n > zksigner.OrdersBytes {
		return errors.Wrapf(types.ErrRange, "orders block is %d bytes, limit %d", n, zksigner.OrdersBytes)
	}
	return nil
}

// OrdersBlock maker ∥ taker 补零（或截断）到 zksigner.OrdersBytes
func OrdersBlock(maker, taker []byte) []byte {
	block := make([]byte, zksigner.OrdersBytes)
	n := copy(block, maker)
	copy(block[n:], taker)
	return block
}

// OrdersHash 两个订单编码的 Rescue 哈希
func (m *OrderMatching) OrdersHash() ([]byte, error) {
	maker, err := m.Maker.GetBytes()
	if err != nil {
		return nil, errors.Wrap(err, "maker")
	}
	taker, err := m.Taker.GetBytes()
	if err != nil {
		return nil, errors.Wrap(err, "taker")
	}
	return zksigner.RescueHashOrders(OrdersBlock(maker, taker))
}

// GetBytes 74 字节：tag account sub ordersHash(32) feeToken fee(2) expectBase(16) expectQuote(16)
func (m *OrderMatching) GetBytes() ([]byte, error) {
	ordersHash, err := m.OrdersHash()
	if err != nil {
		return nil, err
	}
	e := newEncoder(OrderMatchingTxType, OrderMatchingBytes)
	e.u32(uint32(m.AccountId))
	e.u8(uint8(m.SubAccountId))
	e.raw(ordersHash)
	e.u16("FeeToken", uint32(m.FeeToken))
	e.feeAmount("fee", m.Fee)
	e.u128("expect base amount", m.ExpectBaseAmount)
	e.u128("expect quote amount", m.ExpectQuoteAmount)
	return e.bytes()
}

func (m *OrderMatching) Sign(signer MusigSigner) error {
	sig, err := signBytes(signer, m.GetBytes)
	if err != nil {
		return err
	}
	m.Signature = sig
	return nil
}

func (m *OrderMatching) IsSignatureValid() (bool, error) {
	return verifyBytes(m.Signature, m.GetBytes)
}

// Validate 校验自身字段、maker/taker 两个订单，以及订单块宽度
func (m *OrderMatching) Validate() error {
	errs := []error{validateStruct("OrderMatching", m)}

	maker, makerErr := m.Maker.GetBytes()
	taker, takerErr := m.Taker.GetBytes()
	if makerErr == nil && takerErr == nil {
		if err := CheckOrdersWidth(maker, taker); err != nil {
			errs = append(errs, &types.ValidationError{
				TxType: "OrderMatching",
				Fields: []types.FieldError{{Field: "Orders", Rule: "orders_width", Value: len(maker) + len(taker)}},
			})
		}
	}
	return mergeValidation("OrderMatching", errs...)
}

func (m *OrderMatching) IsValid() bool {
	return m.Validate() == nil
}

func (m *OrderMatching) TxHash() (types.TxHash, error) {
	return txHash(m.GetBytes)
}
