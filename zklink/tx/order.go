package tx

import (
	"fmt"
	"math/big"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Order 限价单，由 OrderMatching 撮合，本身不单独上链
type Order struct {
	AccountId    types.AccountId    `validate:"account"`
	SubAccountId types.SubAccountId `validate:"sub_account"`
	SlotId       types.SlotId       `validate:"slot"`
	Nonce        types.Nonce        `validate:"order_nonce"`
	BaseTokenId  types.TokenId      `validate:"token"`
	QuoteTokenId types.TokenId      `validate:"token"`
	// Amount 买卖的 base token 数量，需可压缩
	Amount *big.Int `validate:"required,amount_packable"`
	// Price 每个 base token 的 quote 价格，精度放大后的整数
	Price *big.Int `validate:"required,price"`
	// IsSell 0 买 1 卖
	IsSell uint8 `validate:"boolean"`
	// FeeRatio1 maker 费率，100 表示 1%
	FeeRatio1 uint8
	// FeeRatio2 taker 费率
	FeeRatio2 uint8
	Signature zksigner.ZkLinkSignature `validate:"-"`
}

// NewOrder 创建未签名订单
func NewOrder(
	accountId types.AccountId,
	subAccountId types.SubAccountId,
	slotId types.SlotId,
	nonce types.Nonce,
	baseTokenId types.TokenId,
	quoteTokenId types.TokenId,
	amount *big.Int,
	price *big.Int,
	isSell bool,
	feeRatio1 uint8,
	feeRatio2 uint8,
) *Order {
	var side uint8
	if isSell {
		side = 1
	}
	return &Order{
		AccountId:    accountId,
		SubAccountId: subAccountId,
		SlotId:       slotId,
		Nonce:        nonce,
		BaseTokenId:  baseTokenId,
		QuoteTokenId: quoteTokenId,
		Amount:       amount,
		Price:        price,
		IsSell:       side,
		FeeRatio1:    feeRatio1,
		FeeRatio2:    feeRatio2,
	}
}

func (o *Order) TxType() byte { return OrderMsgType }

// GetBytes 38 字节：tag account sub slot nonce(3) base quote price(15) isSell ratio1 ratio2 amount(5)
func (o *Order) GetBytes() ([]byte, error) {
	e := newEncoder(OrderMsgType, OrderBytes)
	e.u32(uint32(o.AccountId))
	e.u8(uint8(o.SubAccountId))
	e.u16("SlotId", uint32(o.SlotId))
	e.u24("Nonce", uint32(o.Nonce))
	e.u16("BaseTokenId", uint32(o.BaseTokenId))
	e.u16("QuoteTokenId", uint32(o.QuoteTokenId))
	e.uintBits("price", o.Price, PriceBitWidth)
	e.u8(o.IsSell)
	e.u8(o.FeeRatio1)
	e.u8(o.FeeRatio2)
	e.tokenAmount("amount", o.Amount)
	return e.bytes()
}

// Sign 对编码签名，重复签名会覆盖旧签名
func (o *Order) Sign(signer MusigSigner) error {
	sig, err := signBytes(signer, o.GetBytes)
	if err != nil {
		return err
	}
	o.Signature = sig
	return nil
}

func (o *Order) IsSignatureValid() (bool, error) {
	return verifyBytes(o.Signature, o.GetBytes)
}

// Validate 校验所有字段，返回 *types.ValidationError
func (o *Order) Validate() error {
	return validateStruct("Order", o)
}

func (o *Order) IsValid() bool {
	return o.Validate() == nil
}

func (o *Order) TxHash() (types.TxHash, error) {
	return txHash(o.GetBytes)
}

// GetEthereumSignMessage 交给以太坊钱包展示的订单摘要
func (o *Order) GetEthereumSignMessage(quoteToken, baseToken string, decimals uint8) string {
	var msg string
	if o.Amount == nil || o.Amount.Sign() == 0 {
		msg = fmt.Sprintf("Limit order for %s -> %s\n", quoteToken, baseToken)
	} else {
		msg = fmt.Sprintf("Order for %s %s -> %s\n", types.FormatUnits(o.Amount, decimals), quoteToken, baseToken)
	}
	return msg + fmt.Sprintf("price: %s\nNonce: %d", types.FormatBigUint(o.Price), o.Nonce)
}
