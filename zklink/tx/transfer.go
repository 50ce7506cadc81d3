package tx

import (
	"fmt"
	"math/big"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Transfer 二层转账
type Transfer struct {
	AccountId        types.AccountId     `validate:"account"`
	ToAddress        types.ZkLinkAddress `validate:"zklink_address"`
	FromSubAccountId types.SubAccountId  `validate:"sub_account"`
	ToSubAccountId   types.SubAccountId  `validate:"sub_account"`
	Token            types.TokenId       `validate:"token"`
	Amount           *big.Int            `validate:"required,amount_packable"`
	Fee              *big.Int            `validate:"required,fee_packable"`
	Nonce            types.Nonce         `validate:"nonce"`
	Ts               types.TimeStamp

	Signature zksigner.ZkLinkSignature `validate:"-"`
}

// TransferBuilder NewTransfer 的参数
type TransferBuilder struct {
	AccountId        types.AccountId
	ToAddress        types.ZkLinkAddress
	FromSubAccountId types.SubAccountId
	ToSubAccountId   types.SubAccountId
	Token            types.TokenId
	Amount           *big.Int
	Fee              *big.Int
	Nonce            types.Nonce
	Timestamp        types.TimeStamp
}

// NewTransfer 创建未签名转账
func NewTransfer(b TransferBuilder) *Transfer {
	return &Transfer{
		AccountId:        b.AccountId,
		ToAddress:        b.ToAddress,
		FromSubAccountId: b.FromSubAccountId,
		ToSubAccountId:   b.ToSubAccountId,
		Token:            b.Token,
		Amount:           b.Amount,
		Fee:              b.Fee,
		Nonce:            b.Nonce,
		Ts:               b.Timestamp,
	}
}

func (t *Transfer) TxType() byte { return TransferTxType }

// GetBytes 56 字节：tag account fromSub to(32) toSub token amount(5) fee(2) nonce ts
func (t *Transfer) GetBytes() ([]byte, error) {
	e := newEncoder(TransferTxType, TransferBytes)
	e.u32(uint32(t.AccountId))
	e.u8(uint8(t.FromSubAccountId))
	e.address("to", t.ToAddress)
	e.u8(uint8(t.ToSubAccountId))
	e.u16("Token", uint32(t.Token))
	e.tokenAmount("amount", t.Amount)
	e.feeAmount("fee", t.Fee)
	e.u32(uint32(t.Nonce))
	e.u32(uint32(t.Ts))
	return e.bytes()
}

func (t *Transfer) Sign(signer MusigSigner) error {
	sig, err := signBytes(signer, t.GetBytes)
	if err != nil {
		return err
	}
	t.Signature = sig
	return nil
}

func (t *Transfer) IsSignatureValid() (bool, error) {
	return verifyBytes(t.Signature, t.GetBytes)
}

func (t *Transfer) Validate() error {
	return validateStruct("Transfer", t)
}

func (t *Transfer) IsValid() bool {
	return t.Validate() == nil
}

func (t *Transfer) TxHash() (types.TxHash, error) {
	return txHash(t.GetBytes)
}

// GetEthereumSignMessage 交给以太坊钱包展示的转账摘要
func (t *Transfer) GetEthereumSignMessage(tokenSymbol string, decimals uint8) string {
	return fmt.Sprintf("Transfer %s %s\nTo: %s\nNonce: %d\nFee: %s %s",
		types.FormatUnits(t.Amount, decimals), tokenSymbol,
		t.ToAddress, t.Nonce,
		types.FormatUnits(t.Fee, decimals), tokenSymbol)
}
