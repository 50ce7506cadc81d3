package tx

import "github.com/zklinkprotocol/zklink-go-sdk/zklink/types"

// 交易类型标签，编码的第一个字节
const (
	DepositTxType       byte = 0x01
	TransferTxType      byte = 0x04
	ChangePubKeyTxType  byte = 0x06
	OrderMatchingTxType byte = 0x08
	// OrderMsgType 订单不是独立交易，使用保留标签
	OrderMsgType byte = 0xff
)

// 协议字段范围
const (
	MaxAccountId    = 1<<24 - 1
	MaxSubAccountId = 31
	MaxTokenId      = types.MaxTokenIdValue
	MaxSlotId       = types.MaxSlotIdValue
	// MaxNonce 交易 nonce 必须小于 u32::MAX
	MaxNonce = 1<<32 - 2
	// MaxOrderNonce 订单 nonce 只编码 3 字节
	MaxOrderNonce = types.MaxOrderNonceValue
	MinChainId    = 1
	MaxChainId    = 255

	PriceBitWidth = 120
)

// 编码长度
const (
	OrderBytes         = 38
	OrderMatchingBytes = 74
	TransferBytes      = 56
	DepositBytes       = 95
	// ChangePubKeyBaseBytes 不含授权数据
	ChangePubKeyBaseBytes = 39
)
