package zksigner

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/rescue"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

const (
	// OrdersBytes OrderMatching 中 maker ∥ taker 块的固定宽度，改动即破坏协议
	OrdersBytes = 178
	// PadMsgBeforeHashBits 短于该位数的消息哈希前补零
	PadMsgBeforeHashBits = 736
	// DigestLen Rescue 摘要字节数
	DigestLen = 32
)

// RescueHashTxMsg 将交易规范编码哈希成待签名的 32 字节摘要
func RescueHashTxMsg(msg []byte) []byte {
	bits := rescue.BytesToBits(msg)
	if len(bits) < PadMsgBeforeHashBits {
		bits = append(bits, make([]bool, PadMsgBeforeHashBits-len(bits))...)
	}
	return elementBytes(rescue.Hash(rescue.BitsToElements(bits)))
}

// RescueHashOrders 哈希长度恰为 OrdersBytes 的 maker ∥ taker 块
func RescueHashOrders(block []byte) ([]byte, error) {
	if len(block) != OrdersBytes {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "orders block: expected %d bytes, got %d", OrdersBytes, len(block))
	}
	return elementBytes(rescue.HashBytes(block)), nil
}

func elementBytes(v *big.Int) []byte {
	return v.FillBytes(make([]byte, DigestLen))
}
