package types

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// AccountId zkLink 网络账户 ID
type AccountId uint32

// SubAccountId 子账户 ID
type SubAccountId uint8

// TokenId 代币 ID
type TokenId uint32

// SlotId 订单槽位 ID
type SlotId uint32

// Nonce 账户 nonce
type Nonce uint32

// ChainId 链 ID
type ChainId uint8

// PairId 交易对 ID
type PairId uint16

// BlockNumber 区块号
type BlockNumber uint32

// PriorityOpId 优先操作序号
type PriorityOpId uint64

// EthBlockId L1 区块号
type EthBlockId uint64

// TimeStamp 秒级时间戳
type TimeStamp uint32

// Unsigned 所有标识符类型的约束
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ScalarWidth 返回类型 T 的字节宽度
func ScalarWidth[T Unsigned]() int {
	n := 0
	for m := uint64(^T(0)); m > 0; m >>= 8 {
		n++
	}
	return n
}

// 协议编码中比 Go 类型更窄的字段
const (
	// MaxTokenIdValue TokenId 在交易中只编码 2 字节
	MaxTokenIdValue = 1<<16 - 1
	// MaxSlotIdValue SlotId 在订单中只编码 2 字节
	MaxSlotIdValue = 1<<16 - 1
	// MaxOrderNonceValue 订单 nonce 只编码 3 字节
	MaxOrderNonceValue = 1<<24 - 1
)

// MaxOf 类型 T 在链上字段中能表示的最大值
func MaxOf[T Unsigned]() uint64 {
	var zero T
	switch any(zero).(type) {
	case TokenId:
		return MaxTokenIdValue
	case SlotId:
		return MaxSlotIdValue
	}
	return uint64(^T(0))
}

// NewScalar 从 uint64 构造标识符，超出链上字段宽度返回 ErrRange
func NewScalar[T Unsigned](v uint64) (T, error) {
	if max := MaxOf[T](); v > max {
		return 0, errors.Wrapf(ErrRange, "%T %d exceeds maximum %d", T(0), v, max)
	}
	return T(v), nil
}

// NewOrderNonce 订单 nonce 只占 3 字节，与交易 nonce 共用 Nonce 类型
func NewOrderNonce(v uint64) (Nonce, error) {
	if v > MaxOrderNonceValue {
		return 0, errors.Wrapf(ErrRange, "order nonce %d exceeds maximum %d", v, MaxOrderNonceValue)
	}
	return Nonce(v), nil
}

// ScalarBytes 标识符的大端定长字节
func ScalarBytes[T Unsigned](v T) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[8-ScalarWidth[T]():]
}

// ScalarFromBytes 从大端定长字节还原标识符
func ScalarFromBytes[T Unsigned](b []byte) (T, error) {
	width := ScalarWidth[T]()
	if len(b) != width {
		return 0, errors.Wrapf(ErrSizeMismatch, "expected %d bytes, got %d", width, len(b))
	}
	var buf [8]byte
	copy(buf[8-width:], b)
	return T(binary.BigEndian.Uint64(buf[:])), nil
}

// UintBytes 以 width 字节大端写出 v，超出宽度返回 ErrRange
func UintBytes(v uint64, width int) ([]byte, error) {
	if width < 8 && v>>(8*uint(width)) != 0 {
		return nil, errors.Wrapf(ErrRange, "%d does not fit in %d bytes", v, width)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[8-width:], nil
}
