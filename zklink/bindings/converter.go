// Package bindings SDK 类型与跨语言、序列化边界上的原始形式互转：
// 无符号整数、十进制字符串和 0x 前缀的 hex 字符串。
package bindings

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Converter 自定义类型 T 与边界形式 B 之间的双向转换
type Converter[T any, B any] interface {
	IntoCustom(B) (T, error)
	FromCustom(T) B
}

// FixedInt 标识符类型与 uint64 互转，带宽度检查
type FixedInt[T types.Unsigned] struct{}

func (FixedInt[T]) IntoCustom(v uint64) (T, error) { return types.NewScalar[T](v) }
func (FixedInt[T]) FromCustom(v T) uint64          { return uint64(v) }

// DecimalString 金额与十进制字符串互转
type DecimalString struct{}

func (DecimalString) IntoCustom(s string) (*big.Int, error) { return types.ParseBigUint(s) }
func (DecimalString) FromCustom(v *big.Int) string          { return types.FormatBigUint(v) }

// Byter 有规范字节形式的定长字节类型
type Byter interface {
	Bytes() []byte
}

// HexString 定长字节类型与 0x 前缀小写 hex 互转
type HexString[T Byter] struct {
	size  int
	parse func([]byte) (T, error)
}

// NewHexString size < 0 时不限长度，由 parse 自行检查
func NewHexString[T Byter](size int, parse func([]byte) (T, error)) HexString[T] {
	return HexString[T]{size: size, parse: parse}
}

func (h HexString[T]) IntoCustom(s string) (T, error) {
	raw, err := types.DecodePrefixedHex(s, h.size)
	if err != nil {
		var zero T
		return zero, err
	}
	return h.parse(raw)
}

func (h HexString[T]) FromCustom(v T) string {
	return types.EncodePrefixedHex(v.Bytes())
}

var (
	_ Converter[types.AccountId, uint64] = FixedInt[types.AccountId]{}
	_ Converter[*big.Int, string]        = DecimalString{}
	_ Converter[types.TxHash, string]    = TxHashHex
)

// 各定长字节类型的 hex 转换器
var (
	TxHashHex = NewHexString(32, types.TxHashFromSlice)
	H256Hex   = NewHexString(32, types.H256FromSlice)

	ZkLinkAddressHex = NewHexString(-1, func(b []byte) (types.ZkLinkAddress, error) {
		if len(b) != types.EthAddressLen && len(b) != types.PaddedAddressLen {
			return nil, errors.Wrapf(types.ErrSizeMismatch, "address must be %d or %d bytes, got %d",
				types.EthAddressLen, types.PaddedAddressLen, len(b))
		}
		return types.ZkLinkAddress(b), nil
	})

	PubKeyHashHex = NewHexString(zksigner.PubKeyHashLen, func(b []byte) (zksigner.PubKeyHash, error) {
		var h zksigner.PubKeyHash
		copy(h[:], b)
		return h, nil
	})

	PackedPublicKeyHex = NewHexString(zksigner.PublicKeyLen, zksigner.PublicKeyFromBytes)

	ZkLinkSignatureHex = NewHexString(zksigner.SignatureLen, zksigner.SignatureFromBytes)

	PackedEthSignatureHex = NewHexString(ethsigner.SignatureLen, ethsigner.SignatureFromBytes)
)
