// Package pack 实现金额的浮点式压缩：mantissa × 10^exponent，定宽写入交易字节。
//
// 压缩是有损的：先选取能容纳尾数的最小指数，尾数向下取整。
// 签名前必须用 IsPackable 校验，不可无损压缩的金额会被校验拒绝。
package pack

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Format 尾数/指数位宽
type Format struct {
	Name         string
	MantissaBits uint
	ExponentBits uint
}

var (
	// TokenAmount 代币数量：35 位尾数 + 5 位指数，共 5 字节
	TokenAmount = Format{Name: "token amount", MantissaBits: 35, ExponentBits: 5}
	// FeeAmount 手续费：11 位尾数 + 5 位指数，共 2 字节
	FeeAmount = Format{Name: "fee amount", MantissaBits: 11, ExponentBits: 5}
)

var ten = big.NewInt(10)

// Bytes 压缩后的字节数
func (f Format) Bytes() int {
	return int(f.MantissaBits+f.ExponentBits) / 8
}

// MaxMantissa 2^MantissaBits - 1
func (f Format) MaxMantissa() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), f.MantissaBits)
	return m.Sub(m, big.NewInt(1))
}

// MaxExponent 2^ExponentBits - 1
func (f Format) MaxExponent() int64 {
	return int64(1)<<f.ExponentBits - 1
}

// MaxAmount 可表示的最大值 maxMantissa × 10^maxExponent
func (f Format) MaxAmount() *big.Int {
	p := new(big.Int).Exp(ten, big.NewInt(f.MaxExponent()), nil)
	return p.Mul(p, f.MaxMantissa())
}

// Pack 压缩金额。超过 MaxAmount 或为负数时返回 ErrUnpackableAmount，
// 范围内但有损的金额会被截断，需要调用方先做 IsPackable 校验。
func (f Format) Pack(amount *big.Int) ([]byte, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, errors.Wrapf(types.ErrUnpackableAmount, "%s must be non-negative", f.Name)
	}
	if amount.Cmp(f.MaxAmount()) > 0 {
		return nil, errors.Wrapf(types.ErrUnpackableAmount, "%s %s exceeds %s", f.Name, amount, f.MaxAmount())
	}

	maxMantissa := f.MaxMantissa()
	mantissa := new(big.Int).Set(amount)
	var exponent int64
	for mantissa.Cmp(maxMantissa) > 0 {
		mantissa.Quo(mantissa, ten)
		exponent++
	}

	packed := mantissa.Lsh(mantissa, f.ExponentBits)
	packed.Or(packed, big.NewInt(exponent))
	return packed.FillBytes(make([]byte, f.Bytes())), nil
}

// Unpack 还原金额
func (f Format) Unpack(data []byte) (*big.Int, error) {
	if len(data) != f.Bytes() {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "%s: expected %d bytes, got %d", f.Name, f.Bytes(), len(data))
	}
	packed := new(big.Int).SetBytes(data)
	exponent := new(big.Int).And(packed, big.NewInt(f.MaxExponent()))
	mantissa := packed.Rsh(packed, f.ExponentBits)
	scale := new(big.Int).Exp(ten, exponent, nil)
	return mantissa.Mul(mantissa, scale), nil
}

// IsPackable unpack(pack(amount)) == amount
func (f Format) IsPackable(amount *big.Int) bool {
	packed, err := f.Pack(amount)
	if err != nil {
		return false
	}
	back, err := f.Unpack(packed)
	if err != nil {
		return false
	}
	return back.Cmp(amount) == 0
}

// ClosestPackable 不超过 amount 的最大可压缩值
func (f Format) ClosestPackable(amount *big.Int) (*big.Int, error) {
	packed, err := f.Pack(amount)
	if err != nil {
		return nil, err
	}
	return f.Unpack(packed)
}

// PackTokenAmount 按代币数量格式压缩
func PackTokenAmount(amount *big.Int) ([]byte, error) {
	return TokenAmount.Pack(amount)
}

// PackFeeAmount 按手续费格式压缩
func PackFeeAmount(amount *big.Int) ([]byte, error) {
	return FeeAmount.Pack(amount)
}

func UnpackTokenAmount(data []byte) (*big.Int, error) {
	return TokenAmount.Unpack(data)
}

func UnpackFeeAmount(data []byte) (*big.Int, error) {
	return FeeAmount.Unpack(data)
}

func IsTokenAmountPackable(amount *big.Int) bool {
	return TokenAmount.IsPackable(amount)
}

func IsFeeAmountPackable(amount *big.Int) bool {
	return FeeAmount.IsPackable(amount)
}
