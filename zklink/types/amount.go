package types

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxU128 u128 上限，定宽 16 字节的金额字段不能超过它
var MaxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseBigUint 解析十进制字符串金额，拒绝负数和非十进制输入
func ParseBigUint(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.Wrap(ErrParse, "empty amount")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, errors.Wrapf(ErrParse, "amount %q is not a base-10 unsigned integer", s)
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(ErrParse, "amount %q", s)
	}
	return v, nil
}

// MustParseBigUint 用于常量和测试
func MustParseBigUint(s string) *big.Int {
	v, err := ParseBigUint(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatBigUint 十进制字符串，nil 视为 0
func FormatBigUint(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// FitsU128 金额是否能放进 16 字节
func FitsU128(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(MaxU128) <= 0
}

// U128Bytes 16 字节大端，超出范围返回 ErrRange
func U128Bytes(v *big.Int) ([]byte, error) {
	if !FitsU128(v) {
		return nil, errors.Wrapf(ErrRange, "%s does not fit u128", FormatBigUint(v))
	}
	return v.FillBytes(make([]byte, 16)), nil
}

// FormatUnits 按代币精度格式化，例如 1000000000000000000 / 18 -> "1"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// ParseUnits FormatUnits 的逆操作，多余的小数位直接截断
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "amount %q: %v", value, err)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(ErrRange, "negative amount %q", value)
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}
