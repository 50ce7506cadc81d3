package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	// EthAddressLen EVM 链地址长度
	EthAddressLen = 20
	// PaddedAddressLen 地址在交易编码中的固定宽度
	PaddedAddressLen = 32
)

// GlobalAccountAddress 全局资产账户地址
var GlobalAccountAddress = ZkLinkAddress(bytes.Repeat([]byte{0xff}, EthAddressLen))

// ZkLinkAddress 链地址：EVM 链 20 字节，其他链 32 字节
type ZkLinkAddress []byte

// ZkLinkAddressFromHex 解析 0x 十六进制地址
func ZkLinkAddressFromHex(s string) (ZkLinkAddress, error) {
	raw, err := DecodePrefixedHex(s, -1)
	if err != nil {
		return nil, err
	}
	if len(raw) != EthAddressLen && len(raw) != PaddedAddressLen {
		return nil, errors.Wrapf(ErrSizeMismatch, "address must be %d or %d bytes, got %d",
			EthAddressLen, PaddedAddressLen, len(raw))
	}
	return ZkLinkAddress(raw), nil
}

// ZkLinkAddressFromEth 由 go-ethereum 地址构造
func ZkLinkAddressFromEth(addr common.Address) ZkLinkAddress {
	return ZkLinkAddress(addr.Bytes())
}

func (a ZkLinkAddress) String() string { return EncodePrefixedHex(a) }
func (a ZkLinkAddress) Bytes() []byte  { return a }

// IsZero 全零地址
func (a ZkLinkAddress) IsZero() bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// IsGlobalAccountAddress 是否为全局资产账户地址
func (a ZkLinkAddress) IsGlobalAccountAddress() bool {
	return bytes.Equal(a, GlobalAccountAddress)
}

// Padded 前补零到 32 字节（交易编码使用）
func (a ZkLinkAddress) Padded() ([]byte, error) {
	if len(a) > PaddedAddressLen {
		return nil, errors.Wrapf(ErrSizeMismatch, "address longer than %d bytes", PaddedAddressLen)
	}
	out := make([]byte, PaddedAddressLen)
	copy(out[PaddedAddressLen-len(a):], a)
	return out, nil
}

// ToEthAddress 转为 20 字节 EVM 地址
func (a ZkLinkAddress) ToEthAddress() (common.Address, error) {
	if len(a) != EthAddressLen {
		return common.Address{}, errors.Wrapf(ErrSizeMismatch, "not an EVM address: %d bytes", len(a))
	}
	return common.BytesToAddress(a), nil
}

func (a ZkLinkAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ZkLinkAddress) UnmarshalText(text []byte) error {
	v, err := ZkLinkAddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
