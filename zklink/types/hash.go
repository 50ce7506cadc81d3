package types

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ZeroxPrefix 所有十六进制字符串的前缀
const ZeroxPrefix = "0x"

// TxHash 交易哈希：按协议编码后的交易字节的 SHA-256
type TxHash [32]byte

// H256 通用 32 字节哈希
type H256 [32]byte

// DecodePrefixedHex 解析 0x 前缀的十六进制字符串，size>=0 时要求字节长度一致
func DecodePrefixedHex(s string, size int) ([]byte, error) {
	if !strings.HasPrefix(s, ZeroxPrefix) {
		return nil, errors.Wrapf(ErrParse, "%q should start with %s", s, ZeroxPrefix)
	}
	raw, err := hex.DecodeString(s[len(ZeroxPrefix):])
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "invalid hex %q: %v", s, err)
	}
	if size >= 0 && len(raw) != size {
		return nil, errors.Wrapf(ErrSizeMismatch, "expected %d bytes, got %d", size, len(raw))
	}
	return raw, nil
}

// EncodePrefixedHex 编码为 0x 前缀的小写十六进制
func EncodePrefixedHex(b []byte) string {
	return ZeroxPrefix + hex.EncodeToString(b)
}

// TxHashFromSlice 从 32 字节构造
func TxHashFromSlice(b []byte) (TxHash, error) {
	var h TxHash
	if len(b) != len(h) {
		return h, errors.Wrapf(ErrSizeMismatch, "expected %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

// TxHashFromHex 解析 0x 十六进制
func TxHashFromHex(s string) (TxHash, error) {
	raw, err := DecodePrefixedHex(s, 32)
	if err != nil {
		return TxHash{}, err
	}
	return TxHashFromSlice(raw)
}

func (h TxHash) Bytes() []byte  { return h[:] }
func (h TxHash) Hex() string    { return EncodePrefixedHex(h[:]) }
func (h TxHash) String() string { return h.Hex() }

func (h TxHash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *TxHash) UnmarshalText(text []byte) error {
	v, err := TxHashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// H256FromSlice 从 32 字节构造
func H256FromSlice(b []byte) (H256, error) {
	var h H256
	if len(b) != len(h) {
		return h, errors.Wrapf(ErrSizeMismatch, "expected %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

// H256FromHex 解析 0x 十六进制
func H256FromHex(s string) (H256, error) {
	raw, err := DecodePrefixedHex(s, 32)
	if err != nil {
		return H256{}, err
	}
	return H256FromSlice(raw)
}

func (h H256) Bytes() []byte  { return h[:] }
func (h H256) Hex() string    { return EncodePrefixedHex(h[:]) }
func (h H256) String() string { return h.Hex() }

func (h H256) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *H256) UnmarshalText(text []byte) error {
	v, err := H256FromHex(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
