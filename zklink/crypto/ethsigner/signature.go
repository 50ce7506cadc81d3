package ethsigner

import (
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// SignatureLen r(32) + s(32) + v(1)
const SignatureLen = 65

// PackedEthSignature 以太坊 ECDSA 签名，v 为 27/28
type PackedEthSignature [SignatureLen]byte

// SignatureFromBytes 从 65 字节构造
func SignatureFromBytes(b []byte) (PackedEthSignature, error) {
	var sig PackedEthSignature
	if len(b) != SignatureLen {
		return sig, errors.Wrapf(types.ErrSizeMismatch, "eth signature: expected %d bytes, got %d", SignatureLen, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

// SignatureFromHex 解析 0x 十六进制签名
func SignatureFromHex(s string) (PackedEthSignature, error) {
	raw, err := types.DecodePrefixedHex(s, SignatureLen)
	if err != nil {
		return PackedEthSignature{}, err
	}
	return SignatureFromBytes(raw)
}

func (s PackedEthSignature) Bytes() []byte  { return s[:] }
func (s PackedEthSignature) Hex() string    { return types.EncodePrefixedHex(s[:]) }
func (s PackedEthSignature) String() string { return s.Hex() }

// IsEmpty 全零签名
func (s PackedEthSignature) IsEmpty() bool {
	return s == PackedEthSignature{}
}

func (s PackedEthSignature) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

func (s *PackedEthSignature) UnmarshalText(text []byte) error {
	v, err := SignatureFromHex(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// RecoverAddress 从 32 字节摘要恢复签名地址
func (s PackedEthSignature) RecoverAddress(digest []byte) (common.Address, error) {
	sig := s
	// 还原 crypto.Ecrecover 需要的 0/1 恢复位
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(digest, sig[:])
	if err != nil {
		return common.Address{}, errors.Wrapf(types.ErrSignature, "recover eth signer: %v", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// RecoverPersonal 恢复 personal_sign 消息的签名地址
func (s PackedEthSignature) RecoverPersonal(message []byte) (common.Address, error) {
	return s.RecoverAddress(accounts.TextHash(message))
}
