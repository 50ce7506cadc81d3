package zksigner

import (
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

const (
	// PackedSignatureLen R(32) ∥ S(32)
	PackedSignatureLen = 64
	// SignatureLen 公钥 ∥ R ∥ S
	SignatureLen = PublicKeyLen + PackedSignatureLen
)

// PackedSignature 压缩的 R 后接小端 S
type PackedSignature [PackedSignatureLen]byte

func (s PackedSignature) Bytes() []byte { return s[:] }
func (s PackedSignature) Hex() string   { return types.EncodePrefixedHex(s[:]) }

// ZkLinkSignature 签名者公钥加 musig 签名
type ZkLinkSignature struct {
	PubKey    PackedPublicKey
	Signature PackedSignature
}

// SignatureFromBytes 拆分 96 字节签名，这里只检查长度，
// 无法解压的点由 VerifyMusig 拒绝
func SignatureFromBytes(b []byte) (*ZkLinkSignature, error) {
	if len(b) != SignatureLen {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "signature: expected %d bytes, got %d", SignatureLen, len(b))
	}
	sig := &ZkLinkSignature{}
	copy(sig.PubKey[:], b[:PublicKeyLen])
	copy(sig.Signature[:], b[PublicKeyLen:])
	return sig, nil
}

// SignatureFromHex 解析 0x 前缀的 96 字节签名
func SignatureFromHex(s string) (*ZkLinkSignature, error) {
	raw, err := types.DecodePrefixedHex(s, -1)
	if err != nil {
		return nil, err
	}
	return SignatureFromBytes(raw)
}

// Bytes 公钥 ∥ R ∥ S
func (s *ZkLinkSignature) Bytes() []byte {
	out := make([]byte, 0, SignatureLen)
	out = append(out, s.PubKey[:]...)
	return append(out, s.Signature[:]...)
}

func (s *ZkLinkSignature) Hex() string { return types.EncodePrefixedHex(s.Bytes()) }

// IsEmpty 未签名交易携带的零值
func (s *ZkLinkSignature) IsEmpty() bool {
	return s == nil || (s.PubKey == PackedPublicKey{} && s.Signature == PackedSignature{})
}

// Verify 校验 msg 上的签名
func (s *ZkLinkSignature) Verify(msg []byte) (bool, error) {
	return VerifyMusig(msg, s.Bytes())
}

func (s ZkLinkSignature) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

func (s *ZkLinkSignature) UnmarshalText(text []byte) error {
	v, err := SignatureFromHex(string(text))
	if err != nil {
		return err
	}
	*s = *v
	return nil
}
