package zksigner

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/rescue"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

const (
	// PublicKeyLen 压缩点宽度
	PublicKeyLen = 32
	// PubKeyHashLen 公钥 Rescue 哈希的低 160 位
	PubKeyHashLen = 20
)

// PackedPublicKey 压缩的 Baby Jubjub 点：小端 y，最高位为 x 的符号
type PackedPublicKey [PublicKeyLen]byte

// PublicKeyFromBytes 解析并解压公钥
func PublicKeyFromBytes(b []byte) (PackedPublicKey, error) {
	var pk PackedPublicKey
	if len(b) != PublicKeyLen {
		return pk, errors.Wrapf(types.ErrSizeMismatch, "public key: expected %d bytes, got %d", PublicKeyLen, len(b))
	}
	copy(pk[:], b)
	if _, err := pk.Point(); err != nil {
		return PackedPublicKey{}, err
	}
	return pk, nil
}

// PublicKeyFromHex 解析 0x 前缀的公钥
func PublicKeyFromHex(s string) (PackedPublicKey, error) {
	raw, err := types.DecodePrefixedHex(s, PublicKeyLen)
	if err != nil {
		return PackedPublicKey{}, err
	}
	return PublicKeyFromBytes(raw)
}

// Point 解压公钥
func (pk PackedPublicKey) Point() (*babyjub.Point, error) {
	return decompress(pk, "public key")
}

func (pk PackedPublicKey) Bytes() []byte  { return pk[:] }
func (pk PackedPublicKey) Hex() string    { return types.EncodePrefixedHex(pk[:]) }
func (pk PackedPublicKey) String() string { return pk.Hex() }

func (pk PackedPublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.Hex()), nil
}

func (pk *PackedPublicKey) UnmarshalText(text []byte) error {
	v, err := PublicKeyFromHex(string(text))
	if err != nil {
		return err
	}
	*pk = v
	return nil
}

// PublicKeyHash Rescue(x, y) 的低 160 位
func (pk PackedPublicKey) PublicKeyHash() (PubKeyHash, error) {
	p, err := pk.Point()
	if err != nil {
		return PubKeyHash{}, err
	}
	digest := elementBytes(rescue.Hash([]*big.Int{p.X, p.Y}))
	var h PubKeyHash
	copy(h[:], digest[DigestLen-PubKeyHashLen:])
	return h, nil
}

// PubKeyHash 在 L1 和 L2 上标识 zkLink 签名密钥
type PubKeyHash [PubKeyHashLen]byte

// PubKeyHashFromHex 解析 0x 前缀的哈希
func PubKeyHashFromHex(s string) (PubKeyHash, error) {
	var h PubKeyHash
	raw, err := types.DecodePrefixedHex(s, PubKeyHashLen)
	if err != nil {
		return h, err
	}
	copy(h[:], raw)
	return h, nil
}

func (h PubKeyHash) Bytes() []byte  { return h[:] }
func (h PubKeyHash) Hex() string    { return types.EncodePrefixedHex(h[:]) }
func (h PubKeyHash) String() string { return h.Hex() }

// IsZero 首次 ChangePubKey 之前的未设置状态
func (h PubKeyHash) IsZero() bool { return h == PubKeyHash{} }

func (h PubKeyHash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *PubKeyHash) UnmarshalText(text []byte) error {
	v, err := PubKeyHashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func decompress(buf [32]byte, what string) (p *babyjub.Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, errors.Wrapf(types.ErrSignature, "%s: %v", what, r)
		}
	}()
	p, err = babyjub.NewPoint().Decompress(buf)
	if err != nil {
		return nil, errors.Wrapf(types.ErrSignature, "%s does not decompress: %v", what, err)
	}
	if !p.InSubGroup() {
		return nil, errors.Wrapf(types.ErrSignature, "%s not in prime subgroup", what)
	}
	return p, nil
}
