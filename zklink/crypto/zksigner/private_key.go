package zksigner

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

const (
	// PrivateKeyLen 大端标量宽度
	PrivateKeyLen = 32
	// MinSeedLen PrivateKeyFromSeed 接受的最短种子
	MinSeedLen = 32
)

// PackedPrivateKey [1, SubOrder) 内的大端标量
type PackedPrivateKey [PrivateKeyLen]byte

// PrivateKeyFromBytes 解析 32 字节标量并检查范围
func PrivateKeyFromBytes(b []byte) (PackedPrivateKey, error) {
	var k PackedPrivateKey
	if len(b) != PrivateKeyLen {
		return k, errors.Wrapf(types.ErrSignature, "private key: expected %d bytes, got %d", PrivateKeyLen, len(b))
	}
	v := new(big.Int).SetBytes(b)
	if v.Sign() == 0 || v.Cmp(babyjub.SubOrder) >= 0 {
		return k, errors.Wrap(types.ErrSignature, "private key scalar out of range")
	}
	copy(k[:], b)
	return k, nil
}

// PrivateKeyFromHex 解析 0x 前缀的私钥
func PrivateKeyFromHex(s string) (PackedPrivateKey, error) {
	raw, err := types.DecodePrefixedHex(s, PrivateKeyLen)
	if err != nil {
		return PackedPrivateKey{}, err
	}
	return PrivateKeyFromBytes(raw)
}

// PrivateKeyFromSeed 对种子反复做 SHA-256，摘要按子群阶位长掩码后落在
// 合法范围内即为私钥
func PrivateKeyFromSeed(seed []byte) (PackedPrivateKey, error) {
	if len(seed) < MinSeedLen {
		return PackedPrivateKey{}, errors.Wrapf(types.ErrSizeMismatch, "seed must be at least %d bytes, got %d", MinSeedLen, len(seed))
	}
	bitLen := babyjub.SubOrder.BitLen()
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bitLen)), big.NewInt(1))

	digest := sha256.Sum256(seed)
	for {
		v := new(big.Int).SetBytes(digest[:])
		v.And(v, mask)
		if v.Sign() > 0 && v.Cmp(babyjub.SubOrder) < 0 {
			var k PackedPrivateKey
			v.FillBytes(k[:])
			return k, nil
		}
		digest = sha256.Sum256(digest[:])
	}
}

// NewRandomPrivateKey 从 crypto/rand 取种子
func NewRandomPrivateKey() (PackedPrivateKey, error) {
	seed := make([]byte, MinSeedLen)
	if _, err := rand.Read(seed); err != nil {
		return PackedPrivateKey{}, errors.Wrap(err, "read random seed")
	}
	return PrivateKeyFromSeed(seed)
}

func (k PackedPrivateKey) scalar() *big.Int {
	return new(big.Int).SetBytes(k[:])
}

func (k PackedPrivateKey) Bytes() []byte { return k[:] }
func (k PackedPrivateKey) Hex() string   { return types.EncodePrefixedHex(k[:]) }

// PublicKey 压缩后的 sk·B8
func (k PackedPrivateKey) PublicKey() PackedPublicKey {
	return PackedPublicKey(babyjub.NewPoint().Mul(k.scalar(), babyjub.B8).Compress())
}
