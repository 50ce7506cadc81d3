package zksigner

import (
	"crypto/sha256"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/utils"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/rescue"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// SignMusig 签名 msg，返回 pk(32) ∥ R(32) ∥ S(32)
func SignMusig(privateKey []byte, msg []byte) ([]byte, error) {
	sk, err := PrivateKeyFromBytes(privateKey)
	if err != nil {
		return nil, err
	}
	return signMusig(sk, msg).Bytes(), nil
}

func signMusig(sk PackedPrivateKey, msg []byte) *ZkLinkSignature {
	scalar := sk.scalar()
	pkPoint := babyjub.NewPoint().Mul(scalar, babyjub.B8)
	digest := RescueHashTxMsg(msg)

	r := deterministicNonce(sk, digest)
	rPoint := babyjub.NewPoint().Mul(r, babyjub.B8)

	c := challenge(rPoint, pkPoint, digest)
	s := new(big.Int).Mul(c, scalar)
	s.Add(s, r)
	s.Mod(s, babyjub.SubOrder)

	sig := &ZkLinkSignature{PubKey: PackedPublicKey(pkPoint.Compress())}
	rPacked := rPoint.Compress()
	copy(sig.Signature[:PublicKeyLen], rPacked[:])
	sLE := utils.BigIntLEBytes(s)
	copy(sig.Signature[PublicKeyLen:], sLE[:])
	return sig
}

// VerifyMusig 校验 msg 上的 96 字节签名。格式正确但不匹配的签名返回
// false 和 nil 错误。
func VerifyMusig(msg []byte, signature []byte) (bool, error) {
	sig, err := SignatureFromBytes(signature)
	if err != nil {
		return false, err
	}
	pkPoint, err := sig.PubKey.Point()
	if err != nil {
		return false, err
	}
	var rPacked [32]byte
	copy(rPacked[:], sig.Signature[:PublicKeyLen])
	rPoint, err := decompress(rPacked, "signature R")
	if err != nil {
		return false, err
	}
	s := utils.SetBigIntFromLEBytes(new(big.Int), sig.Signature[PublicKeyLen:])
	if s.Cmp(babyjub.SubOrder) >= 0 {
		return false, errors.Wrap(types.ErrSignature, "signature S not below subgroup order")
	}

	digest := RescueHashTxMsg(msg)
	c := challenge(rPoint, pkPoint, digest)

	// s·B8 == R + c·pk
	lhs := babyjub.NewPoint().Mul(s, babyjub.B8)
	cpk := babyjub.NewPoint().Mul(c, pkPoint)
	rhs := babyjub.NewPointProjective().Add(rPoint.Projective(), cpk.Projective()).Affine()
	return lhs.X.Cmp(rhs.X) == 0 && lhs.Y.Cmp(rhs.Y) == 0, nil
}

// deterministicNonce SHA-256(sk ∥ digest) 对子群阶取模，为零时重新哈希。
// nonce 与 challenge 的构造未与参考实现的测试向量核对
func deterministicNonce(sk PackedPrivateKey, digest []byte) *big.Int {
	h := sha256.New()
	h.Write(sk[:])
	h.Write(digest)
	sum := h.Sum(nil)
	for {
		r := new(big.Int).SetBytes(sum)
		r.Mod(r, babyjub.SubOrder)
		if r.Sign() != 0 {
			return r
		}
		next := sha256.Sum256(sum)
		sum = next[:]
	}
}

// challenge Rescue(R.x, R.y, pk.x, pk.y, digest 分组) 对子群阶取模
func challenge(r, pk *babyjub.Point, digest []byte) *big.Int {
	inputs := []*big.Int{r.X, r.Y, pk.X, pk.Y}
	inputs = append(inputs, rescue.BitsToElements(rescue.BytesToBits(digest))...)
	c := rescue.Hash(inputs)
	return c.Mod(c, babyjub.SubOrder)
}
