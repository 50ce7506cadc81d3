// Package zksigner zkLink L2 签名密钥：Baby Jubjub 密钥、基于 Rescue 摘要的
// musig Schnorr 签名，以及由以太坊签名派生密钥。
package zksigner

import (
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
)

// SignMessageForKeyDerivation 由以太坊账户 personal_sign 签名，
// 签名结果作为 L2 私钥的种子
const SignMessageForKeyDerivation = "Sign this message to create a key to interact with zkLink's layer2 services.\n" +
	"NOTE: This application is powered by zkLink protocol.\n\n" +
	"Only sign this message for a trusted client!"

// PersonalSigner 密钥派生所需的以太坊签名能力
type PersonalSigner interface {
	SignMessage(message []byte) (ethsigner.PackedEthSignature, error)
}

// ZkLinkSigner 持有 L2 私钥，不可变，可并发使用
type ZkLinkSigner struct {
	privateKey PackedPrivateKey
	publicKey  PackedPublicKey
}

// NewZkLinkSigner 生成随机密钥
func NewZkLinkSigner() (*ZkLinkSigner, error) {
	sk, err := NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewZkLinkSignerFromPrivateKey(sk), nil
}

// NewZkLinkSignerFromPrivateKey 包装已有私钥
func NewZkLinkSignerFromPrivateKey(sk PackedPrivateKey) *ZkLinkSigner {
	return &ZkLinkSigner{privateKey: sk, publicKey: sk.PublicKey()}
}

// NewZkLinkSignerFromSeed 由至少 32 字节的种子派生
func NewZkLinkSignerFromSeed(seed []byte) (*ZkLinkSigner, error) {
	sk, err := PrivateKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return NewZkLinkSignerFromPrivateKey(sk), nil
}

// NewZkLinkSignerFromHex 解析 0x 前缀的私钥
func NewZkLinkSignerFromHex(s string) (*ZkLinkSigner, error) {
	sk, err := PrivateKeyFromHex(s)
	if err != nil {
		return nil, err
	}
	return NewZkLinkSignerFromPrivateKey(sk), nil
}

// NewZkLinkSignerFromEthSigner 以 SignMessageForKeyDerivation 的以太坊签名为种子，
// 同一以太坊账户总是得到同一个 L2 密钥
func NewZkLinkSignerFromEthSigner(eth PersonalSigner) (*ZkLinkSigner, error) {
	sig, err := eth.SignMessage([]byte(SignMessageForKeyDerivation))
	if err != nil {
		return nil, err
	}
	return NewZkLinkSignerFromSeed(sig.Bytes())
}

// NewZkLinkSignerFromHexEthSigner 以 hex 以太坊私钥调用 NewZkLinkSignerFromEthSigner
func NewZkLinkSignerFromHexEthSigner(ethPrivateKey string) (*ZkLinkSigner, error) {
	eth, err := ethsigner.NewPrivateKeySigner(ethPrivateKey)
	if err != nil {
		return nil, err
	}
	return NewZkLinkSignerFromEthSigner(eth)
}

// SignMusig 签名 msg
func (s *ZkLinkSigner) SignMusig(msg []byte) (*ZkLinkSignature, error) {
	return signMusig(s.privateKey, msg), nil
}

func (s *ZkLinkSigner) PublicKey() PackedPublicKey { return s.publicKey }

func (s *ZkLinkSigner) PublicKeyHash() (PubKeyHash, error) {
	return s.publicKey.PublicKeyHash()
}

func (s *ZkLinkSigner) PrivateKey() PackedPrivateKey { return s.privateKey }
