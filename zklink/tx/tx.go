// Package tx 定义 zkLink 二层交易类型：协议规定的定长字节编码、
// musig 签名与验签、字段语义校验和交易哈希。
package tx

import (
	"crypto/sha256"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// MusigSigner 二层签名器，由 *zksigner.ZkLinkSigner 实现
type MusigSigner interface {
	SignMusig(msg []byte) (*zksigner.ZkLinkSignature, error)
}

// ZkLinkTx 所有可签名交易的公共接口
type ZkLinkTx interface {
	TxType() byte
	GetBytes() ([]byte, error)
	TxHash() (types.TxHash, error)
	Validate() error
}

var (
	_ ZkLinkTx = (*Transfer)(nil)
	_ ZkLinkTx = (*ChangePubKey)(nil)
	_ ZkLinkTx = (*OrderMatching)(nil)
	_ ZkLinkTx = (*Deposit)(nil)
)

// txHash 编码字节的 SHA-256
func txHash(encode func() ([]byte, error)) (types.TxHash, error) {
	b, err := encode()
	if err != nil {
		return types.TxHash{}, err
	}
	return types.TxHash(sha256.Sum256(b)), nil
}

// signBytes 编码后签名
func signBytes(signer MusigSigner, encode func() ([]byte, error)) (zksigner.ZkLinkSignature, error) {
	b, err := encode()
	if err != nil {
		return zksigner.ZkLinkSignature{}, err
	}
	sig, err := signer.SignMusig(b)
	if err != nil {
		return zksigner.ZkLinkSignature{}, err
	}
	return *sig, nil
}

// verifyBytes 编码后验签
func verifyBytes(sig zksigner.ZkLinkSignature, encode func() ([]byte, error)) (bool, error) {
	b, err := encode()
	if err != nil {
		return false, err
	}
	return sig.Verify(b)
}
