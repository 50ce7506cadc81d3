// Package ethsigner 以太坊 secp256k1 签名：personal_sign 消息、EIP712 结构化数据和原始摘要。
// 签名中的 v 取 27 或 28。
package ethsigner

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// DefaultDerivationPath 第一个以太坊账户
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// PrivateKeySigner 持有以太坊私钥的签名器
type PrivateKeySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewPrivateKeySigner 从十六进制私钥构造，0x 前缀可选
func NewPrivateKeySigner(hexKey string) (*PrivateKeySigner, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), types.ZeroxPrefix)
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrapf(types.ErrParse, "eth private key: %v", err)
	}
	return NewPrivateKeySignerFromECDSA(key), nil
}

// NewPrivateKeySignerFromECDSA 包装已有私钥
func NewPrivateKeySignerFromECDSA(key *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
}

// NewPrivateKeySignerFromMnemonic 按 BIP44 路径从助记词派生，路径为空时使用 DefaultDerivationPath
func NewPrivateKeySignerFromMnemonic(mnemonic, derivationPath string) (*PrivateKeySigner, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	derivationPath = strings.TrimSpace(derivationPath)
	if mnemonic == "" {
		return nil, errors.Wrap(types.ErrParse, "mnemonic is required")
	}
	if derivationPath == "" {
		derivationPath = DefaultDerivationPath
	}

	w, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrapf(types.ErrParse, "invalid mnemonic: %v", err)
	}
	path, err := hdwallet.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, errors.Wrapf(types.ErrParse, "invalid derivation path %q: %v", derivationPath, err)
	}
	acct, err := w.Derive(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "derive account")
	}
	key, err := w.PrivateKey(acct)
	if err != nil {
		return nil, errors.Wrap(err, "derive private key")
	}
	return NewPrivateKeySignerFromECDSA(key), nil
}

// Address 签名者地址
func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// PrivateKeyHex 0x 十六进制私钥，仅用于密钥存储
func (s *PrivateKeySigner) PrivateKeyHex() string {
	return types.EncodePrefixedHex(crypto.FromECDSA(s.privateKey))
}

// SignHash 对 32 字节摘要签名
func (s *PrivateKeySigner) SignHash(digest []byte) (PackedEthSignature, error) {
	if s == nil || s.privateKey == nil {
		return PackedEthSignature{}, errors.Wrap(types.ErrSignature, "eth signer has no private key")
	}
	if len(digest) != common.HashLength {
		return PackedEthSignature{}, errors.Wrapf(types.ErrSizeMismatch, "digest: expected %d bytes, got %d", common.HashLength, len(digest))
	}
	sig, err := crypto.Sign(digest, s.privateKey)
	if err != nil {
		return PackedEthSignature{}, errors.Wrap(err, "eth sign")
	}
	// v 调整为 27/28
	if sig[64] < 27 {
		sig[64] += 27
	}
	return SignatureFromBytes(sig)
}

// SignMessage personal_sign：keccak256("\x19Ethereum Signed Message:\n" + len + message)
func (s *PrivateKeySigner) SignMessage(message []byte) (PackedEthSignature, error) {
	return s.SignHash(accounts.TextHash(message))
}

// SignTypedData EIP712 签名
func (s *PrivateKeySigner) SignTypedData(data *TypedData) (PackedEthSignature, error) {
	hash, err := data.Hash()
	if err != nil {
		return PackedEthSignature{}, err
	}
	return s.SignHash(hash)
}

// SignByteData 对 keccak256(data) 签名
func (s *PrivateKeySigner) SignByteData(data []byte) (PackedEthSignature, error) {
	return s.SignHash(crypto.Keccak256(data))
}
