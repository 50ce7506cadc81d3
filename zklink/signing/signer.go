// Package signing 组合以太坊签名器和二层签名器，完成各类交易的授权与签名。
package signing

import (
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/logger"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/tx"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Signer 同一账户的以太坊签名器和由它派生的二层签名器
type Signer struct {
	ethSigner *ethsigner.PrivateKeySigner
	zkSigner  *zksigner.ZkLinkSigner
}

// NewSigner 从以太坊私钥创建，二层私钥由以太坊签名派生
func NewSigner(ethPrivateKey string) (*Signer, error) {
	eth, err := ethsigner.NewPrivateKeySigner(ethPrivateKey)
	if err != nil {
		return nil, err
	}
	return NewSignerFromEthSigner(eth)
}

// NewSignerFromEthSigner 包装已有的以太坊签名器
func NewSignerFromEthSigner(eth *ethsigner.PrivateKeySigner) (*Signer, error) {
	zk, err := zksigner.NewZkLinkSignerFromEthSigner(eth)
	if err != nil {
		return nil, errors.Wrap(err, "derive zklink signer")
	}
	return &Signer{ethSigner: eth, zkSigner: zk}, nil
}

// NewSignerFromMnemonic 从助记词派生以太坊账户
func NewSignerFromMnemonic(mnemonic, derivationPath string) (*Signer, error) {
	eth, err := ethsigner.NewPrivateKeySignerFromMnemonic(mnemonic, derivationPath)
	if err != nil {
		return nil, err
	}
	return NewSignerFromEthSigner(eth)
}

func (s *Signer) EthSigner() *ethsigner.PrivateKeySigner { return s.ethSigner }
func (s *Signer) ZkSigner() *zksigner.ZkLinkSigner       { return s.zkSigner }

// Address 以太坊账户地址
func (s *Signer) Address() types.ZkLinkAddress {
	return types.ZkLinkAddressFromEth(s.ethSigner.Address())
}

// SignOrder 签名订单，返回签名后的副本
func (s *Signer) SignOrder(order tx.Order) (*tx.Order, error) {
	if err := order.Sign(s.zkSigner); err != nil {
		return nil, err
	}
	logSigned("Order", &order)
	return &order, nil
}

// SignOrderMatching 签名撮合交易
func (s *Signer) SignOrderMatching(m tx.OrderMatching) (*TxSignature, error) {
	if err := m.Sign(s.zkSigner); err != nil {
		return nil, err
	}
	logSigned("OrderMatching", &m)
	return &TxSignature{Tx: &m}, nil
}

// SignTransfer 二层签名并附带以太坊签名
func (s *Signer) SignTransfer(t tx.Transfer, tokenSymbol string, decimals uint8) (*TxSignature, error) {
	if err := t.Sign(s.zkSigner); err != nil {
		return nil, err
	}
	ethSig, err := s.ethSigner.SignMessage([]byte(t.GetEthereumSignMessage(tokenSymbol, decimals)))
	if err != nil {
		return nil, errors.Wrap(err, "eth sign transfer")
	}
	logSigned("Transfer", &t)
	return &TxSignature{Tx: &t, EthSignature: &ethSig}, nil
}

// SignChangePubKeyWithOnChainAuth OnChain 授权
func (s *Signer) SignChangePubKeyWithOnChainAuth(cpk tx.ChangePubKey) (*TxSignature, error) {
	return SignChangePubKey(s.ethSigner, s.zkSigner, cpk, nil, 0, s.Address(), OnChainAuthRequest{})
}

// SignChangePubKeyWithEthECDSAAuth EthECDSA 授权
func (s *Signer) SignChangePubKeyWithEthECDSAAuth(cpk tx.ChangePubKey, l1ClientId uint32, mainContract types.ZkLinkAddress) (*TxSignature, error) {
	return SignChangePubKey(s.ethSigner, s.zkSigner, cpk, mainContract, l1ClientId, s.Address(), EthECDSAAuthRequest{})
}

// SignChangePubKeyWithCreate2Auth CREATE2 授权，accountAddress 为合约钱包地址
func (s *Signer) SignChangePubKeyWithCreate2Auth(cpk tx.ChangePubKey, data tx.Create2Data, accountAddress types.ZkLinkAddress) (*TxSignature, error) {
	return SignChangePubKey(s.ethSigner, s.zkSigner, cpk, nil, 0, accountAddress, EthCreate2AuthRequest{Data: data})
}

// SubmitterSignature 提交者签名
func (s *Signer) SubmitterSignature(t tx.ZkLinkTx) (*zksigner.ZkLinkSignature, error) {
	b, err := t.GetBytes()
	if err != nil {
		return nil, err
	}
	return CreateSubmitterSignature(b, s.zkSigner)
}

func logSigned(txType string, t interface{ TxHash() (types.TxHash, error) }) {
	hash, err := t.TxHash()
	if err != nil {
		return
	}
	logger.WithField("tx_type", txType).WithField("tx_hash", hash.Hex()).Debug("tx signed")
}
