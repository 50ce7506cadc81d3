package signing

import (
	"crypto/sha256"
	"reflect"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/logger"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/tx"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// AuthRequest ChangePubKey 的授权请求，决定附加哪种授权数据
type AuthRequest interface {
	authRequest()
}

// OnChainAuthRequest 新公钥哈希已在 L1 合约登记
type OnChainAuthRequest struct{}

// EthECDSAAuthRequest 由以太坊账户对 EIP712 数据签名授权
type EthECDSAAuthRequest struct{}

// EthCreate2AuthRequest 账户地址由 CREATE2 推导，Data 需能推导出账户地址
type EthCreate2AuthRequest struct {
	Data tx.Create2Data
}

func (OnChainAuthRequest) authRequest()    {}
func (EthECDSAAuthRequest) authRequest()   {}
func (EthCreate2AuthRequest) authRequest() {}

// TypedDataSigner EthECDSA 授权使用的以太坊签名器
type TypedDataSigner interface {
	SignTypedData(data *ethsigner.TypedData) (ethsigner.PackedEthSignature, error)
}

// TxSignature 签名完成的交易，EthSignature 仅在需要以太坊签名的交易上非空
type TxSignature struct {
	Tx           tx.ZkLinkTx
	EthSignature *ethsigner.PackedEthSignature
}

// SignChangePubKey 按授权请求附加授权数据，然后对包含授权数据的编码签名
func SignChangePubKey(
	ethSigner TypedDataSigner,
	zkSigner *zksigner.ZkLinkSigner,
	cpk tx.ChangePubKey,
	mainContract types.ZkLinkAddress,
	l1ClientId uint32,
	accountAddress types.ZkLinkAddress,
	req AuthRequest,
) (*TxSignature, error) {
	var auth tx.ChangePubKeyAuthData
	switch r := req.(type) {
	case OnChainAuthRequest, *OnChainAuthRequest:
		auth = tx.OnChainAuthData{}
	case EthECDSAAuthRequest, *EthECDSAAuthRequest:
		sig, err := EthSignatureOfChangePubKey(l1ClientId, &cpk, ethSigner, mainContract)
		if err != nil {
			return nil, err
		}
		auth = tx.EthECDSAAuthData{EthSignature: sig}
	case EthCreate2AuthRequest:
		if err := CheckCreate2Data(zkSigner, r.Data, accountAddress); err != nil {
			return nil, err
		}
		auth = tx.EthCreate2AuthData{Data: r.Data}
	case *EthCreate2AuthRequest:
		if err := CheckCreate2Data(zkSigner, r.Data, accountAddress); err != nil {
			return nil, err
		}
		auth = tx.EthCreate2AuthData{Data: r.Data}
	default:
		return nil, errors.Wrapf(types.ErrValidation, "unknown auth request %T", req)
	}

	signed, err := CreateSignedChangePubKey(zkSigner, cpk, auth)
	if err != nil {
		return nil, err
	}
	logger.WithField("auth_type", auth.AuthType().String()).
		WithField("account_id", cpk.AccountId).
		Debug("ChangePubKey signed")
	return &TxSignature{Tx: signed}, nil
}

// EthSignatureOfChangePubKey 以太坊账户对 ChangePubKey EIP712 数据的签名
func EthSignatureOfChangePubKey(
	l1ClientId uint32,
	cpk *tx.ChangePubKey,
	ethSigner TypedDataSigner,
	mainContract types.ZkLinkAddress,
) (ethsigner.PackedEthSignature, error) {
	if isNil(ethSigner) {
		return ethsigner.PackedEthSignature{}, errors.Wrap(types.ErrValidation, "EthECDSA auth requires an eth signer")
	}
	data, err := cpk.ToEIP712RequestPayload(l1ClientId, mainContract)
	if err != nil {
		return ethsigner.PackedEthSignature{}, err
	}
	return ethSigner.SignTypedData(data)
}

// isNil 同时识别接口 nil 和包着 nil 指针的接口值
func isNil(v TypedDataSigner) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// CheckCreate2Data CREATE2 推导地址必须等于账户地址
func CheckCreate2Data(zkSigner *zksigner.ZkLinkSigner, data tx.Create2Data, accountAddress types.ZkLinkAddress) error {
	pkHash, err := zkSigner.PublicKeyHash()
	if err != nil {
		return err
	}
	derived := data.GetAddress(pkHash)
	account, err := accountAddress.ToEthAddress()
	if err != nil {
		return errors.Wrap(types.ErrAuthorizationMismatch, err.Error())
	}
	if derived != account {
		return errors.Wrapf(types.ErrAuthorizationMismatch, "create2 address %s, account %s", derived.Hex(), account.Hex())
	}
	return nil
}

// CreateSignedChangePubKey 附加授权数据并签名，不修改传入的交易
func CreateSignedChangePubKey(zkSigner *zksigner.ZkLinkSigner, cpk tx.ChangePubKey, auth tx.ChangePubKeyAuthData) (*tx.ChangePubKey, error) {
	cpk.EthAuthData = auth
	if err := cpk.Sign(zkSigner); err != nil {
		return nil, err
	}
	return &cpk, nil
}

// CreateSubmitterSignature 提交者对交易编码的 SHA-256 签名
func CreateSubmitterSignature(txBytes []byte, zkSigner *zksigner.ZkLinkSigner) (*zksigner.ZkLinkSignature, error) {
	if len(txBytes) == 0 {
		return nil, errors.Wrap(types.ErrValidation, "tx bytes are empty")
	}
	digest := sha256.Sum256(txBytes)
	return zkSigner.SignMusig(digest[:])
}
