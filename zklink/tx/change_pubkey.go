package tx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// EIP712 ChangePubKey 域
const (
	EIP712DomainName    = "ZkLink"
	EIP712DomainVersion = "1"
	ChangePubKeyType    = "ChangePubKey"
)

// ChangePubKeyFields ChangePubKey(bytes20 pubKeyHash,uint32 nonce,uint32 accountId)
var ChangePubKeyFields = []apitypes.Type{
	{Name: "pubKeyHash", Type: "bytes20"},
	{Name: "nonce", Type: "uint32"},
	{Name: "accountId", Type: "uint32"},
}

// AuthType 授权方式，编码在 ChangePubKey 末尾
type AuthType uint8

const (
	AuthTypeOnChain    AuthType = 0
	AuthTypeEthECDSA   AuthType = 1
	AuthTypeEthCreate2 AuthType = 2
)

func (t AuthType) String() string {
	switch t {
	case AuthTypeOnChain:
		return "OnChain"
	case AuthTypeEthECDSA:
		return "EthECDSA"
	case AuthTypeEthCreate2:
		return "EthCreate2"
	}
	return "Unknown"
}

// ChangePubKeyAuthData 三种授权之一
type ChangePubKeyAuthData interface {
	AuthType() AuthType
	payload() []byte
}

// OnChainAuthData L1 合约上已登记新公钥哈希
type OnChainAuthData struct{}

func (OnChainAuthData) AuthType() AuthType { return AuthTypeOnChain }
func (OnChainAuthData) payload() []byte    { return nil }

// EthECDSAAuthData 账户地址对 EIP712 ChangePubKey 的签名
type EthECDSAAuthData struct {
	EthSignature ethsigner.PackedEthSignature
}

func (EthECDSAAuthData) AuthType() AuthType { return AuthTypeEthECDSA }
func (d EthECDSAAuthData) payload() []byte  { return d.EthSignature.Bytes() }

// EthCreate2AuthData 账户地址由 CREATE2 推导
type EthCreate2AuthData struct {
	Data Create2Data
}

func (EthCreate2AuthData) AuthType() AuthType { return AuthTypeEthCreate2 }
func (d EthCreate2AuthData) payload() []byte  { return d.Data.Bytes() }

// Create2Data CREATE2 部署参数
type Create2Data struct {
	CreatorAddress common.Address
	SaltArg        types.H256
	CodeHash       types.H256
}

// Salt keccak256(saltArg ∥ pubKeyHash)
func (d Create2Data) Salt(pubKeyHash zksigner.PubKeyHash) common.Hash {
	return crypto.Keccak256Hash(d.SaltArg.Bytes(), pubKeyHash.Bytes())
}

// GetAddress keccak256(0xff ∥ creator ∥ salt ∥ codeHash)[12:]
func (d Create2Data) GetAddress(pubKeyHash zksigner.PubKeyHash) common.Address {
	return crypto.CreateAddress2(d.CreatorAddress, d.Salt(pubKeyHash), d.CodeHash.Bytes())
}

// Bytes creator(20) ∥ saltArg(32) ∥ codeHash(32)
func (d Create2Data) Bytes() []byte {
	out := make([]byte, 0, common.AddressLength+64)
	out = append(out, d.CreatorAddress.Bytes()...)
	out = append(out, d.SaltArg.Bytes()...)
	return append(out, d.CodeHash.Bytes()...)
}

// ChangePubKey 设置或更换账户的二层公钥哈希
type ChangePubKey struct {
	ChainId      types.ChainId      `validate:"chain"`
	AccountId    types.AccountId    `validate:"account"`
	SubAccountId types.SubAccountId `validate:"sub_account"`
	NewPkHash    zksigner.PubKeyHash
	FeeToken     types.TokenId `validate:"token"`
	Fee          *big.Int      `validate:"required,fee_packable"`
	Nonce        types.Nonce   `validate:"nonce"`
	// EthAuthData 为 nil 时按 OnChain 编码
	EthAuthData ChangePubKeyAuthData `validate:"-"`
	Ts          types.TimeStamp
	Signature   zksigner.ZkLinkSignature `validate:"-"`
}

// ChangePubKeyBuilder NewChangePubKey 的参数
type ChangePubKeyBuilder struct {
	ChainId       types.ChainId
	AccountId     types.AccountId
	SubAccountId  types.SubAccountId
	NewPubKeyHash zksigner.PubKeyHash
	FeeToken      types.TokenId
	Fee           *big.Int
	Nonce         types.Nonce
	// EthSignature 非空时直接附加 EthECDSA 授权
	EthSignature *ethsigner.PackedEthSignature
	Timestamp    types.TimeStamp
}

// NewChangePubKey 创建未签名交易
func NewChangePubKey(b ChangePubKeyBuilder) *ChangePubKey {
	var auth ChangePubKeyAuthData = OnChainAuthData{}
	if b.EthSignature != nil {
		auth = EthECDSAAuthData{EthSignature: *b.EthSignature}
	}
	return &ChangePubKey{
		ChainId:      b.ChainId,
		AccountId:    b.AccountId,
		SubAccountId: b.SubAccountId,
		NewPkHash:    b.NewPubKeyHash,
		FeeToken:     b.FeeToken,
		Fee:          b.Fee,
		Nonce:        b.Nonce,
		EthAuthData:  auth,
		Ts:           b.Timestamp,
	}
}

func (c *ChangePubKey) TxType() byte { return ChangePubKeyTxType }

func (c *ChangePubKey) authData() ChangePubKeyAuthData {
	if c.EthAuthData == nil {
		return OnChainAuthData{}
	}
	return c.EthAuthData
}

// GetBytes tag chain account sub pkHash(20) feeToken fee(2) nonce ts authType authPayload
func (c *ChangePubKey) GetBytes() ([]byte, error) {
	auth := c.authData()
	payload := auth.payload()

	e := newEncoder(ChangePubKeyTxType, ChangePubKeyBaseBytes+1+len(payload))
	e.u8(uint8(c.ChainId))
	e.u32(uint32(c.AccountId))
	e.u8(uint8(c.SubAccountId))
	e.raw(c.NewPkHash.Bytes())
	e.u16("FeeToken", uint32(c.FeeToken))
	e.feeAmount("fee", c.Fee)
	e.u32(uint32(c.Nonce))
	e.u32(uint32(c.Ts))
	e.u8(uint8(auth.AuthType()))
	e.raw(payload)
	return e.bytes()
}

// ToEIP712RequestPayload 构建 EthECDSA 授权需要签名的 EIP712 数据
func (c *ChangePubKey) ToEIP712RequestPayload(l1ClientId uint32, mainContract types.ZkLinkAddress) (*ethsigner.TypedData, error) {
	contract, err := mainContract.ToEthAddress()
	if err != nil {
		return nil, errors.Wrap(err, "main contract")
	}
	domain := ethsigner.EIP712Domain{
		Name:              EIP712DomainName,
		Version:           EIP712DomainVersion,
		ChainId:           l1ClientId,
		VerifyingContract: contract.Hex(),
	}
	message := apitypes.TypedDataMessage{
		"pubKeyHash": c.NewPkHash.Hex(),
		"nonce":      new(big.Int).SetUint64(uint64(c.Nonce)),
		"accountId":  new(big.Int).SetUint64(uint64(c.AccountId)),
	}
	return ethsigner.NewTypedData(domain, ChangePubKeyType, ChangePubKeyFields, message), nil
}

func (c *ChangePubKey) Sign(signer MusigSigner) error {
	sig, err := signBytes(signer, c.GetBytes)
	if err != nil {
		return err
	}
	c.Signature = sig
	return nil
}

func (c *ChangePubKey) IsSignatureValid() (bool, error) {
	return verifyBytes(c.Signature, c.GetBytes)
}

// IsOnChainAuthDataValid OnChain 授权由 L1 合约校验，这里只检查类型
func (c *ChangePubKey) IsOnChainAuthDataValid() bool {
	return c.authData().AuthType() == AuthTypeOnChain
}

// IsEthAuthDataValid 校验 EthECDSA 签名者是否为 accountAddress
func (c *ChangePubKey) IsEthAuthDataValid(l1ClientId uint32, mainContract, accountAddress types.ZkLinkAddress) (bool, error) {
	auth, ok := c.authData().(EthECDSAAuthData)
	if !ok {
		return false, nil
	}
	data, err := c.ToEIP712RequestPayload(l1ClientId, mainContract)
	if err != nil {
		return false, err
	}
	hash, err := data.Hash()
	if err != nil {
		return false, err
	}
	signer, err := auth.EthSignature.RecoverAddress(hash)
	if err != nil {
		return false, err
	}
	expected, err := accountAddress.ToEthAddress()
	if err != nil {
		return false, err
	}
	return signer == expected, nil
}

func (c *ChangePubKey) Validate() error {
	return validateStruct("ChangePubKey", c)
}

func (c *ChangePubKey) IsValid() bool {
	return c.Validate() == nil
}

func (c *ChangePubKey) TxHash() (types.TxHash, error) {
	return txHash(c.GetBytes)
}
