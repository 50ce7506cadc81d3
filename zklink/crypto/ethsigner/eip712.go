package ethsigner

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// EIP712DomainType 带 verifyingContract 的域类型定义
var EIP712DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// EIP712Domain EIP712 域
type EIP712Domain struct {
	Name              string
	Version           string
	ChainId           uint32
	VerifyingContract string
}

// TypedData 待签名的 EIP712 结构化数据
type TypedData struct {
	apitypes.TypedData
}

// NewTypedData 构建 TypedData，fields 为 PrimaryType 的字段定义
func NewTypedData(domain EIP712Domain, primaryType string, fields []apitypes.Type, message apitypes.TypedDataMessage) *TypedData {
	chainID := big.NewInt(int64(domain.ChainId))
	return &TypedData{
		TypedData: apitypes.TypedData{
			Types: apitypes.Types{
				"EIP712Domain": EIP712DomainType,
				primaryType:    fields,
			},
			PrimaryType: primaryType,
			Domain: apitypes.TypedDataDomain{
				Name:              domain.Name,
				Version:           domain.Version,
				ChainId:           (*math.HexOrDecimal256)(chainID),
				VerifyingContract: domain.VerifyingContract,
			},
			Message: message,
		},
	}
}

// Hash keccak256("\x19\x01" ∥ domainSeparator ∥ hashStruct(message))
func (t *TypedData) Hash() ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(t.TypedData)
	if err != nil {
		return nil, errors.Wrapf(types.ErrParse, "eip712 %s: %v", t.PrimaryType, err)
	}
	return hash, nil
}
