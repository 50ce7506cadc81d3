package signing

import (
	"crypto/sha256"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/tx"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

const testEthKey = "0xbe725250b123a39dab5b7579334d5888987c72a58f4508062545fe6e08ca94f4"

var mainContract = types.ZkLinkAddress(common.HexToAddress("0x0000000000000000000000000000000000000001").Bytes())

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testEthKey)
	require.NoError(t, err)
	return s
}

func newChangePubKey(t *testing.T, s *Signer) tx.ChangePubKey {
	t.Helper()
	pkHash, err := s.ZkSigner().PublicKeyHash()
	require.NoError(t, err)
	return *tx.NewChangePubKey(tx.ChangePubKeyBuilder{
		ChainId:       1,
		AccountId:     2,
		SubAccountId:  4,
		NewPubKeyHash: pkHash,
		FeeToken:      1,
		Fee:           big.NewInt(100),
		Nonce:         100,
		Timestamp:     1693472232,
	})
}

func create2Fixture(t *testing.T, s *Signer) (tx.Create2Data, types.ZkLinkAddress) {
	t.Helper()
	data := tx.Create2Data{CreatorAddress: common.HexToAddress("0x6E253C951A40fAf4032faFbEc19262Cd1531A5F5")}
	data.SaltArg[31] = 0x01
	data.CodeHash[0] = 0x02
	pkHash, err := s.ZkSigner().PublicKeyHash()
	require.NoError(t, err)
	return data, types.ZkLinkAddressFromEth(data.GetAddress(pkHash))
}

func TestSignChangePubKeyOnChain(t *testing.T) {
	s := newTestSigner(t)
	res, err := s.SignChangePubKeyWithOnChainAuth(newChangePubKey(t, s))
	require.NoError(t, err)

	cpk := res.Tx.(*tx.ChangePubKey)
	assert.Equal(t, tx.AuthTypeOnChain, cpk.EthAuthData.AuthType())
	ok, err := cpk.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, res.EthSignature)
}

func TestSignChangePubKeyEthECDSA(t *testing.T) {
	s := newTestSigner(t)
	res, err := s.SignChangePubKeyWithEthECDSAAuth(newChangePubKey(t, s), 1, mainContract)
	require.NoError(t, err)

	cpk := res.Tx.(*tx.ChangePubKey)
	require.Equal(t, tx.AuthTypeEthECDSA, cpk.EthAuthData.AuthType())
	ok, err := cpk.IsEthAuthDataValid(1, mainContract, s.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cpk.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)

	// 等价的底层调用得到相同的以太坊签名
	unsigned := newChangePubKey(t, s)
	sig, err := EthSignatureOfChangePubKey(1, &unsigned, s.EthSigner(), mainContract)
	require.NoError(t, err)
	assert.Equal(t, sig, cpk.EthAuthData.(tx.EthECDSAAuthData).EthSignature)
}

func TestSignChangePubKeyCreate2(t *testing.T) {
	s := newTestSigner(t)
	data, account := create2Fixture(t, s)

	res, err := s.SignChangePubKeyWithCreate2Auth(newChangePubKey(t, s), data, account)
	require.NoError(t, err)
	cpk := res.Tx.(*tx.ChangePubKey)
	assert.Equal(t, tx.AuthTypeEthCreate2, cpk.EthAuthData.AuthType())
	ok, err := cpk.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignChangePubKeyCreate2Mismatch(t *testing.T) {
	s := newTestSigner(t)
	data, _ := create2Fixture(t, s)

	_, err := s.SignChangePubKeyWithCreate2Auth(newChangePubKey(t, s), data, s.Address())
	assert.True(t, errors.Is(err, types.ErrAuthorizationMismatch))

	err = CheckCreate2Data(s.ZkSigner(), data, types.ZkLinkAddress(make([]byte, 32)))
	assert.True(t, errors.Is(err, types.ErrAuthorizationMismatch))
}

func TestCheckCreate2DataMatches(t *testing.T) {
	s := newTestSigner(t)
	data, account := create2Fixture(t, s)
	require.NoError(t, CheckCreate2Data(s.ZkSigner(), data, account))

	// 换一把二层密钥，推导地址随之改变
	other, err := zksigner.NewZkLinkSigner()
	require.NoError(t, err)
	assert.True(t, errors.Is(CheckCreate2Data(other, data, account), types.ErrAuthorizationMismatch))
}

func TestSignChangePubKeyUnknownRequest(t *testing.T) {
	s := newTestSigner(t)
	_, err := SignChangePubKey(s.EthSigner(), s.ZkSigner(), newChangePubKey(t, s), mainContract, 1, s.Address(), nil)
	assert.True(t, errors.Is(err, types.ErrValidation))
}

func TestSignChangePubKeyEthECDSANilSigner(t *testing.T) {
	s := newTestSigner(t)
	var typedNil *ethsigner.PrivateKeySigner

	for name, signer := range map[string]TypedDataSigner{
		"nil interface": nil,
		"nil pointer":   typedNil,
	} {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := SignChangePubKey(signer, s.ZkSigner(), newChangePubKey(t, s), mainContract, 1, s.Address(), EthECDSAAuthRequest{})
				assert.True(t, errors.Is(err, types.ErrValidation))
			})
		})
	}

	// 直接调用 nil 接收者同样返回错误
	_, err := typedNil.SignHash(make([]byte, 32))
	assert.True(t, errors.Is(err, types.ErrSignature))
}

func TestCreateSignedChangePubKeyDoesNotMutate(t *testing.T) {
	s := newTestSigner(t)
	unsigned := newChangePubKey(t, s)
	signed, err := CreateSignedChangePubKey(s.ZkSigner(), unsigned, tx.OnChainAuthData{})
	require.NoError(t, err)
	assert.True(t, unsigned.Signature.IsEmpty())
	assert.False(t, signed.Signature.IsEmpty())
}

func TestSubmitterSignature(t *testing.T) {
	s := newTestSigner(t)
	order, err := s.SignOrder(*tx.NewOrder(1, 0, 5, 0, 1, 2, big.NewInt(1000), big.NewInt(50000), false, 5, 10))
	require.NoError(t, err)
	m := tx.NewOrderMatching(3, 0, *order, *order, big.NewInt(0), 1, big.NewInt(0), big.NewInt(0))

	res, err := s.SignOrderMatching(*m)
	require.NoError(t, err)

	sig, err := s.SubmitterSignature(res.Tx)
	require.NoError(t, err)
	b, err := res.Tx.GetBytes()
	require.NoError(t, err)
	digest := sha256.Sum256(b)
	ok, err := sig.Verify(digest[:])
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = CreateSubmitterSignature(nil, s.ZkSigner())
	assert.True(t, errors.Is(err, types.ErrValidation))
}

func TestSignTransfer(t *testing.T) {
	s := newTestSigner(t)
	to, err := types.ZkLinkAddressFromHex("0xAFAFf3aD1a0425D792432D9eCD1c3e26Ef2C42E9")
	require.NoError(t, err)
	transfer := tx.NewTransfer(tx.TransferBuilder{
		AccountId: 10, ToAddress: to, FromSubAccountId: 1, ToSubAccountId: 1,
		Token: 18, Amount: big.NewInt(10000), Fee: big.NewInt(3), Nonce: 1, Timestamp: 1693472232,
	})

	res, err := s.SignTransfer(*transfer, "USDC", 6)
	require.NoError(t, err)
	require.NotNil(t, res.EthSignature)

	signed := res.Tx.(*tx.Transfer)
	addr, err := res.EthSignature.RecoverPersonal([]byte(signed.GetEthereumSignMessage("USDC", 6)))
	require.NoError(t, err)
	assert.Equal(t, s.EthSigner().Address(), addr)
	assert.True(t, transfer.Signature.IsEmpty())
}
