package tx

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/zksigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

const testEthKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testSigner(t *testing.T) *zksigner.ZkLinkSigner {
	t.Helper()
	s, err := zksigner.NewZkLinkSignerFromSeed(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	return s
}

func testOrder(isSell bool, nonce types.Nonce) *Order {
	return NewOrder(1, 0, 5, nonce, 1, 2,
		types.MustParseBigUint("1000000000000000000"), big.NewInt(50000), isSell, 5, 10)
}

func TestTransferBytesVector(t *testing.T) {
	to, err := types.ZkLinkAddressFromHex("0xAFAFf3aD1a0425D792432D9eCD1c3e26Ef2C42E9")
	require.NoError(t, err)
	tx := NewTransfer(TransferBuilder{
		AccountId:        10,
		ToAddress:        to,
		FromSubAccountId: 1,
		ToSubAccountId:   1,
		Token:            18,
		Amount:           big.NewInt(10000),
		Fee:              big.NewInt(3),
		Nonce:            1,
		Timestamp:        1693472232,
	})

	want := []byte{
		4, 0, 0, 0, 10, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 175, 175, 243, 173, 26, 4, 37, 215, 146,
		67, 45, 158, 205, 28, 62, 38, 239, 44, 66, 233, 1, 0, 18, 0, 0, 4, 226, 0, 0, 96, 0, 0, 0, 1,
		100, 240, 85, 232,
	}
	got, err := tx.GetBytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, TransferBytes)
	assert.True(t, tx.IsValid())

	require.NoError(t, tx.Sign(testSigner(t)))
	ok, err := tx.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)

	hash, err := tx.TxHash()
	require.NoError(t, err)
	assert.Equal(t, types.TxHash(sha256.Sum256(want)), hash)
}

func TestOrderEndToEnd(t *testing.T) {
	order := testOrder(false, 0)
	require.NoError(t, order.Validate())

	b, err := order.GetBytes()
	require.NoError(t, err)
	require.Len(t, b, OrderBytes)
	assert.Equal(t, OrderMsgType, b[0])
	assert.Equal(t, []byte{0, 0, 0, 1}, b[1:5])
	assert.Equal(t, byte(0), b[5])
	assert.Equal(t, []byte{0, 5}, b[6:8])
	assert.Equal(t, []byte{0, 0, 0}, b[8:11])
	assert.Equal(t, []byte{0, 1}, b[11:13])
	assert.Equal(t, []byte{0, 2}, b[13:15])
	assert.Equal(t, big.NewInt(50000).FillBytes(make([]byte, 15)), b[15:30])
	assert.Equal(t, []byte{0, 5, 10}, b[30:33])

	require.True(t, order.Signature.IsEmpty())
	require.NoError(t, order.Sign(testSigner(t)))
	ok, err := order.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)

	// 签名后修改字段，验签失败
	order.FeeRatio1 = 6
	ok, err = order.IsSignatureValid()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderValidation(t *testing.T) {
	order := testOrder(true, MaxOrderNonce+1)
	order.AccountId = MaxAccountId + 1
	order.SubAccountId = MaxSubAccountId + 1
	order.IsSell = 2
	order.Price = big.NewInt(0)
	order.Amount = big.NewInt(34359738369) // 2^35+1，有损

	err := order.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrValidation))

	var ve *types.ValidationError
	require.True(t, errors.As(err, &ve))
	for _, field := range []string{"AccountId", "SubAccountId", "Nonce", "IsSell", "Price", "Amount"} {
		assert.True(t, ve.HasField(field), field)
	}
	assert.False(t, order.IsValid())
}

func TestNarrowFieldsRejectOverflow(t *testing.T) {
	to, err := types.ZkLinkAddressFromHex("0xAFAFf3aD1a0425D792432D9eCD1c3e26Ef2C42E9")
	require.NoError(t, err)
	newTransfer := func(token types.TokenId) *Transfer {
		return NewTransfer(TransferBuilder{
			AccountId: 10, ToAddress: to, FromSubAccountId: 1, ToSubAccountId: 1,
			Token: token, Amount: big.NewInt(10000), Fee: big.NewInt(3), Nonce: 1, Timestamp: 1,
		})
	}

	// 70000 的低 16 位是 4464，不能编码成同一笔交易
	wide := newTransfer(70000)
	_, err = wide.GetBytes()
	assert.True(t, errors.Is(err, types.ErrRange))
	assert.True(t, errors.Is(wide.Sign(testSigner(t)), types.ErrRange))
	assert.True(t, wide.Signature.IsEmpty())

	_, err = newTransfer(4464).GetBytes()
	require.NoError(t, err)

	order := testOrder(false, 1<<24)
	_, err = order.GetBytes()
	assert.True(t, errors.Is(err, types.ErrRange))
	assert.True(t, errors.Is(order.Sign(testSigner(t)), types.ErrRange))

	order = testOrder(false, 0)
	order.SlotId = 1 << 16
	_, err = order.GetBytes()
	assert.True(t, errors.Is(err, types.ErrRange))

	d := &Deposit{FromChainId: 1, From: to, To: to, L2TargetToken: 1 << 16, Amount: big.NewInt(1)}
	_, err = d.GetBytes()
	assert.True(t, errors.Is(err, types.ErrRange))
}

func TestOrderPriceWidth(t *testing.T) {
	order := testOrder(false, 1)
	order.Price = new(big.Int).Lsh(big.NewInt(1), PriceBitWidth)
	_, err := order.GetBytes()
	assert.True(t, errors.Is(err, types.ErrRange))
	assert.False(t, order.IsValid())

	order.Price.Sub(order.Price, big.NewInt(1))
	assert.True(t, order.IsValid())
}

func TestOrderMissingAmount(t *testing.T) {
	order := testOrder(false, 1)
	order.Amount = nil
	var ve *types.ValidationError
	require.True(t, errors.As(order.Validate(), &ve))
	f, ok := ve.First()
	require.True(t, ok)
	assert.Equal(t, "Amount", f.Field)
	assert.Equal(t, "required", f.Rule)
}

func TestOrderEthereumSignMessage(t *testing.T) {
	order := testOrder(false, 3)
	assert.Equal(t, "Order for 1 USDT -> BTC\nprice: 50000\nNonce: 3",
		order.GetEthereumSignMessage("USDT", "BTC", 18))

	order.Amount = big.NewInt(0)
	assert.Equal(t, "Limit order for USDT -> BTC\nprice: 50000\nNonce: 3",
		order.GetEthereumSignMessage("USDT", "BTC", 18))
}

func TestOrderMatching(t *testing.T) {
	signer := testSigner(t)
	maker := testOrder(true, 1)
	taker := testOrder(false, 2)
	require.NoError(t, maker.Sign(signer))
	require.NoError(t, taker.Sign(signer))

	m := NewOrderMatching(3, 1, *taker, *maker, big.NewInt(3), 1, big.NewInt(0), types.MaxU128)
	require.NoError(t, m.Validate())

	b, err := m.GetBytes()
	require.NoError(t, err)
	require.Len(t, b, OrderMatchingBytes)
	assert.Equal(t, OrderMatchingTxType, b[0])
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 16), b[58:74])

	hash, err := m.OrdersHash()
	require.NoError(t, err)
	assert.Equal(t, hash, b[6:38])

	require.NoError(t, m.Sign(signer))
	ok, err := m.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)

	// maker/taker 交换后订单哈希不同
	swapped := NewOrderMatching(3, 1, *maker, *taker, big.NewInt(3), 1, big.NewInt(0), types.MaxU128)
	other, err := swapped.OrdersHash()
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestOrderMatchingValidatesOrders(t *testing.T) {
	maker := testOrder(true, 1)
	maker.Amount = big.NewInt(34359738369)
	m := NewOrderMatching(3, 1, *testOrder(false, 2), *maker, big.NewInt(2048), 1,
		big.NewInt(0), new(big.Int).Add(types.MaxU128, big.NewInt(1)))

	var ve *types.ValidationError
	require.True(t, errors.As(m.Validate(), &ve))
	assert.True(t, ve.HasField("Maker.Amount"))
	assert.True(t, ve.HasField("Fee"))
	assert.True(t, ve.HasField("ExpectQuoteAmount"))
	assert.False(t, ve.HasField("Taker.Amount"))

	_, err := m.GetBytes()
	assert.Error(t, err)
}

func TestOrdersBlockWidth(t *testing.T) {
	exact := bytes.Repeat([]byte{1}, zksigner.OrdersBytes/2)
	require.NoError(t, CheckOrdersWidth(exact, exact))
	assert.Len(t, OrdersBlock(exact, exact), zksigner.OrdersBytes)

	over := append(append([]byte(nil), exact...), 2)
	err := CheckOrdersWidth(over, exact)
	assert.True(t, errors.Is(err, types.ErrRange))

	// 超出部分被截断
	block := OrdersBlock(over, exact)
	require.Len(t, block, zksigner.OrdersBytes)
	assert.Equal(t, byte(2), block[len(exact)])

	short := OrdersBlock([]byte{9}, []byte{8})
	assert.Equal(t, []byte{9, 8, 0}, short[:3])
	assert.Equal(t, make([]byte, zksigner.OrdersBytes-2), short[2:])
}

func TestChangePubKeyAuthPayloads(t *testing.T) {
	var pkHash zksigner.PubKeyHash
	pkHash[19] = 1
	base := ChangePubKeyBuilder{
		ChainId:       1,
		AccountId:     2,
		SubAccountId:  4,
		NewPubKeyHash: pkHash,
		FeeToken:      1,
		Fee:           big.NewInt(100),
		Nonce:         100,
		Timestamp:     1693472232,
	}

	onChain := NewChangePubKey(base)
	b, err := onChain.GetBytes()
	require.NoError(t, err)
	require.Len(t, b, ChangePubKeyBaseBytes+1)
	assert.Equal(t, ChangePubKeyTxType, b[0])
	assert.Equal(t, byte(AuthTypeOnChain), b[len(b)-1])
	assert.True(t, onChain.IsOnChainAuthDataValid())

	var sig ethsigner.PackedEthSignature
	sig[64] = 27
	withSig := base
	withSig.EthSignature = &sig
	ecdsa := NewChangePubKey(withSig)
	b, err = ecdsa.GetBytes()
	require.NoError(t, err)
	require.Len(t, b, ChangePubKeyBaseBytes+1+ethsigner.SignatureLen)
	assert.Equal(t, byte(AuthTypeEthECDSA), b[ChangePubKeyBaseBytes])

	create2 := NewChangePubKey(base)
	create2.EthAuthData = EthCreate2AuthData{Data: Create2Data{CreatorAddress: common.HexToAddress("0x01")}}
	b, err = create2.GetBytes()
	require.NoError(t, err)
	require.Len(t, b, ChangePubKeyBaseBytes+1+84)
	assert.Equal(t, byte(AuthTypeEthCreate2), b[ChangePubKeyBaseBytes])

	// 授权数据参与签名
	signer := testSigner(t)
	require.NoError(t, onChain.Sign(signer))
	onChain.EthAuthData = EthECDSAAuthData{EthSignature: sig}
	ok, err := onChain.IsSignatureValid()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChangePubKeyResignAfterAuthChange(t *testing.T) {
	signer := testSigner(t)
	pkHash, err := signer.PublicKeyHash()
	require.NoError(t, err)
	cpk := NewChangePubKey(ChangePubKeyBuilder{
		ChainId: 1, AccountId: 2, NewPubKeyHash: pkHash,
		FeeToken: 1, Fee: big.NewInt(100), Nonce: 3, Timestamp: 1693472232,
	})

	require.NoError(t, cpk.Sign(signer))
	onChainSig := cpk.Signature
	onChainBytes, err := cpk.GetBytes()
	require.NoError(t, err)

	cpk.EthAuthData = EthCreate2AuthData{Data: Create2Data{CreatorAddress: common.HexToAddress("0x02")}}
	require.NoError(t, cpk.Sign(signer))
	create2Bytes, err := cpk.GetBytes()
	require.NoError(t, err)

	assert.NotEqual(t, onChainBytes, create2Bytes)
	assert.NotEqual(t, onChainSig.Bytes(), cpk.Signature.Bytes())
	ok, err := cpk.IsSignatureValid()
	require.NoError(t, err)
	assert.True(t, ok)

	// 旧签名不覆盖新的授权数据
	ok, err = onChainSig.Verify(create2Bytes)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = onChainSig.Verify(onChainBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePubKeyEIP712(t *testing.T) {
	eth, err := ethsigner.NewPrivateKeySigner(testEthKey)
	require.NoError(t, err)
	zk := testSigner(t)
	pkHash, err := zk.PublicKeyHash()
	require.NoError(t, err)

	tx := NewChangePubKey(ChangePubKeyBuilder{
		ChainId: 1, AccountId: 2, SubAccountId: 0, NewPubKeyHash: pkHash,
		FeeToken: 1, Fee: big.NewInt(0), Nonce: 0, Timestamp: 1,
	})
	mainContract := types.ZkLinkAddress(common.HexToAddress("0x0000000000000000000000000000000000000001").Bytes())
	data, err := tx.ToEIP712RequestPayload(1, mainContract)
	require.NoError(t, err)
	assert.Equal(t, ChangePubKeyType, data.PrimaryType)

	sig, err := eth.SignTypedData(data)
	require.NoError(t, err)
	tx.EthAuthData = EthECDSAAuthData{EthSignature: sig}

	account := types.ZkLinkAddressFromEth(eth.Address())
	ok, err := tx.IsEthAuthDataValid(1, mainContract, account)
	require.NoError(t, err)
	assert.True(t, ok)

	// 不同 L1 链 ID 的签名无效
	ok, err = tx.IsEthAuthDataValid(5, mainContract, account)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = tx.ToEIP712RequestPayload(1, types.ZkLinkAddress(make([]byte, 32)))
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
}

func TestCreate2Address(t *testing.T) {
	var pkHash zksigner.PubKeyHash
	pkHash[0] = 0xaa
	d := Create2Data{CreatorAddress: common.HexToAddress("0x6E253C951A40fAf4032faFbEc19262Cd1531A5F5")}
	d.SaltArg[31] = 1
	d.CodeHash[0] = 2

	salt := d.Salt(pkHash)
	assert.Equal(t, crypto.Keccak256Hash(d.SaltArg.Bytes(), pkHash.Bytes()), salt)
	assert.NotEqual(t, d.GetAddress(pkHash), d.GetAddress(zksigner.PubKeyHash{}))
	assert.Len(t, d.Bytes(), 84)
}

func TestChangePubKeyValidation(t *testing.T) {
	tx := NewChangePubKey(ChangePubKeyBuilder{ChainId: 0, Fee: big.NewInt(2048), Nonce: 1<<32 - 1})
	var ve *types.ValidationError
	require.True(t, errors.As(tx.Validate(), &ve))
	assert.True(t, ve.HasField("ChainId"))
	assert.True(t, ve.HasField("Fee"))
	assert.True(t, ve.HasField("Nonce"))
}

func TestDeposit(t *testing.T) {
	to, err := types.ZkLinkAddressFromHex("0xAFAFf3aD1a0425D792432D9eCD1c3e26Ef2C42E9")
	require.NoError(t, err)
	d := &Deposit{
		FromChainId:   1,
		From:          to,
		SubAccountId:  0,
		To:            to,
		L2TargetToken: 17,
		L1SourceToken: 18,
		Amount:        types.MustParseBigUint("1000000000000000000"),
		SerialId:      7,
	}
	require.NoError(t, d.Validate())

	b, err := d.GetBytes()
	require.NoError(t, err)
	require.Len(t, b, DepositBytes)
	assert.Equal(t, DepositTxType, b[0])
	assert.Equal(t, []byte{0, 17, 0, 18}, b[3:7])
	assert.Equal(t, []byte(to), b[35:55])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7}, b[55:63])

	d.To = types.GlobalAccountAddress
	var ve *types.ValidationError
	require.True(t, errors.As(d.Validate(), &ve))
	assert.True(t, ve.HasField("To"))
}
