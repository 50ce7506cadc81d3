package zksigner

import (
	"bytes"
	"errors"
	"math/big"
	"sync"
	"testing"
	"testing/quick"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/crypto/ethsigner"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

func testSigner(t *testing.T) *ZkLinkSigner {
	t.Helper()
	s, err := NewZkLinkSignerFromSeed(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	return s
}

func TestSignDeterministic(t *testing.T) {
	s := testSigner(t)
	msg := []byte{0xff, 0, 0, 0, 1, 0}

	a, err := s.SignMusig(msg)
	require.NoError(t, err)
	b, err := SignMusig(s.PrivateKey().Bytes(), msg)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b)
	assert.Equal(t, s.PublicKey(), a.PubKey)
}

func TestSignVerify(t *testing.T) {
	s := testSigner(t)
	property := func(msg []byte) bool {
		sig, err := s.SignMusig(msg)
		if err != nil {
			return false
		}
		ok, err := VerifyMusig(msg, sig.Bytes())
		return err == nil && ok
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 10}); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyFlippedByte(t *testing.T) {
	s := testSigner(t)
	msg := []byte("order matching bytes")
	sig, err := s.SignMusig(msg)
	require.NoError(t, err)

	for i := range msg {
		tampered := append([]byte(nil), msg...)
		tampered[i] ^= 0x01
		ok, err := sig.Verify(tampered)
		require.NoError(t, err)
		assert.False(t, ok, "flipped byte %d", i)
	}
}

func TestVerifyLengthErrors(t *testing.T) {
	s := testSigner(t)
	sig, err := s.SignMusig([]byte("x"))
	require.NoError(t, err)
	raw := sig.Bytes()

	_, err = VerifyMusig([]byte("x"), raw[:95])
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
	_, err = VerifyMusig([]byte("x"), append(raw, 0))
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
}

func TestVerifyRejectsOutOfRangeS(t *testing.T) {
	s := testSigner(t)
	msg := []byte("x")
	sig, err := s.SignMusig(msg)
	require.NoError(t, err)

	order := utils.BigIntLEBytes(babyjub.SubOrder)
	copy(sig.Signature[PublicKeyLen:], order[:])
	_, err = sig.Verify(msg)
	assert.True(t, errors.Is(err, types.ErrSignature))
}

func TestVerifyRejectsBadPoint(t *testing.T) {
	s := testSigner(t)
	msg := []byte("x")
	sig, err := s.SignMusig(msg)
	require.NoError(t, err)

	for i := range sig.PubKey {
		sig.PubKey[i] = 0xff
	}
	_, err = sig.Verify(msg)
	assert.True(t, errors.Is(err, types.ErrSignature))
}

func TestWrongKeyFailsVerification(t *testing.T) {
	s := testSigner(t)
	other, err := NewZkLinkSigner()
	require.NoError(t, err)

	msg := []byte("x")
	sig, err := s.SignMusig(msg)
	require.NoError(t, err)
	sig.PubKey = other.PublicKey()

	ok, err := sig.Verify(msg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentSigning(t *testing.T) {
	s := testSigner(t)
	msg := []byte("concurrent")
	want, err := s.SignMusig(msg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.SignMusig(msg)
			assert.NoError(t, err)
			assert.Equal(t, want.Bytes(), got.Bytes())
		}()
	}
	wg.Wait()
}

func TestPrivateKeyParsing(t *testing.T) {
	_, err := PrivateKeyFromBytes(make([]byte, 32))
	assert.True(t, errors.Is(err, types.ErrSignature), "zero scalar")

	_, err = PrivateKeyFromBytes(babyjub.SubOrder.FillBytes(make([]byte, 32)))
	assert.True(t, errors.Is(err, types.ErrSignature), "scalar == order")

	_, err = SignMusig(make([]byte, 31), []byte("x"))
	assert.True(t, errors.Is(err, types.ErrSignature))

	_, err = PrivateKeyFromSeed(make([]byte, 31))
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))

	sk := testSigner(t).PrivateKey()
	back, err := PrivateKeyFromHex(sk.Hex())
	require.NoError(t, err)
	assert.Equal(t, sk, back)
	assert.True(t, new(big.Int).SetBytes(sk[:]).Cmp(babyjub.SubOrder) < 0)
}

func TestPublicKeyHash(t *testing.T) {
	s := testSigner(t)
	h1, err := s.PublicKeyHash()
	require.NoError(t, err)
	h2, err := s.PublicKey().PublicKeyHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.False(t, h1.IsZero())

	back, err := PubKeyHashFromHex(h1.Hex())
	require.NoError(t, err)
	assert.Equal(t, h1, back)

	pk, err := PublicKeyFromHex(s.PublicKey().Hex())
	require.NoError(t, err)
	assert.Equal(t, s.PublicKey(), pk)
}

func TestSignatureHexRoundTrip(t *testing.T) {
	s := testSigner(t)
	sig, err := s.SignMusig([]byte("x"))
	require.NoError(t, err)

	back, err := SignatureFromHex(sig.Hex())
	require.NoError(t, err)
	assert.Equal(t, sig, back)
	assert.False(t, back.IsEmpty())
	assert.True(t, (&ZkLinkSignature{}).IsEmpty())
}

func TestSignerFromEthSigner(t *testing.T) {
	eth, err := ethsigner.NewPrivateKeySigner("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)

	a, err := NewZkLinkSignerFromEthSigner(eth)
	require.NoError(t, err)
	b, err := NewZkLinkSignerFromHexEthSigner("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())
}

func TestRescueHashOrdersWidth(t *testing.T) {
	h, err := RescueHashOrders(make([]byte, OrdersBytes))
	require.NoError(t, err)
	assert.Len(t, h, DigestLen)

	_, err = RescueHashOrders(make([]byte, OrdersBytes+1))
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
}

func TestRescueHashTxMsgPadding(t *testing.T) {
	// 短消息补零到 736 位，尾部补零不改变摘要
	assert.Equal(t, RescueHashTxMsg([]byte{1}), RescueHashTxMsg([]byte{1, 0}))
	assert.NotEqual(t, RescueHashTxMsg([]byte{1}), RescueHashTxMsg([]byte{2}))
}
