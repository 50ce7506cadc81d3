package pack

import (
	"errors"
	"math/big"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

func TestPackKnownVectors(t *testing.T) {
	// 与 Transfer 编码样例一致：amount 10000 -> 00 00 04 e2 00, fee 3 -> 00 60
	b, err := PackTokenAmount(big.NewInt(10000))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 4, 226, 0}, b)

	b, err = PackFeeAmount(big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 96}, b)
}

func TestPackZero(t *testing.T) {
	b, err := PackTokenAmount(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 5), b)

	b, err = PackFeeAmount(new(big.Int))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 2), b)
	assert.True(t, IsFeeAmountPackable(big.NewInt(0)))
}

func TestPackSmallestExponent(t *testing.T) {
	// 1e18 的尾数超过 2^35-1，需要指数 9：1e9 × 10^9
	amount := types.MustParseBigUint("1000000000000000000")
	b, err := PackTokenAmount(amount)
	require.NoError(t, err)

	packed := new(big.Int).SetBytes(b)
	assert.Equal(t, int64(9), new(big.Int).And(packed, big.NewInt(31)).Int64())
	assert.True(t, IsTokenAmountPackable(amount))
}

func TestPackBoundary(t *testing.T) {
	for _, f := range []Format{TokenAmount, FeeAmount} {
		max := f.MaxAmount()
		b, err := f.Pack(max)
		require.NoError(t, err, f.Name)
		assert.Equal(t, byteRepeat(0xff, f.Bytes()), b, f.Name)
		assert.True(t, f.IsPackable(max), f.Name)

		over := new(big.Int).Add(max, big.NewInt(1))
		_, err = f.Pack(over)
		assert.True(t, errors.Is(err, types.ErrUnpackableAmount), f.Name)
		assert.False(t, f.IsPackable(over), f.Name)
	}
}

func TestPackNegative(t *testing.T) {
	_, err := PackTokenAmount(big.NewInt(-1))
	assert.True(t, errors.Is(err, types.ErrUnpackableAmount))
	_, err = PackTokenAmount(nil)
	assert.True(t, errors.Is(err, types.ErrUnpackableAmount))
}

func TestLossyAmountNotPackable(t *testing.T) {
	// 2048 需要 12 位尾数，手续费格式只能写成 204 × 10
	assert.False(t, IsFeeAmountPackable(big.NewInt(2048)))
	assert.True(t, IsFeeAmountPackable(big.NewInt(2047)))
	assert.True(t, IsFeeAmountPackable(big.NewInt(2040)))

	closest, err := FeeAmount.ClosestPackable(big.NewInt(2048))
	require.NoError(t, err)
	assert.Equal(t, int64(2040), closest.Int64())
}

func TestUnpackSizeMismatch(t *testing.T) {
	_, err := UnpackTokenAmount([]byte{1, 2, 3, 4})
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
	_, err = UnpackFeeAmount([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
}

func TestPackRoundTripProperty(t *testing.T) {
	// mantissa × 10^exp 形式的金额总是可无损压缩
	property := func(mantissa uint64, exp uint8) bool {
		m := new(big.Int).SetUint64(mantissa & (1<<35 - 1))
		e := big.NewInt(int64(exp % 32))
		amount := m.Mul(m, new(big.Int).Exp(big.NewInt(10), e, nil))

		packed, err := PackTokenAmount(amount)
		if err != nil {
			return false
		}
		back, err := UnpackTokenAmount(packed)
		return err == nil && back.Cmp(amount) == 0 && IsTokenAmountPackable(amount)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}
}

func TestPackNeverRoundsUp(t *testing.T) {
	property := func(hi, lo uint64) bool {
		amount := new(big.Int).SetUint64(hi)
		amount.Lsh(amount, 64).Or(amount, new(big.Int).SetUint64(lo))
		closest, err := TokenAmount.ClosestPackable(amount)
		return err == nil && closest.Cmp(amount) <= 0
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}
}

func byteRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
