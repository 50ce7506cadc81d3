package rescue

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/ff"
)

// ChunkBits 每个域元素打包的消息位数
const ChunkBits = 253

// BytesToBits 将字节展开为位流，每个字节高位在前
func BytesToBits(data []byte) []bool {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	return bits
}

// BitsToBytes BytesToBits 的逆操作，位数必须是 8 的倍数
func BitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i*8+j] {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

// BitsToElements 按 ChunkBits 位一组把位流打包成域元素，组内小端
func BitsToElements(bits []bool) []*big.Int {
	out := make([]*big.Int, 0, (len(bits)+ChunkBits-1)/ChunkBits)
	for start := 0; start < len(bits); start += ChunkBits {
		end := start + ChunkBits
		if end > len(bits) {
			end = len(bits)
		}
		v := new(big.Int)
		for i, bit := range bits[start:end] {
			if bit {
				v.SetBit(v, i, 1)
			}
		}
		out = append(out, v)
	}
	return out
}

// ElementBitsLE v 的 256 位小端展开
func ElementBitsLE(v *big.Int) []bool {
	bits := make([]bool, 256)
	for i := range bits {
		bits[i] = v.Bit(i) == 1
	}
	return bits
}

// Hash 海绵吸收 inputs 后挤出一个元素，容量元素以输入长度初始化
func Hash(inputs []*big.Int) *big.Int {
	return DefaultParams().Hash(inputs)
}

// Hash 使用指定参数的海绵
func (p *Params) Hash(inputs []*big.Int) *big.Int {
	var state [StateWidth]ff.Element
	state[Rate].SetUint64(uint64(len(inputs)))

	padded := inputs
	if len(padded) == 0 || len(padded)%Rate != 0 {
		padded = make([]*big.Int, len(inputs)+Rate-len(inputs)%Rate)
		copy(padded, inputs)
	}

	for off := 0; off < len(padded); off += Rate {
		for i := 0; i < Rate; i++ {
			var e ff.Element
			if v := padded[off+i]; v != nil {
				e.SetBigInt(v)
			}
			state[i].Add(&state[i], &e)
		}
		p.Permute(&state)
	}
	return state[0].ToBigIntRegular(new(big.Int))
}

// HashBytes 经 BytesToBits、BitsToElements 后哈希字节串
func HashBytes(data []byte) *big.Int {
	return Hash(BitsToElements(BytesToBits(data)))
}
