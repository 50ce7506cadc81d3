package tx

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/pack"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// encoder 按协议顺序拼接定宽大端字段，记录第一个错误
type encoder struct {
	buf []byte
	err error
}

func newEncoder(tag byte, size int) *encoder {
	e := &encoder{buf: make([]byte, 0, size)}
	e.buf = append(e.buf, tag)
	return e
}

func (e *encoder) raw(b []byte) {
	if e.err == nil {
		e.buf = append(e.buf, b...)
	}
}

func (e *encoder) u8(v uint8) { e.raw([]byte{v}) }

// u16 TokenId/SlotId 占 2 字节，溢出记为 ErrRange
func (e *encoder) u16(field string, v uint32) { e.narrow(field, uint64(v), 2) }

// u24 订单 nonce 占 3 字节，溢出记为 ErrRange
func (e *encoder) u24(field string, v uint32) { e.narrow(field, uint64(v), 3) }

func (e *encoder) narrow(field string, v uint64, width int) {
	b, err := types.UintBytes(v, width)
	if err != nil {
		e.fail(errors.Wrap(err, field))
		return
	}
	e.raw(b)
}

func (e *encoder) u32(v uint32) { e.raw(types.ScalarBytes(v)) }

func (e *encoder) u64(v uint64) { e.raw(types.ScalarBytes(v)) }

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) tokenAmount(field string, v *big.Int) {
	b, err := pack.PackTokenAmount(v)
	if err != nil {
		e.fail(errors.Wrap(err, field))
		return
	}
	e.raw(b)
}

func (e *encoder) feeAmount(field string, v *big.Int) {
	b, err := pack.PackFeeAmount(v)
	if err != nil {
		e.fail(errors.Wrap(err, field))
		return
	}
	e.raw(b)
}

func (e *encoder) u128(field string, v *big.Int) {
	b, err := types.U128Bytes(v)
	if err != nil {
		e.fail(errors.Wrap(err, field))
		return
	}
	e.raw(b)
}

// uintBits 非负整数前补零到 bits/8 字节
func (e *encoder) uintBits(field string, v *big.Int, bits int) {
	if v == nil || v.Sign() < 0 || v.BitLen() > bits {
		e.fail(errors.Wrapf(types.ErrRange, "%s %s exceeds %d bits", field, types.FormatBigUint(v), bits))
		return
	}
	e.raw(v.FillBytes(make([]byte, bits/8)))
}

func (e *encoder) address(field string, a types.ZkLinkAddress) {
	b, err := a.Padded()
	if err != nil {
		e.fail(errors.Wrap(err, field))
		return
	}
	e.raw(b)
}

func (e *encoder) bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}
