package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// 错误类型，调用方使用 errors.Is 判断
var (
	// ErrParse 十六进制/字符串格式错误
	ErrParse = errors.New("parse error")
	// ErrSizeMismatch 定长字段的字节长度不符
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrRange 标识符或数值超出协议位宽
	ErrRange = errors.New("value out of range")
	// ErrUnpackableAmount 金额无法无损打包
	ErrUnpackableAmount = errors.New("unpackable amount")
	// ErrSignature 私钥/公钥/签名字节无法解析
	ErrSignature = errors.New("signature error")
	// ErrAuthorizationMismatch CREATE2 推导地址与账户地址不一致
	ErrAuthorizationMismatch = errors.New("authorization mismatch")
	// ErrValidation 交易语义校验失败
	ErrValidation = errors.New("validation error")
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field string      // 字段路径，例如 Maker.Amount
	Rule  string      // 校验规则名
	Value interface{} // 字段值
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s failed %q (value=%v)", f.Field, f.Rule, f.Value)
}

// ValidationError 汇总一笔交易所有失败的字段
type ValidationError struct {
	TxType string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: invalid %s: %s", ErrValidation, e.TxType, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// First 返回第一个失败字段
func (e *ValidationError) First() (FieldError, bool) {
	if e == nil || len(e.Fields) == 0 {
		return FieldError{}, false
	}
	return e.Fields[0], true
}

// HasField 判断某个字段是否失败
func (e *ValidationError) HasField(field string) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
