package tx

import (
	"math/big"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/pack"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator 注册协议校验规则，进程内只初始化一次
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		// *big.Int 统一转为十进制字符串再校验
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if n, ok := field.Interface().(big.Int); ok {
				return n.String()
			}
			return nil
		}, big.Int{})

		rules := map[string]validator.Func{
			"account":           uintAtMost(MaxAccountId),
			"sub_account":       uintAtMost(MaxSubAccountId),
			"token":             uintAtMost(MaxTokenId),
			"slot":              uintAtMost(MaxSlotId),
			"nonce":             uintAtMost(MaxNonce),
			"order_nonce":       uintAtMost(MaxOrderNonce),
			"chain":             uintBetween(MinChainId, MaxChainId),
			"boolean":           uintAtMost(1),
			"amount_packable":   bigRule(pack.IsTokenAmountPackable),
			"fee_packable":      bigRule(pack.IsFeeAmountPackable),
			"amount_unpackable": bigRule(types.FitsU128),
			"price":             bigRule(isValidPrice),
			"zklink_address":    isValidAddress,
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
		validate = v
	})
	return validate
}

func uintAtMost(max uint64) validator.Func {
	return uintBetween(0, max)
}

func uintBetween(min, max uint64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return f.Uint() >= min && f.Uint() <= max
		}
		return false
	}
}

func bigRule(check func(*big.Int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return false
		}
		n, err := types.ParseBigUint(f.String())
		if err != nil {
			return false
		}
		return check(n)
	}
}

// isValidPrice 0 < price < 2^120
func isValidPrice(p *big.Int) bool {
	return p.Sign() > 0 && p.BitLen() <= PriceBitWidth
}

// isValidAddress 非零地址，且不能是全局资产账户
func isValidAddress(fl validator.FieldLevel) bool {
	a, ok := fl.Field().Interface().(types.ZkLinkAddress)
	if !ok {
		return false
	}
	return (len(a) == types.EthAddressLen || len(a) == types.PaddedAddressLen) &&
		!a.IsZero() && !a.IsGlobalAccountAddress()
}

// validateStruct 运行结构体校验，把所有失败字段汇总为 *types.ValidationError
func validateStruct(txType string, s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrapf(types.ErrValidation, "%s: %v", txType, err)
	}
	out := &types.ValidationError{TxType: txType}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, types.FieldError{
			Field: fieldPath(fe.StructNamespace()),
			Rule:  fe.Tag(),
			Value: fe.Value(),
		})
	}
	return out
}

// fieldPath 去掉顶层结构体名：OrderMatching.Maker.Amount -> Maker.Amount
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// mergeValidation 合并多个校验结果
func mergeValidation(txType string, errs ...error) error {
	out := &types.ValidationError{TxType: txType}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			out.Fields = append(out.Fields, ve.Fields...)
			continue
		}
		return err
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}
