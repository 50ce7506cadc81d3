package bindings

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// Kind 类型在边界上的表示形式
type Kind int

const (
	KindFixedInt Kind = iota + 1
	KindDecimalString
	KindHexString
)

func (k Kind) String() string {
	switch k {
	case KindFixedInt:
		return "fixed-int"
	case KindDecimalString:
		return "decimal-string"
	case KindHexString:
		return "hex-string"
	}
	return "unknown"
}

// Registry 记录每个边界类型名使用的转换形式
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// DefaultRegistry 列出所有跨越边界的 SDK 类型
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, name := range []string{
		"AccountId", "SubAccountId", "TokenId", "SlotId", "Nonce", "ChainId",
		"PairId", "BlockNumber", "PriorityOpId", "EthBlockId", "TimeStamp",
	} {
		r.mustRegister(name, KindFixedInt)
	}
	r.mustRegister("BigUint", KindDecimalString)
	for _, name := range []string{
		"TxHash", "H256", "ZkLinkAddress", "PubKeyHash", "PackedPublicKey",
		"ZkLinkSignature", "PackedEthSignature",
	} {
		r.mustRegister(name, KindHexString)
	}
	return r
}

// Register 登记类型名，同名以不同形式重复登记返回错误
func (r *Registry) Register(name string, kind Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.kinds[name]; ok && existing != kind {
		return errors.Wrapf(types.ErrValidation, "%s already registered as %s", name, existing)
	}
	r.kinds[name] = kind
	return nil
}

func (r *Registry) mustRegister(name string, kind Kind) {
	if err := r.Register(name, kind); err != nil {
		panic(err)
	}
}

// Kind 查询类型名
func (r *Registry) Kind(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Names 某种形式下已登记的类型名，已排序
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, k := range r.kinds {
		if k == kind {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
