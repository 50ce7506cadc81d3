// Package secretstore 在加密的 Badger 数据库中保存签名密钥
package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// KeyLen Badger 加密密钥字节数 (AES-256)
const KeyLen = 32

const signerPrefix = "signer/"

var (
	ErrNotOpened = errors.New("secretstore: not opened")
	ErrEmptyName = errors.New("secretstore: name is empty")
	ErrNotFound  = errors.New("secretstore: not found")
)

// Store 落盘加密的小型 KV 封装。
// 加密由 Badger 选项提供（value log + key registry），不在本封装内实现。
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // KeyLen 字节，nil 时不加密
	ReadOnly      bool
	InMemory      bool // 忽略 Path
}

// SignerRecord 一个具名签名者的密钥。
// L2 密钥由以太坊私钥派生时 ZkPrivateKey 为空。
type SignerRecord struct {
	EthPrivateKey string    `json:"eth_private_key,omitempty"`
	ZkPrivateKey  string    `json:"zk_private_key,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func Open(opts OpenOptions) (*Store, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	if len(opts.EncryptionKey) > 0 && len(opts.EncryptionKey) != KeyLen {
		return nil, errors.Errorf("secretstore: encryption key must be %d bytes, got %d", KeyLen, len(opts.EncryptionKey))
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	if len(opts.EncryptionKey) > 0 {
		// 加密模式下 Badger 需要 index cache
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "secretstore: open")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetString(key string) (string, bool, error) {
	raw, found, err := s.get(key)
	return string(raw), found, err
}

func (s *Store) SetString(key string, val string) error {
	return s.set(key, []byte(val))
}

// PutSigner 以 name 保存 rec，覆盖已有记录
func (s *Store) PutSigner(name string, rec SignerRecord) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "secretstore: encode signer")
	}
	return s.set(signerPrefix+name, raw)
}

// GetSigner 读取 name 对应的记录
func (s *Store) GetSigner(name string) (SignerRecord, error) {
	var rec SignerRecord
	name = strings.TrimSpace(name)
	if name == "" {
		return rec, ErrEmptyName
	}
	raw, found, err := s.get(signerPrefix + name)
	if err != nil {
		return rec, err
	}
	if !found {
		return rec, errors.Wrapf(ErrNotFound, "signer %q", name)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, errors.Wrapf(err, "secretstore: decode signer %q", name)
	}
	return rec, nil
}

// DeleteSigner 删除 name，不存在时不报错
func (s *Store) DeleteSigner(name string) error {
	if s == nil || s.db == nil {
		return ErrNotOpened
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(signerPrefix + name))
	})
}

// ListSigners 已保存的签名者名称，已排序
func (s *Store) ListSigners() ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotOpened
	}
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(signerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), signerPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) get(key string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, ErrNotOpened
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return nil, false, ErrEmptyName
	}
	var out []byte
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

func (s *Store) set(key string, val []byte) error {
	if s == nil || s.db == nil {
		return ErrNotOpened
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return ErrEmptyName
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, val)
	})
}

// ParseKey 解析 KeyLen 字节的 hex（0x 可选）或 base64，输入为空时返回 nil
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	// 先试 hex：64 位 hex 字符串同时也是合法 base64
	if b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x")); err == nil {
		if len(b) != KeyLen {
			return nil, errors.Errorf("decoded key length must be %d, got %d", KeyLen, len(b))
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != KeyLen {
			return nil, errors.Errorf("decoded key length must be %d, got %d", KeyLen, len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64 or hex of 32 bytes")
}
