package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/logger"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/types"
)

// WalletConfig 以太坊钱包配置，私钥和助记词二选一
type WalletConfig struct {
	PrivateKey     string `yaml:"private_key" json:"private_key"`
	Mnemonic       string `yaml:"mnemonic" json:"mnemonic"`
	DerivationPath string `yaml:"derivation_path" json:"derivation_path"`
}

// SecretStoreConfig 本地加密密钥库
type SecretStoreConfig struct {
	Path string `yaml:"path" json:"path"`
	// 32 字节，hex 或 base64
	Key string `yaml:"key" json:"key"`
}

// Config 签名器运行配置
type Config struct {
	ChainId        uint8             `yaml:"chain_id" json:"chain_id"`
	L1ClientId     uint32            `yaml:"l1_client_id" json:"l1_client_id"`
	MainContract   string            `yaml:"main_contract" json:"main_contract"`
	AccountAddress string            `yaml:"account_address" json:"account_address"`
	Wallet         WalletConfig      `yaml:"wallet" json:"wallet"`
	SecretStore    SecretStoreConfig `yaml:"secret_store" json:"secret_store"`
	Log            logger.Config     `yaml:"log" json:"log"`
}

const defaultDerivationPath = "m/44'/60'/0'/0/0"

// LoadFromFile 加载配置，优先级：环境变量 > 配置文件 > 默认值。
// filePath 为空时只读取环境变量；当前目录下的 .env 会先被加载。
func LoadFromFile(filePath string) (*Config, error) {
	// .env 不存在不是错误
	_ = godotenv.Load()

	config := defaults()
	if filePath != "" {
		if err := loadConfigFile(filePath, config); err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}
	applyEnv(config)
	return config, nil
}

func defaults() *Config {
	return &Config{
		Wallet: WalletConfig{DerivationPath: defaultDerivationPath},
		Log: logger.Config{
			Level:      "info",
			Format:     "text",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// loadConfigFile 按扩展名解析 YAML 或 JSON，覆盖 config 中已有的默认值
func loadConfigFile(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}
	return nil
}

func applyEnv(c *Config) {
	c.ChainId = uint8(parseUintEnv("ZKLINK_CHAIN_ID", uint64(c.ChainId), 8))
	c.L1ClientId = uint32(parseUintEnv("ZKLINK_L1_CLIENT_ID", uint64(c.L1ClientId), 32))
	c.MainContract = getEnv("ZKLINK_MAIN_CONTRACT", c.MainContract)
	c.AccountAddress = getEnv("ZKLINK_ACCOUNT_ADDRESS", c.AccountAddress)

	c.Wallet.PrivateKey = getEnv("ZKLINK_ETH_PRIVATE_KEY", c.Wallet.PrivateKey)
	c.Wallet.Mnemonic = getEnv("ZKLINK_MNEMONIC", c.Wallet.Mnemonic)
	c.Wallet.DerivationPath = getEnv("ZKLINK_DERIVATION_PATH", c.Wallet.DerivationPath)

	c.SecretStore.Path = getEnv("ZKLINK_SECRET_STORE_PATH", c.SecretStore.Path)
	c.SecretStore.Key = getEnv("ZKLINK_SECRET_STORE_KEY", c.SecretStore.Key)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Log.OutputFile = getEnv("LOG_FILE", c.Log.OutputFile)
	c.Log.MaxSize = parseIntEnv("LOG_MAX_SIZE", c.Log.MaxSize)
	c.Log.Compress = parseBoolEnv("LOG_COMPRESS", c.Log.Compress)
}

// Validate 检查缺失或格式错误的配置项
func (c *Config) Validate() error {
	var errs []string

	if c.Wallet.PrivateKey != "" && c.Wallet.Mnemonic != "" {
		errs = append(errs, "wallet.private_key 和 wallet.mnemonic 不能同时设置")
	}
	if c.Wallet.PrivateKey != "" {
		key := types.ZeroxPrefix + strings.TrimPrefix(c.Wallet.PrivateKey, types.ZeroxPrefix)
		if _, err := types.DecodePrefixedHex(key, 32); err != nil {
			errs = append(errs, "wallet.private_key 必须是 32 字节的 hex 字符串")
		}
	}
	if c.Wallet.Mnemonic != "" && len(strings.Fields(c.Wallet.Mnemonic))%3 != 0 {
		errs = append(errs, "wallet.mnemonic 单词数量必须是 3 的倍数")
	}
	if c.Wallet.Mnemonic != "" && !strings.HasPrefix(c.Wallet.DerivationPath, "m/") {
		errs = append(errs, fmt.Sprintf("wallet.derivation_path 格式错误: %q", c.Wallet.DerivationPath))
	}
	if c.MainContract != "" {
		if _, err := types.ZkLinkAddressFromHex(c.MainContract); err != nil {
			errs = append(errs, fmt.Sprintf("main_contract 格式错误: %v", err))
		}
	}
	if c.AccountAddress != "" {
		if _, err := types.ZkLinkAddressFromHex(c.AccountAddress); err != nil {
			errs = append(errs, fmt.Sprintf("account_address 格式错误: %v", err))
		}
	}
	if c.SecretStore.Key != "" && c.SecretStore.Path == "" {
		errs = append(errs, "secret_store.key 已设置但 secret_store.path 为空")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format 只支持 text 或 json: %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证失败: %s", strings.Join(errs, "; "))
	}
	return nil
}

// HasWallet 是否配置了以太坊私钥或助记词
func (c *Config) HasWallet() bool {
	return c.Wallet.PrivateKey != "" || c.Wallet.Mnemonic != ""
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseUintEnv 解析无符号整数环境变量，超出 bits 位宽时返回默认值
func parseUintEnv(key string, defaultValue uint64, bits int) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseBoolEnv 解析布尔环境变量
func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
