package cli

import (
	"fmt"

	"github.com/zklinkprotocol/zklink-go-sdk/pkg/config"
	"github.com/zklinkprotocol/zklink-go-sdk/pkg/secretstore"
	"github.com/zklinkprotocol/zklink-go-sdk/zklink/signing"
)

// openStore opens the configured secret store.
func openStore(cfg *config.Config) (*secretstore.Store, error) {
	if cfg.SecretStore.Path == "" {
		return nil, fmt.Errorf("secret store path is not configured (secret_store.path or ZKLINK_SECRET_STORE_PATH)")
	}
	key, err := secretstore.ParseKey(cfg.SecretStore.Key)
	if err != nil {
		return nil, err
	}
	return secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.SecretStore.Path,
		EncryptionKey: key,
	})
}

// loadSigner resolves the signer: a named secret-store record when --signer
// is set, otherwise the configured private key or mnemonic.
func loadSigner(opts *RootOptions) (*signing.Signer, error) {
	cfg := opts.cfg
	if opts.Signer != "" {
		store, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		rec, err := store.GetSigner(opts.Signer)
		if err != nil {
			return nil, err
		}
		return signing.NewSigner(rec.EthPrivateKey)
	}
	switch {
	case cfg.Wallet.PrivateKey != "":
		return signing.NewSigner(cfg.Wallet.PrivateKey)
	case cfg.Wallet.Mnemonic != "":
		return signing.NewSignerFromMnemonic(cfg.Wallet.Mnemonic, cfg.Wallet.DerivationPath)
	}
	return nil, fmt.Errorf("no signer configured: set ZKLINK_ETH_PRIVATE_KEY, wallet.mnemonic or --signer")
}

func signerFields(s *signing.Signer) (result, error) {
	pkHash, err := s.ZkSigner().PublicKeyHash()
	if err != nil {
		return nil, err
	}
	return result{
		{"address", s.Address().String()},
		{"pub_key", s.ZkSigner().PublicKey().Hex()},
		{"pub_key_hash", pkHash.Hex()},
	}, nil
}
