package wallet

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/tyler-smith/go-bip39"

	"candy-machine-mint-go/internal/config"
)

// Wallet represents the buyer's Solana wallet
type Wallet struct {
	account types.Account
	logger  *logrus.Logger
}

// WalletConfig contains wallet configuration. Exactly one of PrivateKey or
// Mnemonic must be set.
type WalletConfig struct {
	PrivateKey string
	Mnemonic   string
	Network    string
}

// NewWallet creates a new wallet instance from a base58 private key or a
// BIP-39 mnemonic phrase.
func NewWallet(cfg WalletConfig, logger *logrus.Logger) (*Wallet, error) {
	var account types.Account
	var err error

	switch {
	case cfg.PrivateKey != "":
		account, err = types.AccountFromBase58(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
	case cfg.Mnemonic != "":
		if !bip39.IsMnemonicValid(cfg.Mnemonic) {
			return nil, fmt.Errorf("invalid mnemonic phrase")
		}
		seed := bip39.NewSeed(cfg.Mnemonic, "")
		account, err = types.AccountFromSeed(seed[:32])
		if err != nil {
			return nil, fmt.Errorf("failed to derive account from mnemonic: %w", err)
		}
	default:
		return nil, fmt.Errorf("private key or mnemonic is required")
	}

	wallet := &Wallet{
		account: account,
		logger:  logger,
	}

	logger.WithFields(logrus.Fields{
		"public_key": wallet.PublicKey().String(),
		"network":    cfg.Network,
	}).Info("Wallet initialized")

	return wallet, nil
}

// PublicKey returns the wallet's public key
func (w *Wallet) PublicKey() solana.PublicKey {
	return solana.PublicKeyFromBytes(w.account.PublicKey.Bytes())
}

// PublicKeyString returns the wallet's public key as base58 string
func (w *Wallet) PublicKeyString() string {
	return w.account.PublicKey.String()
}

// privateKey returns the signing key in solana-go form
func (w *Wallet) privateKey() solana.PrivateKey {
	return solana.PrivateKey(w.account.PrivateKey)
}

// SignTransaction signs the transaction with the wallet key and any extra
// per-attempt keys, such as the one-time mint keypair.
func (w *Wallet) SignTransaction(ctx context.Context, tx *solana.Transaction, extra ...solana.PrivateKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	walletKey := w.privateKey()
	walletPub := w.PublicKey()

	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if walletPub.Equals(key) {
			k := walletKey
			return &k
		}
		for _, extraKey := range extra {
			if extraKey.PublicKey().Equals(key) {
				k := extraKey
				return &k
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	return nil
}

// BalanceSOL converts a lamport balance to SOL for display
func BalanceSOL(lamports uint64) float64 {
	return config.ConvertLamportsToSOL(lamports)
}
