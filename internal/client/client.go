package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// ErrAccountNotFound is returned when an account does not exist on chain
var ErrAccountNotFound = errors.New("account not found")

// Client represents a Solana RPC client wrapper
type Client struct {
	client *rpc.Client
	logger *logrus.Logger
}

// ClientConfig contains configuration for Solana client
type ClientConfig struct {
	RPCEndpoint string
	APIKey      string
	Timeout     time.Duration
}

// NewClient creates a new Solana RPC client
func NewClient(config ClientConfig, logger *logrus.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	var rpcClient *rpc.Client
	if config.APIKey != "" {
		// Create client with API key authentication
		rpcClient = rpc.NewWithHeaders(config.RPCEndpoint, map[string]string{
			"Authorization": "Bearer " + config.APIKey,
		})
	} else {
		rpcClient = rpc.New(config.RPCEndpoint)
	}

	return &Client{
		client: rpcClient,
		logger: logger,
	}
}

// GetAccountInfo gets account information
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	result, err := c.client.GetAccountInfo(ctx, pubkey)
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo failed: %w", err)
	}

	return result, nil
}

// GetAccountData fetches the raw data bytes of an account.
// Returns ErrAccountNotFound when the account does not exist.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.client.GetAccountInfo(ctx, pubkey)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("getAccountInfo failed: %w", err)
	}

	if result == nil || result.Value == nil {
		return nil, ErrAccountNotFound
	}

	data := result.Value.Data.GetBinary()
	if data == nil {
		return nil, ErrAccountNotFound
	}

	return data, nil
}

// AccountExists reports whether an account exists on chain
func (c *Client) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	result, err := c.client.GetAccountInfo(ctx, pubkey)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("getAccountInfo failed: %w", err)
	}

	return result != nil && result.Value != nil, nil
}

// GetTokenAccountBalance gets the raw base-unit balance of a token account.
// A missing account is reported as zero, matching how a wallet without the
// token should be treated.
func (c *Client) GetTokenAccountBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	result, err := c.client.GetTokenAccountBalance(ctx, tokenAccount, rpc.CommitmentConfirmed)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("getTokenAccountBalance failed: %w", err)
	}

	if result == nil || result.Value == nil {
		return 0, nil
	}

	amount, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token amount %q: %w", result.Value.Amount, err)
	}

	return amount, nil
}

// GetBalance gets account balance in lamports
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	result, err := c.client.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("getBalance failed: %w", err)
	}

	return result.Value, nil
}

// GetLatestBlockhash gets the latest blockhash
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("getLatestBlockhash failed: %w", err)
	}

	return result.Value.Blockhash, nil
}

// SendTransaction sends a transaction to the network
func (c *Client) SendTransaction(ctx context.Context, transaction *solana.Transaction) (solana.Signature, error) {
	sig, err := c.client.SendTransaction(ctx, transaction)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("sendTransaction failed: %w", err)
	}

	return sig, nil
}

// GetSignatureStatuses gets signature statuses
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures []solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	result, err := c.client.GetSignatureStatuses(ctx, true, signatures...)
	if err != nil {
		return nil, fmt.Errorf("getSignatureStatuses failed: %w", err)
	}

	return result, nil
}

// GetSignatureStatus gets single signature status (convenience method)
func (c *Client) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error) {
	result, err := c.GetSignatureStatuses(ctx, []solana.Signature{signature})
	if err != nil {
		return nil, err
	}

	if result == nil || len(result.Value) == 0 {
		return nil, nil
	}

	return result.Value[0], nil
}

// GetMinimumBalanceForRentExemption gets the rent-exempt minimum for an
// account of the given size
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	result, err := c.client.GetMinimumBalanceForRentExemption(ctx, size, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("getMinimumBalanceForRentExemption failed: %w", err)
	}

	return result, nil
}

// GetSlot gets current slot
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	result, err := c.client.GetSlot(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("getSlot failed: %w", err)
	}

	return result, nil
}
