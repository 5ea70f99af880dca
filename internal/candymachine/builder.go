package candymachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/sirupsen/logrus"

	"candy-machine-mint-go/pkg/utils"
)

// Builder precondition errors, checked before any transaction is assembled
var (
	ErrMissingWallet = errors.New("no wallet connected")
	ErrNotEligible   = errors.New("wallet is not eligible to mint")
)

// SPL token mint account size in bytes
const mintAccountSize = 82

// BuilderClient is the network surface the builder needs
type BuilderClient interface {
	AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
}

// BuildResult is an assembled, unsigned mint transaction together with the
// one-time mint keypair that must co-sign it.
type BuildResult struct {
	Transaction *solana.Transaction
	MintKeypair solana.PrivateKey
	ATACreated  bool
}

// Builder assembles mint transactions for one candy machine
type Builder struct {
	client       BuilderClient
	logger       *logrus.Logger
	candyMachine solana.PublicKey
}

// NewBuilder creates a mint transaction builder
func NewBuilder(client BuilderClient, candyMachine solana.PublicKey, logger *logrus.Logger) *Builder {
	return &Builder{
		client:       client,
		logger:       logger,
		candyMachine: candyMachine,
	}
}

// Build assembles a full mint transaction for the payer. Every call
// generates a fresh mint keypair; a keypair from a previous attempt is
// never reused, so an ambiguous earlier attempt can still land safely.
func (b *Builder) Build(ctx context.Context, cfg *SaleConfig, view *DerivedView, payer solana.PublicKey) (*BuildResult, error) {
	if payer.IsZero() {
		return nil, ErrMissingWallet
	}
	if !view.IsActive {
		return nil, ErrNotEligible
	}

	mintKeypair, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate mint keypair: %w", err)
	}
	mint := mintKeypair.PublicKey()

	accounts, err := ResolveMintAccounts(cfg, b.candyMachine, payer, mint)
	if err != nil {
		return nil, err
	}

	rentLamports, err := b.client.GetMinimumBalanceForRentExemption(ctx, mintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get rent exemption: %w", err)
	}

	pda := utils.NewCandyMachinePDADerivation()
	receivingATA, _, err := pda.DeriveAssociatedTokenAccount(payer, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive receiving token account: %w", err)
	}

	instructions := []solana.Instruction{
		CreateAccountInstruction(payer, mint, rentLamports, mintAccountSize),
		InitializeMintInstruction(mint, payer),
	}

	// The receiving account for a fresh mint never exists, but the lookup
	// keeps the create idempotent if a build is retried with the same key.
	ataCreated := false
	exists, err := b.client.AccountExists(ctx, receivingATA)
	if err != nil {
		return nil, fmt.Errorf("failed to check receiving token account: %w", err)
	}
	if !exists {
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(payer, payer, mint).Build())
		ataCreated = true
	}

	instructions = append(instructions, MintToInstruction(mint, receivingATA, payer))

	if cfg.Gatekeeper != nil && cfg.Gatekeeper.ExpireOnUse && accounts.GatewayToken != nil {
		instructions = append(instructions,
			GatewayExpireInstruction(*accounts.GatewayToken, payer, cfg.Gatekeeper.Network))
	}

	instructions = append(instructions, CreateMintInstruction(accounts))

	blockhash, err := b.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"mint":         mint.String(),
		"instructions": len(instructions),
		"ata_created":  ataCreated,
	}).Debug("Mint transaction assembled")

	return &BuildResult{
		Transaction: tx,
		MintKeypair: mintKeypair,
		ATACreated:  ataCreated,
	}, nil
}
