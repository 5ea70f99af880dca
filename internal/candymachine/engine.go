package candymachine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"candy-machine-mint-go/pkg/utils"
)

// Engine-level sentinel errors
var (
	// ErrAccountNotFound is returned when the candy machine account is missing
	ErrAccountNotFound = errors.New("account not found")
	// ErrMintInProgress is returned while another attempt holds the session
	ErrMintInProgress = errors.New("a mint attempt is already in progress")
	// ErrNoState is returned when AttemptMint runs before the first refresh
	ErrNoState = errors.New("no candy machine state loaded yet")
)

// ChainClient is the full network surface the engine needs
type ChainClient interface {
	BuilderClient
	NetworkClient
	GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error)
	GetTokenAccountBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error)
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
}

// Engine owns the refresh loop state and admits one mint attempt at a time
type Engine struct {
	client       ChainClient
	builder      *Builder
	submitter    *Submitter
	logger       *logrus.Logger
	candyMachine solana.PublicKey
	walletPub    solana.PublicKey // zero when no wallet is connected

	mu          sync.Mutex
	busy        bool
	cfg         *SaleConfig
	view        DerivedView
	hasView     bool
	subscribers []chan DerivedView
}

// NewEngine creates a mint engine for one candy machine
func NewEngine(
	client ChainClient,
	signer Signer,
	candyMachine solana.PublicKey,
	walletPub solana.PublicKey,
	poll PollConfig,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		client:       client,
		builder:      NewBuilder(client, candyMachine, logger),
		submitter:    NewSubmitter(client, signer, poll, logger),
		logger:       logger,
		candyMachine: candyMachine,
		walletPub:    walletPub,
	}
}

// Refresh fetches and re-evaluates the candy machine state. Malformed
// account data keeps the previous view intact and reports the decode error.
func (e *Engine) Refresh(ctx context.Context) (DerivedView, error) {
	data, err := e.client.GetAccountData(ctx, e.candyMachine)
	if err != nil {
		e.mu.Lock()
		prev := e.view
		e.mu.Unlock()
		return prev, fmt.Errorf("failed to fetch candy machine account: %w", err)
	}

	cfg, err := DecodeSaleConfig(data)
	if err != nil {
		e.mu.Lock()
		prev := e.view
		e.mu.Unlock()
		return prev, err
	}

	whitelistBalance := e.fetchWhitelistBalance(ctx, cfg)
	view := Evaluate(cfg, whitelistBalance, time.Now())

	if !e.walletPub.IsZero() {
		if lamports, err := e.client.GetBalance(ctx, e.walletPub); err == nil {
			view.WalletLamports = lamports
		} else {
			e.logger.WithError(err).Debug("Wallet balance fetch failed")
		}
	}

	e.mu.Lock()
	e.cfg = cfg
	e.view = view
	e.hasView = true
	e.mu.Unlock()

	e.logger.WithFields(logrus.Fields{
		"redeemed":  view.ItemsRedeemed,
		"available": view.ItemsAvailable,
		"active":    view.IsActive,
		"sold_out":  view.IsSoldOut,
	}).Debug("Candy machine state refreshed")

	e.publish(view)
	return view, nil
}

// fetchWhitelistBalance resolves the wallet's whitelist token balance,
// treating a missing token account as zero.
func (e *Engine) fetchWhitelistBalance(ctx context.Context, cfg *SaleConfig) uint64 {
	if cfg.Whitelist == nil || e.walletPub.IsZero() {
		return 0
	}

	pda := utils.NewCandyMachinePDADerivation()
	ata, _, err := pda.DeriveAssociatedTokenAccount(e.walletPub, cfg.Whitelist.Mint)
	if err != nil {
		e.logger.WithError(err).Debug("Whitelist token account derivation failed")
		return 0
	}

	balance, err := e.client.GetTokenAccountBalance(ctx, ata)
	if err != nil {
		e.logger.WithError(err).Debug("Whitelist balance fetch failed")
		return 0
	}

	return balance
}

// CurrentView returns the latest view, if any refresh has succeeded
func (e *Engine) CurrentView() (DerivedView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view, e.hasView
}

// GatekeeperRequired reports whether the sale demands a gateway token
func (e *Engine) GatekeeperRequired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg != nil && e.cfg.Gatekeeper != nil
}

// Subscribe returns a channel that receives every published view. Slow
// consumers miss intermediate views rather than blocking the engine.
func (e *Engine) Subscribe() <-chan DerivedView {
	ch := make(chan DerivedView, 1)
	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()
	return ch
}

// publish delivers a view to all subscribers without blocking
func (e *Engine) publish(view DerivedView) {
	e.mu.Lock()
	subs := make([]chan DerivedView, len(e.subscribers))
	copy(subs, e.subscribers)
	e.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- view:
		default:
			// Drop the stale view and replace it with the current one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}

// AttemptMint runs one complete mint attempt. Precondition failures return
// an error without consuming the attempt slot's outcome; everything from
// signing onward is reported through the classified Outcome. A confirmed
// mint is projected onto the view before the next attempt is admitted.
func (e *Engine) AttemptMint(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return Outcome{}, ErrMintInProgress
	}
	if !e.hasView {
		e.mu.Unlock()
		return Outcome{}, ErrNoState
	}
	e.busy = true
	cfg := e.cfg
	view := e.view
	e.mu.Unlock()

	outcome, err := e.runAttempt(ctx, cfg, view)

	e.mu.Lock()
	if err == nil && outcome.Kind == OutcomeSuccess {
		e.view = ApplyMintSuccess(e.view, cfg, time.Now())
	}
	projected := e.view
	e.busy = false
	e.mu.Unlock()

	if err == nil && outcome.Kind == OutcomeSuccess {
		e.publish(projected)
	}

	return outcome, err
}

// runAttempt executes build, sign, submit, and confirmation for one attempt
func (e *Engine) runAttempt(ctx context.Context, cfg *SaleConfig, view DerivedView) (Outcome, error) {
	build, err := e.builder.Build(ctx, cfg, &view, e.walletPub)
	if err != nil {
		return Outcome{}, err
	}

	attempt, err := e.submitter.Submit(ctx, build)

	// An outright RPC rejection never reached the ledger, so one rebuild
	// with a brand new mint keypair is safe. Anything past submission,
	// including a timeout, is never retried.
	var submissionErr *SubmissionError
	if errors.As(err, &submissionErr) {
		e.logger.WithError(err).Warn("Submission rejected, rebuilding once with a new mint keypair")

		build, buildErr := e.builder.Build(ctx, cfg, &view, e.walletPub)
		if buildErr != nil {
			return Outcome{}, buildErr
		}
		attempt, err = e.submitter.Submit(ctx, build)
	}

	outcome := Classify(attempt, err)

	e.logOutcome(attempt, outcome)
	return outcome, nil
}

func (e *Engine) logOutcome(attempt *MintAttempt, outcome Outcome) {
	fields := logrus.Fields{
		"outcome": outcome.Kind.String(),
		"message": outcome.Message,
	}
	if attempt != nil {
		fields["mint"] = attempt.MintID.String()
		fields["signature"] = attempt.Signature.String()
	}
	if outcome.Code != nil {
		fields["code"] = *outcome.Code
	}

	if outcome.Kind == OutcomeSuccess {
		e.logger.WithFields(fields).Info("Mint attempt succeeded")
	} else {
		e.logger.WithFields(fields).Warn("Mint attempt did not succeed")
	}
}
