package candymachine

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Signer signs a transaction with the wallet key plus any per-attempt keys
type Signer interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction, extra ...solana.PrivateKey) error
}

// StatusReport is the submitter's view of a signature status lookup
type StatusReport struct {
	Found     bool
	Confirmed bool
	LedgerErr interface{} // transaction error recorded on the ledger, nil on success
}

// NetworkClient is the network surface the submitter needs
type NetworkClient interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (StatusReport, error)
}

// SigningError means the signer refused or failed to sign. Terminal for the
// attempt; never retried.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return "signing rejected: " + e.Err.Error()
}

func (e *SigningError) Unwrap() error { return e.Err }

// SubmissionError means the RPC node rejected the transaction outright.
// Nothing reached the ledger, so the engine may rebuild once with a new
// mint keypair.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "transaction submission failed: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PollConfig tunes the confirmation poll loop
type PollConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Timeout    time.Duration
}

// Submitter signs, submits, and confirms mint transactions
type Submitter struct {
	client NetworkClient
	signer Signer
	poll   PollConfig
	logger *logrus.Logger
}

// NewSubmitter creates a submitter
func NewSubmitter(client NetworkClient, signer Signer, poll PollConfig, logger *logrus.Logger) *Submitter {
	if poll.Initial <= 0 {
		poll.Initial = 2 * time.Second
	}
	if poll.Max < poll.Initial {
		poll.Max = poll.Initial
	}
	if poll.Multiplier < 1 {
		poll.Multiplier = 1.5
	}
	if poll.Timeout <= 0 {
		poll.Timeout = 60 * time.Second
	}

	return &Submitter{
		client: client,
		signer: signer,
		poll:   poll,
		logger: logger,
	}
}

// Submit signs and sends the built transaction, then polls for its terminal
// state. The returned attempt is Confirmed, Failed, or TimedOut; a TimedOut
// attempt may still land later and is never retried with the same keypair.
func (s *Submitter) Submit(ctx context.Context, build *BuildResult) (*MintAttempt, error) {
	attempt := &MintAttempt{
		MintID: build.MintKeypair.PublicKey(),
		Status: AttemptPending,
	}

	if err := s.signer.SignTransaction(ctx, build.Transaction, build.MintKeypair); err != nil {
		return nil, &SigningError{Err: err}
	}

	sig, err := s.client.SendTransaction(ctx, build.Transaction)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}

	attempt.Signature = sig
	attempt.SubmittedAt = time.Now()

	s.logger.WithFields(logrus.Fields{
		"mint":      attempt.MintID.String(),
		"signature": sig.String(),
	}).Info("Mint transaction submitted")

	s.waitForTerminal(ctx, attempt)
	return attempt, nil
}

// waitForTerminal polls the signature status at exponentially increasing
// intervals until the attempt is terminal or the deadline passes.
func (s *Submitter) waitForTerminal(ctx context.Context, attempt *MintAttempt) {
	deadline := time.Now().Add(s.poll.Timeout)
	interval := s.poll.Initial

	// Guarantee at least one poll lands before the deadline
	if interval > s.poll.Timeout {
		interval = s.poll.Timeout / 2
	}

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			attempt.Status = AttemptTimedOut
			attempt.ErrText = "confirmation deadline exceeded, outcome unknown"
			return
		}
		if interval > remaining {
			interval = remaining
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			attempt.Status = AttemptTimedOut
			attempt.ErrText = "confirmation cancelled, outcome unknown"
			return
		case <-timer.C:
		}

		report, err := s.client.GetSignatureStatus(ctx, attempt.Signature)
		if err != nil {
			// Transient lookup failures keep the attempt pending until
			// the deadline resolves it.
			s.logger.WithError(err).Debug("Signature status lookup failed")
		} else if report.Found {
			if report.LedgerErr != nil {
				attempt.Status = AttemptFailed
				attempt.LedgerErr = report.LedgerErr
				return
			}
			if report.Confirmed {
				attempt.Status = AttemptConfirmed
				return
			}
		}

		next := time.Duration(float64(interval) * s.poll.Multiplier)
		if next > s.poll.Max {
			next = s.poll.Max
		}
		interval = next
	}
}
