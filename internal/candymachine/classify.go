package candymachine

import (
	"errors"
	"fmt"
	"strings"

	"candy-machine-mint-go/internal/config"
)

// OutcomeKind is the closed set of terminal mint outcomes
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSoldOut
	OutcomeNotYetLive
	OutcomeInsufficientFunds
	OutcomeUserRejectedSigning
	OutcomeNetworkTimeout
	OutcomeUnknownFailure
)

// String returns a log-friendly label for the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSoldOut:
		return "sold_out"
	case OutcomeNotYetLive:
		return "not_yet_live"
	case OutcomeInsufficientFunds:
		return "insufficient_funds"
	case OutcomeUserRejectedSigning:
		return "user_rejected_signing"
	case OutcomeNetworkTimeout:
		return "network_timeout"
	case OutcomeUnknownFailure:
		return "unknown_failure"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one mint attempt
type Outcome struct {
	Kind      OutcomeKind
	Code      *int // raw program error code when one was recovered
	Message   string
	MintID    string
	Signature string
}

// Classify maps an attempt and any pipeline error to a terminal outcome.
// Structured program error codes win over free-text patterns, which win
// over generic transport failures.
func Classify(attempt *MintAttempt, err error) Outcome {
	outcome := Outcome{}
	if attempt != nil {
		outcome.MintID = attempt.MintID.String()
		if !attempt.Signature.IsZero() {
			outcome.Signature = attempt.Signature.String()
		}
	}

	var signingErr *SigningError
	if errors.As(err, &signingErr) {
		outcome.Kind = OutcomeUserRejectedSigning
		outcome.Message = "signing was rejected"
		return outcome
	}

	var submissionErr *SubmissionError
	if errors.As(err, &submissionErr) {
		outcome.Kind = OutcomeUnknownFailure
		outcome.Message = submissionErr.Error()
		return outcome
	}

	if err != nil {
		outcome.Kind = OutcomeUnknownFailure
		outcome.Message = err.Error()
		return outcome
	}

	switch attempt.Status {
	case AttemptConfirmed:
		outcome.Kind = OutcomeSuccess
		outcome.Message = "mint confirmed"
	case AttemptTimedOut:
		outcome.Kind = OutcomeNetworkTimeout
		outcome.Message = "confirmation timed out, transaction status unknown"
	case AttemptFailed:
		classifyLedgerError(attempt, &outcome)
	default:
		outcome.Kind = OutcomeUnknownFailure
		outcome.Message = "attempt not terminal"
	}

	return outcome
}

// classifyLedgerError resolves a failed attempt's outcome from the error
// recorded on the ledger.
func classifyLedgerError(attempt *MintAttempt, outcome *Outcome) {
	if code := ExtractCustomErrorCode(attempt.LedgerErr); code != nil {
		outcome.Code = code
		switch *code {
		case config.ErrCodeSoldOut:
			outcome.Kind = OutcomeSoldOut
			outcome.Message = "all items have been minted"
		case config.ErrCodeNotLive:
			outcome.Kind = OutcomeNotYetLive
			outcome.Message = "minting has not gone live yet"
		case config.ErrCodeInsufficientFunds:
			outcome.Kind = OutcomeInsufficientFunds
			outcome.Message = "wallet balance is too low to mint"
		default:
			outcome.Kind = OutcomeUnknownFailure
			outcome.Message = fmt.Sprintf("mint failed with program error %d", *code)
		}
		return
	}

	// Fall back to the hex error strings transaction logs render
	text := attempt.ErrText
	if text == "" && attempt.LedgerErr != nil {
		text = fmt.Sprintf("%v", attempt.LedgerErr)
	}

	switch {
	case strings.Contains(text, "0x137"):
		outcome.Kind = OutcomeSoldOut
		outcome.Message = "all items have been minted"
	case strings.Contains(text, "0x135"):
		outcome.Kind = OutcomeInsufficientFunds
		outcome.Message = "wallet balance is too low to mint"
	case strings.Contains(text, "0x138"):
		// 0x138 is the not-live code, but a failed transaction carrying it
		// at this stage has no reliable meaning, so surface it raw.
		code := config.ErrCodeNotLive
		outcome.Code = &code
		outcome.Kind = OutcomeUnknownFailure
		outcome.Message = "mint failed with program error 312"
	default:
		outcome.Kind = OutcomeUnknownFailure
		if text == "" {
			text = "transaction failed"
		}
		outcome.Message = text
	}
}

// ExtractCustomErrorCode digs the anchor custom error code out of a raw
// transaction error, which arrives as
// {"InstructionError": [index, {"Custom": code}]}.
func ExtractCustomErrorCode(ledgerErr interface{}) *int {
	errMap, ok := ledgerErr.(map[string]interface{})
	if !ok {
		return nil
	}

	ixErr, ok := errMap["InstructionError"]
	if !ok {
		return nil
	}

	parts, ok := ixErr.([]interface{})
	if !ok || len(parts) < 2 {
		return nil
	}

	detail, ok := parts[1].(map[string]interface{})
	if !ok {
		return nil
	}

	custom, ok := detail["Custom"]
	if !ok {
		return nil
	}

	switch v := custom.(type) {
	case float64:
		code := int(v)
		return &code
	case int:
		code := v
		return &code
	default:
		return nil
	}
}

// UserMessage renders the outcome for display
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case OutcomeSuccess:
		return "Congratulations! Mint succeeded!"
	case OutcomeSoldOut:
		return "SOLD OUT!"
	case OutcomeNotYetLive:
		return "Mint is not live yet!"
	case OutcomeInsufficientFunds:
		return "Insufficient funds to mint. Please fund your wallet."
	case OutcomeUserRejectedSigning:
		return "Transaction was not approved."
	case OutcomeNetworkTimeout:
		return "Mint timed out. The transaction may still complete; check your wallet before retrying."
	default:
		return "Minting failed! Please try again!"
	}
}
