package candymachine

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"candy-machine-mint-go/pkg/utils"
)

// EndConditionType distinguishes how a sale ends
type EndConditionType uint8

const (
	// EndConditionDate ends the sale at a wall-clock time
	EndConditionDate EndConditionType = 0
	// EndConditionItemLimit caps the number of items that can be redeemed
	EndConditionItemLimit EndConditionType = 1
)

// WhitelistMode controls what happens to the whitelist token on mint
type WhitelistMode uint8

const (
	// WhitelistBurnEveryTime burns one whitelist token per mint
	WhitelistBurnEveryTime WhitelistMode = 0
	// WhitelistNeverBurn leaves the whitelist token untouched
	WhitelistNeverBurn WhitelistMode = 1
)

// EndCondition describes the configured end of the sale
type EndCondition struct {
	Type   EndConditionType
	Number uint64 // Unix seconds for Date, item count for ItemLimit
}

// WhitelistConfig describes whitelist gating for the sale
type WhitelistConfig struct {
	Mode          WhitelistMode
	Mint          solana.PublicKey
	PresaleOnly   bool
	DiscountPrice *uint64 // nil when holders pay the base price
}

// GatekeeperConfig describes a civic gatekeeper requirement
type GatekeeperConfig struct {
	Network     solana.PublicKey
	ExpireOnUse bool
}

// Creator is one royalty recipient recorded in minted metadata
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// HiddenSettings holds the hash-committed reveal configuration
type HiddenSettings struct {
	Name string
	URI  string
	Hash [32]byte
}

// SaleConfig is the decoded on-chain candy machine state
type SaleConfig struct {
	Authority      solana.PublicKey
	TreasuryWallet solana.PublicKey
	PaymentMint    *solana.PublicKey // nil means native SOL payment
	ItemsRedeemed  uint64

	UUID                 string
	Price                uint64 // base units of the payment currency
	Symbol               string
	SellerFeeBasisPoints uint16
	MaxSupply            uint64
	IsMutable            bool
	RetainAuthority      bool
	GoLiveDate           *int64 // Unix seconds, nil means no public start
	EndCondition         *EndCondition
	Creators             []Creator
	Hidden               *HiddenSettings
	Whitelist            *WhitelistConfig
	ItemsAvailable       uint64
	Gatekeeper           *GatekeeperConfig
}

// PaysWithToken reports whether the sale charges an SPL token
func (c *SaleConfig) PaysWithToken() bool {
	return c.PaymentMint != nil
}

// DerivedView is the evaluated, wallet-specific snapshot of the sale.
// It is recomputed on every refresh and adjusted by the projector after a
// confirmed mint; it is never partially mutated elsewhere.
type DerivedView struct {
	IsActive        bool
	IsEnded         bool
	IsSoldOut       bool
	IsWhitelistOnly bool
	IsPresale       bool

	ItemsAvailable uint64 // after any item-limit clamp
	ItemsRedeemed  uint64
	ItemsRemaining uint64

	EffectivePrice  uint64
	DiscountApplied bool
	PaysWithToken   bool

	WalletWhitelistBalance uint64
	WalletLamports         uint64

	GoLiveAt *time.Time
	EndsAt   *time.Time
}

// FormatPrice renders the effective price for display. SPL payment uses the
// configured token decimals and label; native payment renders in SOL.
func (v *DerivedView) FormatPrice(tokenDecimals int, tokenLabel string) string {
	if v.PaysWithToken {
		return utils.FormatPrice(v.EffectivePrice, tokenDecimals, tokenLabel)
	}
	return utils.FormatPrice(v.EffectivePrice, 9, "SOL")
}

// MintedPercent returns redemption progress in the range [0, 100]
func (v *DerivedView) MintedPercent() float64 {
	if v.ItemsAvailable == 0 {
		return 0
	}
	return float64(v.ItemsRedeemed) / float64(v.ItemsAvailable) * 100
}

// AttemptStatus is the lifecycle state of a single mint attempt
type AttemptStatus int

const (
	AttemptPending AttemptStatus = iota
	AttemptConfirmed
	AttemptFailed
	AttemptTimedOut
)

// String returns a log-friendly label for the status
func (s AttemptStatus) String() string {
	switch s {
	case AttemptPending:
		return "pending"
	case AttemptConfirmed:
		return "confirmed"
	case AttemptFailed:
		return "failed"
	case AttemptTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// MintAttempt records one submitted mint transaction. The mint keypair that
// identifies it is generated fresh per attempt and never reused, so a
// timed-out attempt can later confirm without colliding with a retry.
type MintAttempt struct {
	MintID      solana.PublicKey
	Signature   solana.Signature
	SubmittedAt time.Time
	Status      AttemptStatus
	ErrCode     *int
	ErrText     string
	LedgerErr   interface{} // raw transaction error from the status report
}
