package candymachine

import (
	"time"

	"candy-machine-mint-go/internal/config"
)

// ApplyMintSuccess projects one confirmed mint onto the current view
// without a network round trip. The projection is optimistic bookkeeping
// only; the next full refresh overwrites it with chain truth.
func ApplyMintSuccess(view DerivedView, cfg *SaleConfig, now time.Time) DerivedView {
	next := view

	if next.ItemsRedeemed < next.ItemsAvailable {
		next.ItemsRedeemed++
	}
	if next.ItemsRemaining > 0 {
		next.ItemsRemaining--
	}

	// A burn-mode whitelist consumes one token per mint
	if cfg.Whitelist != nil &&
		cfg.Whitelist.Mode == WhitelistBurnEveryTime &&
		next.WalletWhitelistBalance > 0 {
		next.WalletWhitelistBalance--
	}

	// Native payment also reduces the cached wallet balance by the price
	// plus a flat fee estimate
	if !next.PaysWithToken {
		spent := next.EffectivePrice + config.MintFeeEstimateLamports
		if next.WalletLamports > spent {
			next.WalletLamports -= spent
		} else {
			next.WalletLamports = 0
		}
	}

	// Re-derive ended, sold-out, price, and active with the same rules the
	// evaluator uses, so the projected view cannot drift from them
	computeEnded(cfg, &next, now)
	computePrice(cfg, &next, next.WalletWhitelistBalance)
	computeActivity(cfg, &next, next.WalletWhitelistBalance, now)

	return next
}
