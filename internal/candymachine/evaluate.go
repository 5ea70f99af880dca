package candymachine

import "time"

// Evaluate computes the wallet-specific view of the sale from the decoded
// config, the wallet's whitelist token balance, and the current time. It is
// pure: no network access, no clock reads.
func Evaluate(cfg *SaleConfig, whitelistBalance uint64, now time.Time) DerivedView {
	view := DerivedView{
		ItemsRedeemed:          cfg.ItemsRedeemed,
		PaysWithToken:          cfg.PaysWithToken(),
		WalletWhitelistBalance: whitelistBalance,
	}

	// An item-limit end condition caps the effective supply below the
	// configured item count.
	view.ItemsAvailable = cfg.ItemsAvailable
	if cfg.EndCondition != nil &&
		cfg.EndCondition.Type == EndConditionItemLimit &&
		cfg.EndCondition.Number < view.ItemsAvailable {
		view.ItemsAvailable = cfg.EndCondition.Number
	}

	if view.ItemsRedeemed >= view.ItemsAvailable {
		view.ItemsRemaining = 0
	} else {
		view.ItemsRemaining = view.ItemsAvailable - view.ItemsRedeemed
	}

	if cfg.GoLiveDate != nil {
		t := time.Unix(*cfg.GoLiveDate, 0).UTC()
		view.GoLiveAt = &t
	}
	if cfg.EndCondition != nil && cfg.EndCondition.Type == EndConditionDate {
		t := time.Unix(int64(cfg.EndCondition.Number), 0).UTC()
		view.EndsAt = &t
	}

	if cfg.Whitelist != nil {
		view.IsPresale = cfg.Whitelist.PresaleOnly
		// A whitelist with neither presale gating nor a discount exists
		// purely to restrict who can mint.
		view.IsWhitelistOnly = !cfg.Whitelist.PresaleOnly &&
			cfg.Whitelist.DiscountPrice == nil
	}

	computeEnded(cfg, &view, now)
	computePrice(cfg, &view, whitelistBalance)
	computeActivity(cfg, &view, whitelistBalance, now)

	return view
}

// computeEnded sets IsEnded from the configured end condition
func computeEnded(cfg *SaleConfig, view *DerivedView, now time.Time) {
	if cfg.EndCondition == nil {
		return
	}
	switch cfg.EndCondition.Type {
	case EndConditionDate:
		view.IsEnded = !now.Before(time.Unix(int64(cfg.EndCondition.Number), 0))
	case EndConditionItemLimit:
		view.IsEnded = view.ItemsRedeemed >= view.ItemsAvailable
	}
}

// computePrice sets the effective price, applying the whitelist discount
// only while the wallet actually holds a whitelist token and the sale has
// not ended.
func computePrice(cfg *SaleConfig, view *DerivedView, whitelistBalance uint64) {
	view.EffectivePrice = cfg.Price
	if cfg.Whitelist != nil &&
		cfg.Whitelist.DiscountPrice != nil &&
		whitelistBalance > 0 &&
		!view.IsEnded {
		view.EffectivePrice = *cfg.Whitelist.DiscountPrice
	}
	view.DiscountApplied = view.EffectivePrice != cfg.Price
}

// computeActivity sets IsSoldOut and IsActive. A sold-out sale is never
// active regardless of any other condition.
func computeActivity(cfg *SaleConfig, view *DerivedView, whitelistBalance uint64, now time.Time) {
	view.IsSoldOut = view.ItemsRedeemed >= view.ItemsAvailable

	switch {
	case view.IsEnded:
		view.IsActive = false
	case cfg.Whitelist != nil && cfg.Whitelist.PresaleOnly && whitelistBalance > 0:
		// Presale holders mint before the public go-live
		view.IsActive = true
	case view.IsWhitelistOnly && whitelistBalance == 0:
		view.IsActive = false
	case cfg.GoLiveDate == nil:
		// No public start configured means no public sale
		view.IsActive = false
	default:
		view.IsActive = !now.Before(time.Unix(*cfg.GoLiveDate, 0))
	}

	if view.IsSoldOut {
		view.IsActive = false
	}
}
