package candymachine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *SaleConfig {
	goLive := int64(1_600_000_000)
	return &SaleConfig{
		Authority:      testAuthority,
		TreasuryWallet: testTreasury,
		ItemsRedeemed:  100,
		ItemsAvailable: 2222,
		Price:          1_000_000_000,
		GoLiveDate:     &goLive,
	}
}

func afterGoLive() time.Time {
	return time.Unix(1_600_000_100, 0)
}

func beforeGoLive() time.Time {
	return time.Unix(1_599_999_000, 0)
}

func TestEvaluate_PublicSaleLive(t *testing.T) {
	view := Evaluate(baseConfig(), 0, afterGoLive())

	assert.True(t, view.IsActive)
	assert.False(t, view.IsSoldOut)
	assert.False(t, view.IsEnded)
	assert.Equal(t, uint64(2122), view.ItemsRemaining)
	assert.Equal(t, uint64(1_000_000_000), view.EffectivePrice)
	assert.False(t, view.DiscountApplied)
}

func TestEvaluate_BeforeGoLive(t *testing.T) {
	view := Evaluate(baseConfig(), 0, beforeGoLive())

	assert.False(t, view.IsActive)
	require.NotNil(t, view.GoLiveAt)
	assert.Equal(t, int64(1_600_000_000), view.GoLiveAt.Unix())
}

func TestEvaluate_NoGoLiveDateNeverPublic(t *testing.T) {
	cfg := baseConfig()
	cfg.GoLiveDate = nil

	view := Evaluate(cfg, 0, afterGoLive())
	assert.False(t, view.IsActive)
}

func TestEvaluate_SoldOutForcesInactive(t *testing.T) {
	cfg := baseConfig()
	cfg.ItemsRedeemed = 2222

	view := Evaluate(cfg, 0, afterGoLive())

	assert.True(t, view.IsSoldOut)
	assert.False(t, view.IsActive)
	assert.Equal(t, uint64(0), view.ItemsRemaining)
}

func TestEvaluate_ItemLimitClampsAvailable(t *testing.T) {
	cfg := baseConfig()
	cfg.EndCondition = &EndCondition{Type: EndConditionItemLimit, Number: 1000}
	cfg.ItemsRedeemed = 999

	view := Evaluate(cfg, 0, afterGoLive())
	assert.Equal(t, uint64(1000), view.ItemsAvailable)
	assert.Equal(t, uint64(1), view.ItemsRemaining)
	assert.False(t, view.IsSoldOut)
	assert.False(t, view.IsEnded)

	cfg.ItemsRedeemed = 1000
	view = Evaluate(cfg, 0, afterGoLive())
	assert.True(t, view.IsSoldOut)
	assert.True(t, view.IsEnded)
	assert.False(t, view.IsActive)
}

func TestEvaluate_ItemLimitAboveSupplyDoesNotRaise(t *testing.T) {
	cfg := baseConfig()
	cfg.EndCondition = &EndCondition{Type: EndConditionItemLimit, Number: 9999}

	view := Evaluate(cfg, 0, afterGoLive())
	assert.Equal(t, uint64(2222), view.ItemsAvailable)
}

func TestEvaluate_DateEnd(t *testing.T) {
	cfg := baseConfig()
	cfg.EndCondition = &EndCondition{Type: EndConditionDate, Number: 1_600_000_050}

	view := Evaluate(cfg, 0, time.Unix(1_600_000_049, 0))
	assert.False(t, view.IsEnded)
	assert.True(t, view.IsActive)
	require.NotNil(t, view.EndsAt)

	// Exactly at the end instant counts as ended
	view = Evaluate(cfg, 0, time.Unix(1_600_000_050, 0))
	assert.True(t, view.IsEnded)
	assert.False(t, view.IsActive)
}

func TestEvaluate_PresaleHolderMintsEarly(t *testing.T) {
	cfg := baseConfig()
	cfg.Whitelist = &WhitelistConfig{
		Mode:        WhitelistBurnEveryTime,
		Mint:        testWLMint,
		PresaleOnly: true,
	}

	holder := Evaluate(cfg, 1, beforeGoLive())
	assert.True(t, holder.IsActive)
	assert.True(t, holder.IsPresale)

	nonHolder := Evaluate(cfg, 0, beforeGoLive())
	assert.False(t, nonHolder.IsActive)
}

func TestEvaluate_WhitelistOnlyBlocksNonHolders(t *testing.T) {
	cfg := baseConfig()
	cfg.Whitelist = &WhitelistConfig{
		Mode: WhitelistNeverBurn,
		Mint: testWLMint,
	}

	view := Evaluate(cfg, 0, afterGoLive())
	assert.True(t, view.IsWhitelistOnly)
	assert.False(t, view.IsActive)

	holder := Evaluate(cfg, 2, afterGoLive())
	assert.True(t, holder.IsActive)
}

func TestEvaluate_DiscountRequiresBalance(t *testing.T) {
	discount := uint64(400_000_000)
	cfg := baseConfig()
	cfg.Whitelist = &WhitelistConfig{
		Mode:          WhitelistBurnEveryTime,
		Mint:          testWLMint,
		DiscountPrice: &discount,
	}

	holder := Evaluate(cfg, 1, afterGoLive())
	assert.Equal(t, discount, holder.EffectivePrice)
	assert.True(t, holder.DiscountApplied)

	nonHolder := Evaluate(cfg, 0, afterGoLive())
	assert.Equal(t, uint64(1_000_000_000), nonHolder.EffectivePrice)
	assert.False(t, nonHolder.DiscountApplied)

	// A discounted whitelist is not whitelist-only; the public can still mint
	assert.False(t, nonHolder.IsWhitelistOnly)
	assert.True(t, nonHolder.IsActive)
}

func TestEvaluate_NoDiscountAfterEnd(t *testing.T) {
	discount := uint64(400_000_000)
	cfg := baseConfig()
	cfg.EndCondition = &EndCondition{Type: EndConditionDate, Number: uint64(beforeGoLive().Unix())}
	cfg.Whitelist = &WhitelistConfig{
		Mode:          WhitelistBurnEveryTime,
		Mint:          testWLMint,
		DiscountPrice: &discount,
	}

	view := Evaluate(cfg, 1, afterGoLive())
	assert.True(t, view.IsEnded)
	assert.Equal(t, uint64(1_000_000_000), view.EffectivePrice)
}

func TestEvaluate_Deterministic(t *testing.T) {
	cfg := baseConfig()
	now := afterGoLive()

	first := Evaluate(cfg, 3, now)
	second := Evaluate(cfg, 3, now)
	assert.Equal(t, first, second)
}

func TestDerivedViewFormatPrice(t *testing.T) {
	native := DerivedView{EffectivePrice: 1_500_000_000}
	assert.Equal(t, "1.5 SOL", native.FormatPrice(6, "TOKEN"))

	spl := DerivedView{EffectivePrice: 2_000_000, PaysWithToken: true}
	assert.Equal(t, "2 TOKEN", spl.FormatPrice(6, "TOKEN"))
}

func TestMintedPercent(t *testing.T) {
	view := DerivedView{ItemsAvailable: 2222, ItemsRedeemed: 1111}
	assert.InDelta(t, 50.0, view.MintedPercent(), 0.01)

	empty := DerivedView{}
	assert.Equal(t, 0.0, empty.MintedPercent())
}
