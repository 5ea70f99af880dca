package candymachine

import "time"

// PresentationKind is the single state a front end should render
type PresentationKind int

const (
	// PresentationSoldOut shows the sold-out banner
	PresentationSoldOut PresentationKind = iota
	// PresentationMintEnded shows that the sale is over
	PresentationMintEnded
	// PresentationConnectPrompt asks the user to connect a wallet
	PresentationConnectPrompt
	// PresentationPrivateMintLocked tells a non-holder the mint is private
	PresentationPrivateMintLocked
	// PresentationCountdownToLive shows a countdown to the go-live time
	PresentationCountdownToLive
	// PresentationGatekeeperRequired asks for a proof-of-personhood pass
	PresentationGatekeeperRequired
	// PresentationReadyToMint enables the mint button
	PresentationReadyToMint
)

// String returns a log-friendly label for the presentation kind
func (k PresentationKind) String() string {
	switch k {
	case PresentationSoldOut:
		return "sold_out"
	case PresentationMintEnded:
		return "mint_ended"
	case PresentationConnectPrompt:
		return "connect_prompt"
	case PresentationPrivateMintLocked:
		return "private_mint_locked"
	case PresentationCountdownToLive:
		return "countdown_to_live"
	case PresentationGatekeeperRequired:
		return "gatekeeper_required"
	case PresentationReadyToMint:
		return "ready_to_mint"
	default:
		return "unknown"
	}
}

// PresentationState is the derived render state plus the inputs a front end
// needs for that state (countdown targets, price, progress).
type PresentationState struct {
	Kind PresentationKind

	GoLiveAt *time.Time
	EndsAt   *time.Time

	EffectivePrice  uint64
	DiscountApplied bool
	PaysWithToken   bool

	ItemsRemaining uint64
	MintedPercent  float64
}

// DerivePresentation collapses a view into exactly one render state.
// Precedence runs from hard blockers down to the mintable state.
func DerivePresentation(view DerivedView, walletConnected bool, gatekeeperConfigured bool, now time.Time) PresentationState {
	state := PresentationState{
		GoLiveAt:        view.GoLiveAt,
		EndsAt:          view.EndsAt,
		EffectivePrice:  view.EffectivePrice,
		DiscountApplied: view.DiscountApplied,
		PaysWithToken:   view.PaysWithToken,
		ItemsRemaining:  view.ItemsRemaining,
		MintedPercent:   view.MintedPercent(),
	}

	switch {
	case view.IsSoldOut:
		state.Kind = PresentationSoldOut
	case view.IsEnded:
		state.Kind = PresentationMintEnded
	case !walletConnected:
		state.Kind = PresentationConnectPrompt
	case view.IsWhitelistOnly && view.WalletWhitelistBalance == 0:
		state.Kind = PresentationPrivateMintLocked
	case !view.IsActive && view.GoLiveAt != nil && now.Before(*view.GoLiveAt):
		state.Kind = PresentationCountdownToLive
	case !view.IsActive:
		// No go-live configured or otherwise ineligible; treat as locked
		state.Kind = PresentationPrivateMintLocked
	case gatekeeperConfigured:
		state.Kind = PresentationGatekeeperRequired
	default:
		state.Kind = PresentationReadyToMint
	}

	return state
}
