package candymachine

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"candy-machine-mint-go/pkg/anchor"
)

// DecodeError reports malformed candy machine account data. The decoder
// never substitutes defaults for bytes it cannot read.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "candy machine decode failed: " + e.Reason
}

func decodeErrf(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeSaleConfig decodes raw candy machine account bytes into a SaleConfig.
// Layout is the anchor account: 8-byte discriminator, authority, treasury
// wallet, optional payment mint, items redeemed counter, then the config
// body in declaration order.
func DecodeSaleConfig(data []byte) (*SaleConfig, error) {
	if len(data) < 8 {
		return nil, decodeErrf("account data too short: %d bytes", len(data))
	}

	if err := anchor.ValidateDiscriminator(data, anchor.CandyMachineDiscriminator); err != nil {
		return nil, decodeErrf("bad discriminator: %v", err)
	}

	dec := anchor.NewAccountDecoder(data)
	cfg := &SaleConfig{}

	var err error
	if cfg.Authority, err = readPubkey(dec); err != nil {
		return nil, decodeErrf("authority: %v", err)
	}
	if cfg.TreasuryWallet, err = readPubkey(dec); err != nil {
		return nil, decodeErrf("treasury wallet: %v", err)
	}

	hasPaymentMint, err := dec.ReadOptionTag()
	if err != nil {
		return nil, decodeErrf("payment mint option: %v", err)
	}
	if hasPaymentMint {
		mint, err := readPubkey(dec)
		if err != nil {
			return nil, decodeErrf("payment mint: %v", err)
		}
		cfg.PaymentMint = &mint
	}

	if cfg.ItemsRedeemed, err = dec.ReadU64(); err != nil {
		return nil, decodeErrf("items redeemed: %v", err)
	}

	// Config body
	if cfg.UUID, err = dec.ReadString(); err != nil {
		return nil, decodeErrf("uuid: %v", err)
	}
	if cfg.Price, err = dec.ReadU64(); err != nil {
		return nil, decodeErrf("price: %v", err)
	}
	if cfg.Symbol, err = dec.ReadString(); err != nil {
		return nil, decodeErrf("symbol: %v", err)
	}
	if cfg.SellerFeeBasisPoints, err = dec.ReadU16(); err != nil {
		return nil, decodeErrf("seller fee basis points: %v", err)
	}
	if cfg.MaxSupply, err = dec.ReadU64(); err != nil {
		return nil, decodeErrf("max supply: %v", err)
	}
	if cfg.IsMutable, err = dec.ReadBool(); err != nil {
		return nil, decodeErrf("is mutable: %v", err)
	}
	if cfg.RetainAuthority, err = dec.ReadBool(); err != nil {
		return nil, decodeErrf("retain authority: %v", err)
	}

	hasGoLive, err := dec.ReadOptionTag()
	if err != nil {
		return nil, decodeErrf("go live date option: %v", err)
	}
	if hasGoLive {
		goLive, err := dec.ReadI64()
		if err != nil {
			return nil, decodeErrf("go live date: %v", err)
		}
		cfg.GoLiveDate = &goLive
	}

	hasEndSettings, err := dec.ReadOptionTag()
	if err != nil {
		return nil, decodeErrf("end settings option: %v", err)
	}
	if hasEndSettings {
		endType, err := dec.ReadU8()
		if err != nil {
			return nil, decodeErrf("end settings type: %v", err)
		}
		if endType > uint8(EndConditionItemLimit) {
			return nil, decodeErrf("invalid end settings type %d", endType)
		}
		number, err := dec.ReadU64()
		if err != nil {
			return nil, decodeErrf("end settings number: %v", err)
		}
		cfg.EndCondition = &EndCondition{
			Type:   EndConditionType(endType),
			Number: number,
		}
	}

	creatorCount, err := dec.ReadU32()
	if err != nil {
		return nil, decodeErrf("creator count: %v", err)
	}
	for i := uint32(0); i < creatorCount; i++ {
		var creator Creator
		if creator.Address, err = readPubkey(dec); err != nil {
			return nil, decodeErrf("creator %d address: %v", i, err)
		}
		if creator.Verified, err = dec.ReadBool(); err != nil {
			return nil, decodeErrf("creator %d verified: %v", i, err)
		}
		if creator.Share, err = dec.ReadU8(); err != nil {
			return nil, decodeErrf("creator %d share: %v", i, err)
		}
		cfg.Creators = append(cfg.Creators, creator)
	}

	hasHidden, err := dec.ReadOptionTag()
	if err != nil {
		return nil, decodeErrf("hidden settings option: %v", err)
	}
	if hasHidden {
		hidden := &HiddenSettings{}
		if hidden.Name, err = dec.ReadString(); err != nil {
			return nil, decodeErrf("hidden settings name: %v", err)
		}
		if hidden.URI, err = dec.ReadString(); err != nil {
			return nil, decodeErrf("hidden settings uri: %v", err)
		}
		hashBytes, err := dec.ReadBytes(32)
		if err != nil {
			return nil, decodeErrf("hidden settings hash: %v", err)
		}
		copy(hidden.Hash[:], hashBytes)
		cfg.Hidden = hidden
	}

	hasWhitelist, err := dec.ReadOptionTag()
	if err != nil {
		return nil, decodeErrf("whitelist option: %v", err)
	}
	if hasWhitelist {
		wl := &WhitelistConfig{}
		mode, err := dec.ReadU8()
		if err != nil {
			return nil, decodeErrf("whitelist mode: %v", err)
		}
		if mode > uint8(WhitelistNeverBurn) {
			return nil, decodeErrf("invalid whitelist mode %d", mode)
		}
		wl.Mode = WhitelistMode(mode)
		if wl.Mint, err = readPubkey(dec); err != nil {
			return nil, decodeErrf("whitelist mint: %v", err)
		}
		if wl.PresaleOnly, err = dec.ReadBool(); err != nil {
			return nil, decodeErrf("whitelist presale flag: %v", err)
		}
		hasDiscount, err := dec.ReadOptionTag()
		if err != nil {
			return nil, decodeErrf("whitelist discount option: %v", err)
		}
		if hasDiscount {
			discount, err := dec.ReadU64()
			if err != nil {
				return nil, decodeErrf("whitelist discount price: %v", err)
			}
			wl.DiscountPrice = &discount
		}
		cfg.Whitelist = wl
	}

	if cfg.ItemsAvailable, err = dec.ReadU64(); err != nil {
		return nil, decodeErrf("items available: %v", err)
	}

	hasGatekeeper, err := dec.ReadOptionTag()
	if err != nil {
		return nil, decodeErrf("gatekeeper option: %v", err)
	}
	if hasGatekeeper {
		gk := &GatekeeperConfig{}
		if gk.Network, err = readPubkey(dec); err != nil {
			return nil, decodeErrf("gatekeeper network: %v", err)
		}
		if gk.ExpireOnUse, err = dec.ReadBool(); err != nil {
			return nil, decodeErrf("gatekeeper expire flag: %v", err)
		}
		cfg.Gatekeeper = gk
	}

	if cfg.ItemsRedeemed > cfg.ItemsAvailable {
		return nil, decodeErrf("items redeemed %d exceeds items available %d",
			cfg.ItemsRedeemed, cfg.ItemsAvailable)
	}

	return cfg, nil
}

func readPubkey(dec *anchor.AccountDecoder) (solana.PublicKey, error) {
	raw, err := dec.ReadBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}
