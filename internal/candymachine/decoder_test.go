package candymachine

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candy-machine-mint-go/pkg/anchor"
)

// accountWriter builds candy machine account bytes for tests
type accountWriter struct {
	buf []byte
}

func newAccountWriter() *accountWriter {
	return &accountWriter{buf: anchor.CandyMachineDiscriminator.Bytes()}
}

func (w *accountWriter) pubkey(key solana.PublicKey) *accountWriter {
	w.buf = append(w.buf, key.Bytes()...)
	return w
}

func (w *accountWriter) u8(v uint8) *accountWriter {
	w.buf = append(w.buf, v)
	return w
}

func (w *accountWriter) u16(v uint16) *accountWriter {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	w.buf = append(w.buf, b...)
	return w
}

func (w *accountWriter) u64(v uint64) *accountWriter {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	w.buf = append(w.buf, b...)
	return w
}

func (w *accountWriter) i64(v int64) *accountWriter {
	return w.u64(uint64(v))
}

func (w *accountWriter) str(s string) *accountWriter {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(len(s)))
	w.buf = append(w.buf, b...)
	w.buf = append(w.buf, s...)
	return w
}

func (w *accountWriter) boolean(v bool) *accountWriter {
	if v {
		return w.u8(1)
	}
	return w.u8(0)
}

func (w *accountWriter) none() *accountWriter {
	return w.u8(0)
}

func (w *accountWriter) some() *accountWriter {
	return w.u8(1)
}

func (w *accountWriter) u32(v uint32) *accountWriter {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	w.buf = append(w.buf, b...)
	return w
}

var (
	testAuthority = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	testTreasury  = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
	testWLMint    = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testCreator   = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

// encodeMinimalConfig builds a sale config with no optional sections set
func encodeMinimalConfig(redeemed, available uint64) []byte {
	return newAccountWriter().
		pubkey(testAuthority).
		pubkey(testTreasury).
		none().          // payment mint
		u64(redeemed).   // items redeemed
		str("abc123").   // uuid
		u64(1_000_000_000). // price
		str("NFT").      // symbol
		u16(500).        // seller fee bps
		u64(0).          // max supply
		boolean(true).   // is mutable
		boolean(true).   // retain authority
		none().          // go live date
		none().          // end settings
		u32(0).          // creators
		none().          // hidden settings
		none().          // whitelist
		u64(available).  // items available
		none().          // gatekeeper
		buf
}

// encodeFullConfig builds a sale config with every optional section set
func encodeFullConfig() []byte {
	return newAccountWriter().
		pubkey(testAuthority).
		pubkey(testTreasury).
		some().pubkey(testWLMint). // payment mint
		u64(100).
		str("deadbe").
		u64(2_000_000_000).
		str("DROP").
		u16(250).
		u64(0).
		boolean(true).
		boolean(false).
		some().i64(1700000000). // go live date
		some().u8(1).u64(1000). // end settings: item limit 1000
		u32(1).pubkey(testCreator).boolean(true).u8(100).
		some().str("Hidden").str("https://example.com/hidden.json").pubkey(testCreator). // 32-byte hash
		some().u8(0).pubkey(testWLMint).boolean(true).some().u64(500_000_000). // whitelist
		u64(2222).
		some().pubkey(testAuthority).boolean(true). // gatekeeper
		buf
}

func TestDecodeSaleConfig_Minimal(t *testing.T) {
	cfg, err := DecodeSaleConfig(encodeMinimalConfig(5, 100))
	require.NoError(t, err)

	assert.Equal(t, testAuthority, cfg.Authority)
	assert.Equal(t, testTreasury, cfg.TreasuryWallet)
	assert.Nil(t, cfg.PaymentMint)
	assert.Equal(t, uint64(5), cfg.ItemsRedeemed)
	assert.Equal(t, "abc123", cfg.UUID)
	assert.Equal(t, uint64(1_000_000_000), cfg.Price)
	assert.Equal(t, "NFT", cfg.Symbol)
	assert.Equal(t, uint16(500), cfg.SellerFeeBasisPoints)
	assert.Nil(t, cfg.GoLiveDate)
	assert.Nil(t, cfg.EndCondition)
	assert.Empty(t, cfg.Creators)
	assert.Nil(t, cfg.Whitelist)
	assert.Equal(t, uint64(100), cfg.ItemsAvailable)
	assert.Nil(t, cfg.Gatekeeper)
	assert.False(t, cfg.PaysWithToken())
}

func TestDecodeSaleConfig_Full(t *testing.T) {
	cfg, err := DecodeSaleConfig(encodeFullConfig())
	require.NoError(t, err)

	require.NotNil(t, cfg.PaymentMint)
	assert.Equal(t, testWLMint, *cfg.PaymentMint)
	assert.True(t, cfg.PaysWithToken())

	require.NotNil(t, cfg.GoLiveDate)
	assert.Equal(t, int64(1700000000), *cfg.GoLiveDate)

	require.NotNil(t, cfg.EndCondition)
	assert.Equal(t, EndConditionItemLimit, cfg.EndCondition.Type)
	assert.Equal(t, uint64(1000), cfg.EndCondition.Number)

	require.Len(t, cfg.Creators, 1)
	assert.Equal(t, testCreator, cfg.Creators[0].Address)
	assert.True(t, cfg.Creators[0].Verified)
	assert.Equal(t, uint8(100), cfg.Creators[0].Share)

	require.NotNil(t, cfg.Hidden)
	assert.Equal(t, "Hidden", cfg.Hidden.Name)

	require.NotNil(t, cfg.Whitelist)
	assert.Equal(t, WhitelistBurnEveryTime, cfg.Whitelist.Mode)
	assert.Equal(t, testWLMint, cfg.Whitelist.Mint)
	assert.True(t, cfg.Whitelist.PresaleOnly)
	require.NotNil(t, cfg.Whitelist.DiscountPrice)
	assert.Equal(t, uint64(500_000_000), *cfg.Whitelist.DiscountPrice)

	require.NotNil(t, cfg.Gatekeeper)
	assert.Equal(t, testAuthority, cfg.Gatekeeper.Network)
	assert.True(t, cfg.Gatekeeper.ExpireOnUse)
}

func TestDecodeSaleConfig_BadDiscriminator(t *testing.T) {
	data := encodeMinimalConfig(0, 100)
	data[0] ^= 0xFF

	_, err := DecodeSaleConfig(data)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Reason, "discriminator")
}

func TestDecodeSaleConfig_Truncated(t *testing.T) {
	data := encodeMinimalConfig(0, 100)

	for _, cut := range []int{0, 4, 8, 40, 72, len(data) - 1} {
		_, err := DecodeSaleConfig(data[:cut])
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr, "cut at %d", cut)
	}
}

func TestDecodeSaleConfig_BadOptionTag(t *testing.T) {
	data := newAccountWriter().
		pubkey(testAuthority).
		pubkey(testTreasury).
		u8(7). // invalid option tag
		buf

	_, err := DecodeSaleConfig(data)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Reason, "payment mint option")
}

func TestDecodeSaleConfig_BadWhitelistMode(t *testing.T) {
	data := newAccountWriter().
		pubkey(testAuthority).
		pubkey(testTreasury).
		none().
		u64(0).
		str("").
		u64(1).
		str("").
		u16(0).
		u64(0).
		boolean(true).
		boolean(true).
		none().
		none().
		u32(0).
		none().
		some().u8(9). // invalid whitelist mode
		buf

	_, err := DecodeSaleConfig(data)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Reason, "whitelist mode")
}

func TestDecodeSaleConfig_RedeemedExceedsAvailable(t *testing.T) {
	_, err := DecodeSaleConfig(encodeMinimalConfig(101, 100))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Reason, "exceeds")
}

func TestDecodeSaleConfig_NeverSilentlyDefaults(t *testing.T) {
	// Empty input must error, not produce a zero config
	cfg, err := DecodeSaleConfig(nil)
	assert.Nil(t, cfg)
	assert.Error(t, err)
}
