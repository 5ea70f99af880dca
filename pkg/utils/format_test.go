package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTokenAmount(t *testing.T) {
	assert.Equal(t, "1", FormatTokenAmount(1_000_000_000, 9))
	assert.Equal(t, "1.5", FormatTokenAmount(1_500_000_000, 9))
	assert.Equal(t, "0.000000001", FormatTokenAmount(1, 9))
	assert.Equal(t, "0", FormatTokenAmount(0, 9))
	assert.Equal(t, "123", FormatTokenAmount(123, 0))
	assert.Equal(t, "12.34", FormatTokenAmount(1234, 2))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1.5 SOL", FormatPrice(1_500_000_000, 9, "SOL"))
	assert.Equal(t, "100 TOKEN", FormatPrice(100_000_000, 6, "TOKEN"))
}

func TestExplorerURLs(t *testing.T) {
	assert.Equal(t,
		"https://solscan.io/tx/abc123",
		TxExplorerURL("abc123", "mainnet-beta"))
	assert.Equal(t,
		"https://solscan.io/tx/abc123?cluster=devnet",
		TxExplorerURL("abc123", "devnet"))
	assert.Equal(t,
		"https://solscan.io/token/So11111111111111111111111111111111111111112?cluster=testnet",
		TokenExplorerURL("So11111111111111111111111111111111111111112", "testnet"))
	assert.Equal(t,
		"https://solscan.io/account/abc",
		AccountExplorerURL("abc", "mainnet-beta"))
}

func TestShortenAddress(t *testing.T) {
	assert.Equal(t, "4wTV...xnjf", ShortenAddress("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf"))
	assert.Equal(t, "short", ShortenAddress("short"))
	assert.Equal(t, "exactly12chr", ShortenAddress("exactly12chr"))
}
