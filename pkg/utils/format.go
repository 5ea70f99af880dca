package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTokenAmount renders a raw base-unit amount using the token's
// decimal precision, trimming trailing zeros.
func FormatTokenAmount(raw uint64, decimals int) string {
	if decimals <= 0 {
		return strconv.FormatUint(raw, 10)
	}

	divisor := math.Pow10(decimals)
	value := float64(raw) / divisor

	formatted := strconv.FormatFloat(value, 'f', decimals, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	if formatted == "" {
		formatted = "0"
	}
	return formatted
}

// FormatPrice renders a price with its display label, e.g. "1.5 SOL"
func FormatPrice(raw uint64, decimals int, label string) string {
	return FormatTokenAmount(raw, decimals) + " " + label
}

// clusterSuffix returns the solscan query suffix for non-mainnet networks
func clusterSuffix(network string) string {
	switch network {
	case "devnet", "testnet":
		return "?cluster=" + network
	default:
		return ""
	}
}

// TokenExplorerURL returns the solscan page for a token mint
func TokenExplorerURL(mint, network string) string {
	return fmt.Sprintf("https://solscan.io/token/%s%s", mint, clusterSuffix(network))
}

// TxExplorerURL returns the solscan page for a transaction signature
func TxExplorerURL(signature, network string) string {
	return fmt.Sprintf("https://solscan.io/tx/%s%s", signature, clusterSuffix(network))
}

// AccountExplorerURL returns the solscan page for an account
func AccountExplorerURL(address, network string) string {
	return fmt.Sprintf("https://solscan.io/account/%s%s", address, clusterSuffix(network))
}

// ShortenAddress renders an address as "abcd...wxyz" for log output
func ShortenAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
