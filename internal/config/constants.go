package config

import "github.com/mr-tron/base58"

// Solana network constants
const (
	SolanaMainnetRPC = "https://api.mainnet-beta.solana.com"
	SolanaDevnetRPC  = "https://api.devnet.solana.com"
	SolanaTestnetRPC = "https://api.testnet.solana.com"

	// WebSocket endpoints
	SolanaMainnetWS = "wss://api.mainnet-beta.solana.com"
	SolanaDevnetWS  = "wss://api.devnet.solana.com"
	SolanaTestnetWS = "wss://api.testnet.solana.com"

	// Solana constants
	LamportsPerSol = 1_000_000_000

	// Confirmation constants
	ConfirmTimeoutSec  = 60
	PollIntervalMs     = 2000
	PollMaxIntervalMs  = 15000
	PollBackoffFactor  = 1.5
	RefreshIntervalSec = 30
)

// Program addresses
var (
	// Candy machine v2 program
	CandyMachineProgramID = mustDecodeBase58("cndy3Z4yapfJBmL3ShUp5exZKqR3z33thTzeNMm2gRZ")

	// Token metadata program
	TokenMetadataProgramID = mustDecodeBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	// Civic gateway program (proof-of-personhood tokens)
	GatewayProgramID = mustDecodeBase58("gatem74V238djXdzWnJf94Wo1DcnuGkfijbf3AuBhfs")

	// System program
	SystemProgramID = mustDecodeBase58("11111111111111111111111111111111")

	// Token program
	TokenProgramID = mustDecodeBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// Associated Token program
	AssociatedTokenProgramID = mustDecodeBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// Rent program
	RentProgramID = mustDecodeBase58("SysvarRent111111111111111111111111111111111")

	// Native SOL mint (wrapped SOL)
	NativeSOLMint = mustDecodeBase58("So11111111111111111111111111111111111111112")
)

// Candy machine program error codes. The on-chain program reports these as
// anchor custom errors; transaction logs render them in hex (311 = 0x137).
const (
	ErrCodeInsufficientFunds = 309 // 0x135
	ErrCodeSoldOut           = 311 // 0x137
	ErrCodeNotLive           = 312 // 0x138
)

// Display constants
const (
	// Default decimal precision for SPL payment tokens
	DefaultSPLTokenDecimals = 9

	// Default display label when the payment token has no configured name
	DefaultSPLTokenLabel = "TOKEN"

	// Flat fee estimate deducted from the cached wallet balance after a
	// successful native-currency mint, superseded by the next refresh
	MintFeeEstimateLamports = 12_000_000 // ~0.012 SOL
)

// Helper function to decode base58 addresses and panic on error
// Used for compile-time constant addresses that should never fail
func mustDecodeBase58(addr string) []byte {
	decoded, err := base58.Decode(addr)
	if err != nil {
		panic("Invalid base58 address: " + addr + ", error: " + err.Error())
	}
	return decoded
}

// GetRPCEndpoint returns RPC endpoint based on network
func GetRPCEndpoint(network string) string {
	switch network {
	case "mainnet":
		return SolanaMainnetRPC
	case "devnet":
		return SolanaDevnetRPC
	case "testnet":
		return SolanaTestnetRPC
	default:
		return SolanaMainnetRPC
	}
}

// GetWSEndpoint returns WebSocket endpoint based on network
func GetWSEndpoint(network string) string {
	switch network {
	case "mainnet":
		return SolanaMainnetWS
	case "devnet":
		return SolanaDevnetWS
	case "testnet":
		return SolanaTestnetWS
	default:
		return SolanaMainnetWS
	}
}

// ConvertSOLToLamports converts SOL to lamports
func ConvertSOLToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSol)
}

// ConvertLamportsToSOL converts lamports to SOL
func ConvertLamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
