package utils

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Base58 encoding/decoding utilities

// EncodeBase58 encodes bytes to base58 string
func EncodeBase58(data []byte) string {
	return base58.Encode(data)
}

// DecodeBase58 decodes base58 string to bytes
func DecodeBase58(encoded string) ([]byte, error) {
	return base58.Decode(encoded)
}

// Validation utilities

// IsValidSolanaAddress checks if string is a valid Solana address
func IsValidSolanaAddress(address string) bool {
	decoded, err := base58.Decode(address)
	return err == nil && len(decoded) == 32
}

// IsValidSolanaSignature checks if string is a valid Solana signature
func IsValidSolanaSignature(signature string) bool {
	decoded, err := base58.Decode(signature)
	return err == nil && len(decoded) == 64
}

// IsValidSolanaPrivateKey checks if string is a valid Solana private key
func IsValidSolanaPrivateKey(privkey string) bool {
	decoded, err := base58.Decode(privkey)
	return err == nil && len(decoded) == 64
}

// DecodeDataString decodes RPC account data that may be base64 or hex
func DecodeDataString(dataStr string) ([]byte, error) {
	dataStr = strings.TrimSpace(dataStr)

	data, err := base64.StdEncoding.DecodeString(dataStr)
	if err == nil {
		return data, nil
	}

	data, err = hex.DecodeString(dataStr)
	if err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("unknown encoding (not base64 or hex)")
}
