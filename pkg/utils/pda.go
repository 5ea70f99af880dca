package utils

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"candy-machine-mint-go/internal/config"
)

// CandyMachinePDADerivation derives the program addresses involved in a mint
type CandyMachinePDADerivation struct {
}

func NewCandyMachinePDADerivation() *CandyMachinePDADerivation {
	return &CandyMachinePDADerivation{}
}

// DeriveCandyMachineCreator derives the creator PDA that signs the mint on
// behalf of the candy machine. Its bump is the single mint_nft argument.
func (p *CandyMachinePDADerivation) DeriveCandyMachineCreator(candyMachine solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte("candy_machine"),
		candyMachine.Bytes(),
	}

	programID := solana.PublicKeyFromBytes(config.CandyMachineProgramID)
	data, nonce, err := solana.FindProgramAddress(seeds, programID)

	return data, nonce, err
}

// DeriveMetadata derives the token metadata PDA for a mint
func (p *CandyMachinePDADerivation) DeriveMetadata(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	metadataProgram := solana.PublicKeyFromBytes(config.TokenMetadataProgramID)
	seeds := [][]byte{
		[]byte("metadata"),
		metadataProgram.Bytes(),
		mint.Bytes(),
	}

	data, nonce, err := solana.FindProgramAddress(seeds, metadataProgram)

	return data, nonce, err
}

// DeriveMasterEdition derives the master edition PDA for a mint
func (p *CandyMachinePDADerivation) DeriveMasterEdition(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	metadataProgram := solana.PublicKeyFromBytes(config.TokenMetadataProgramID)
	seeds := [][]byte{
		[]byte("metadata"),
		metadataProgram.Bytes(),
		mint.Bytes(),
		[]byte("edition"),
	}

	data, nonce, err := solana.FindProgramAddress(seeds, metadataProgram)

	return data, nonce, err
}

// DeriveGatewayToken derives the civic gateway token PDA for an owner on a
// gatekeeper network. Seed index zero is encoded as a little-endian u64.
func (p *CandyMachinePDADerivation) DeriveGatewayToken(owner, gatekeeperNetwork solana.PublicKey) (solana.PublicKey, uint8, error) {
	seedIndex := make([]byte, 8)
	binary.LittleEndian.PutUint64(seedIndex, 0)

	seeds := [][]byte{
		owner.Bytes(),
		[]byte("gateway"),
		seedIndex,
		gatekeeperNetwork.Bytes(),
	}

	programID := solana.PublicKeyFromBytes(config.GatewayProgramID)
	data, nonce, err := solana.FindProgramAddress(seeds, programID)

	return data, nonce, err
}

// DeriveAssociatedTokenAccount derives the ATA for an owner and token mint
func (p *CandyMachinePDADerivation) DeriveAssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		owner.Bytes(),
		solana.TokenProgramID.Bytes(),
		mint.Bytes(),
	}

	data, nonce, err := solana.FindProgramAddress(seeds, solana.SPLAssociatedTokenAccountProgramID)

	return data, nonce, err
}
