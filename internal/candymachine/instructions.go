package candymachine

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"candy-machine-mint-go/pkg/anchor"
	"candy-machine-mint-go/pkg/utils"
)

// ProgramConstants contains the candy machine program addresses
type ProgramConstants struct {
	ProgramID       solana.PublicKey
	TokenMetadata   solana.PublicKey
	GatewayProgram  solana.PublicKey
	InstructionsVar solana.PublicKey
}

// GetProgramConstants returns candy machine program constants
func GetProgramConstants() ProgramConstants {
	return ProgramConstants{
		ProgramID:       solana.MustPublicKeyFromBase58("cndy3Z4yapfJBmL3ShUp5exZKqR3z33thTzeNMm2gRZ"),
		TokenMetadata:   solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"),
		GatewayProgram:  solana.MustPublicKeyFromBase58("gatem74V238djXdzWnJf94Wo1DcnuGkfijbf3AuBhfs"),
		InstructionsVar: solana.MustPublicKeyFromBase58("Sysvar1nstructions1111111111111111111111111"),
	}
}

// MintAccounts carries every address needed to assemble the mint instruction
type MintAccounts struct {
	CandyMachine  solana.PublicKey
	Creator       solana.PublicKey // candy machine creator PDA
	CreatorBump   uint8
	Payer         solana.PublicKey
	Treasury      solana.PublicKey
	Metadata      solana.PublicKey
	Mint          solana.PublicKey // one-time mint keypair's public key
	MasterEdition solana.PublicKey

	// Optional remaining accounts, appended in this order when set
	GatewayToken   *solana.PublicKey
	WhitelistToken *solana.PublicKey
	WhitelistMint  *solana.PublicKey // set only when the token is burned
	PaymentToken   *solana.PublicKey
}

// ResolveMintAccounts derives the PDAs for one mint attempt
func ResolveMintAccounts(
	cfg *SaleConfig,
	candyMachine solana.PublicKey,
	payer solana.PublicKey,
	mint solana.PublicKey,
) (*MintAccounts, error) {
	pda := utils.NewCandyMachinePDADerivation()

	creator, bump, err := pda.DeriveCandyMachineCreator(candyMachine)
	if err != nil {
		return nil, fmt.Errorf("failed to derive creator PDA: %w", err)
	}

	metadata, _, err := pda.DeriveMetadata(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata PDA: %w", err)
	}

	masterEdition, _, err := pda.DeriveMasterEdition(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive master edition PDA: %w", err)
	}

	accounts := &MintAccounts{
		CandyMachine:  candyMachine,
		Creator:       creator,
		CreatorBump:   bump,
		Payer:         payer,
		Treasury:      cfg.TreasuryWallet,
		Metadata:      metadata,
		Mint:          mint,
		MasterEdition: masterEdition,
	}

	if cfg.Gatekeeper != nil {
		gatewayToken, _, err := pda.DeriveGatewayToken(payer, cfg.Gatekeeper.Network)
		if err != nil {
			return nil, fmt.Errorf("failed to derive gateway token PDA: %w", err)
		}
		accounts.GatewayToken = &gatewayToken
	}

	if cfg.Whitelist != nil {
		whitelistToken, _, err := pda.DeriveAssociatedTokenAccount(payer, cfg.Whitelist.Mint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive whitelist token account: %w", err)
		}
		accounts.WhitelistToken = &whitelistToken
		if cfg.Whitelist.Mode == WhitelistBurnEveryTime {
			wlMint := cfg.Whitelist.Mint
			accounts.WhitelistMint = &wlMint
		}
	}

	if cfg.PaymentMint != nil {
		paymentToken, _, err := pda.DeriveAssociatedTokenAccount(payer, *cfg.PaymentMint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive payment token account: %w", err)
		}
		accounts.PaymentToken = &paymentToken
	}

	return accounts, nil
}

// CreateMintAccountMetas creates the account array for the mint_nft
// instruction according to the candy machine program IDL.
func CreateMintAccountMetas(accounts *MintAccounts) []*solana.AccountMeta {
	constants := GetProgramConstants()

	// Fixed account order:
	// 0: candyMachine (writable)
	// 1: candyMachineCreator (read-only PDA)
	// 2: payer (writable, signer)
	// 3: wallet/treasury (writable)
	// 4: metadata (writable)
	// 5: mint (writable, signer) - fresh per attempt
	// 6: mintAuthority (signer) - the payer
	// 7: updateAuthority (signer) - the payer
	// 8: masterEdition (writable)
	// 9: tokenMetadataProgram
	// 10: tokenProgram
	// 11: systemProgram
	// 12: rent sysvar
	// 13: clock sysvar
	// 14: recentBlockhashes sysvar
	// 15: instructions sysvar
	metas := []*solana.AccountMeta{
		{PublicKey: accounts.CandyMachine, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.Creator, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.Payer, IsWritable: true, IsSigner: true},
		{PublicKey: accounts.Treasury, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.Metadata, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.Mint, IsWritable: true, IsSigner: true},
		{PublicKey: accounts.Payer, IsWritable: false, IsSigner: true},
		{PublicKey: accounts.Payer, IsWritable: false, IsSigner: true},
		{PublicKey: accounts.MasterEdition, IsWritable: true, IsSigner: false},
		{PublicKey: constants.TokenMetadata, IsWritable: false, IsSigner: false},
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SysVarRecentBlockHashesPubkey, IsWritable: false, IsSigner: false},
		{PublicKey: constants.InstructionsVar, IsWritable: false, IsSigner: false},
	}

	// Remaining accounts, in program-expected order: gateway token first,
	// then whitelist token (plus mint and burn authority when burning),
	// then the SPL payment account with its transfer authority.
	if accounts.GatewayToken != nil {
		metas = append(metas, &solana.AccountMeta{
			PublicKey: *accounts.GatewayToken, IsWritable: true, IsSigner: false,
		})
	}

	if accounts.WhitelistToken != nil {
		metas = append(metas, &solana.AccountMeta{
			PublicKey: *accounts.WhitelistToken, IsWritable: true, IsSigner: false,
		})
		if accounts.WhitelistMint != nil {
			metas = append(metas,
				&solana.AccountMeta{PublicKey: *accounts.WhitelistMint, IsWritable: true, IsSigner: false},
				&solana.AccountMeta{PublicKey: accounts.Payer, IsWritable: false, IsSigner: true},
			)
		}
	}

	if accounts.PaymentToken != nil {
		metas = append(metas,
			&solana.AccountMeta{PublicKey: *accounts.PaymentToken, IsWritable: true, IsSigner: false},
			&solana.AccountMeta{PublicKey: accounts.Payer, IsWritable: false, IsSigner: true},
		)
	}

	return metas
}

// CreateAccountInstruction creates the system instruction that allocates
// the one-time mint account, owned by the token program.
func CreateAccountInstruction(payer, newAccount solana.PublicKey, lamports, space uint64) solana.Instruction {
	// System program CreateAccount: u32 index, lamports u64, space u64, owner
	data := make([]byte, 4+8+8+32)
	binary.LittleEndian.PutUint32(data[0:4], 0)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	binary.LittleEndian.PutUint64(data[12:20], space)
	copy(data[20:52], solana.TokenProgramID.Bytes())

	return solana.NewInstruction(
		solana.SystemProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: newAccount, IsWritable: true, IsSigner: true},
		},
		data,
	)
}

// InitializeMintInstruction creates the SPL token InitializeMint instruction
// for a zero-decimal NFT mint with the payer as both authorities.
func InitializeMintInstruction(mint, authority solana.PublicKey) solana.Instruction {
	// Token program InitializeMint: u8 index 0, decimals, mint authority,
	// freeze authority option tag + key
	data := make([]byte, 1+1+32+1+32)
	data[0] = 0
	data[1] = 0 // zero decimals
	copy(data[2:34], authority.Bytes())
	data[34] = 1
	copy(data[35:67], authority.Bytes())

	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		data,
	)
}

// MintToInstruction creates the SPL token MintTo instruction that places the
// single NFT token into the buyer's associated token account.
func MintToInstruction(mint, destination, authority solana.PublicKey) solana.Instruction {
	// Token program MintTo: u8 index 7, amount u64
	data := make([]byte, 1+8)
	data[0] = 7
	binary.LittleEndian.PutUint64(data[1:9], 1)

	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: destination, IsWritable: true, IsSigner: false},
			{PublicKey: authority, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

// GatewayExpireInstruction creates the civic gateway instruction that marks
// the gateway token as spent when the gatekeeper is configured with
// expire-on-use.
func GatewayExpireInstruction(gatewayToken, owner, network solana.PublicKey) solana.Instruction {
	constants := GetProgramConstants()

	// Gateway program ExpireToken: single-byte instruction index
	data := []byte{1}

	return solana.NewInstruction(
		constants.GatewayProgram,
		[]*solana.AccountMeta{
			{PublicKey: gatewayToken, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: true},
			{PublicKey: network, IsWritable: false, IsSigner: false},
		},
		data,
	)
}

// CreateMintInstruction creates the candy machine mint_nft instruction
func CreateMintInstruction(accounts *MintAccounts) solana.Instruction {
	constants := GetProgramConstants()
	metas := CreateMintAccountMetas(accounts)
	data := anchor.BuildMintNFTInstruction(accounts.CreatorBump)

	return solana.NewInstruction(
		constants.ProgramID,
		metas,
		data,
	)
}
