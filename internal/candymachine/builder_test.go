package candymachine

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBuilderClient struct {
	ataExists bool
}

func (m *mockBuilderClient) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	return m.ataExists, nil
}

func (m *mockBuilderClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return solana.Hash{1, 2, 3}, nil
}

func (m *mockBuilderClient) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return 1_461_600, nil
}

func testPayer() solana.PublicKey {
	return solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
}

func testCandyMachine() solana.PublicKey {
	return solana.MustPublicKeyFromBase58("DdTsNx3Vvq1qZkBmM1tnhdtSkVF92VDPNggx5gYwDmxh")
}

func instructionPrograms(t *testing.T, tx *solana.Transaction) []solana.PublicKey {
	t.Helper()
	programs := make([]solana.PublicKey, 0, len(tx.Message.Instructions))
	for _, ix := range tx.Message.Instructions {
		key, err := tx.Message.Account(ix.ProgramIDIndex)
		require.NoError(t, err)
		programs = append(programs, key)
	}
	return programs
}

func TestBuild_RequiresWallet(t *testing.T) {
	b := NewBuilder(&mockBuilderClient{}, testCandyMachine(), logrus.New())
	view := DerivedView{IsActive: true}

	_, err := b.Build(context.Background(), baseConfig(), &view, solana.PublicKey{})
	assert.ErrorIs(t, err, ErrMissingWallet)
}

func TestBuild_RequiresEligibility(t *testing.T) {
	b := NewBuilder(&mockBuilderClient{}, testCandyMachine(), logrus.New())
	view := DerivedView{IsActive: false}

	_, err := b.Build(context.Background(), baseConfig(), &view, testPayer())
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestBuild_InstructionOrder(t *testing.T) {
	b := NewBuilder(&mockBuilderClient{}, testCandyMachine(), logrus.New())
	view := DerivedView{IsActive: true}

	result, err := b.Build(context.Background(), baseConfig(), &view, testPayer())
	require.NoError(t, err)
	require.NotNil(t, result.Transaction)
	assert.True(t, result.ATACreated)

	constants := GetProgramConstants()
	programs := instructionPrograms(t, result.Transaction)
	require.Len(t, programs, 5)

	assert.Equal(t, solana.SystemProgramID, programs[0])
	assert.Equal(t, solana.TokenProgramID, programs[1])
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, programs[2])
	assert.Equal(t, solana.TokenProgramID, programs[3])
	assert.Equal(t, constants.ProgramID, programs[4])
}

func TestBuild_SkipsATAWhenPresent(t *testing.T) {
	b := NewBuilder(&mockBuilderClient{ataExists: true}, testCandyMachine(), logrus.New())
	view := DerivedView{IsActive: true}

	result, err := b.Build(context.Background(), baseConfig(), &view, testPayer())
	require.NoError(t, err)
	assert.False(t, result.ATACreated)

	programs := instructionPrograms(t, result.Transaction)
	require.Len(t, programs, 4)
	assert.NotContains(t, programs, solana.SPLAssociatedTokenAccountProgramID)
}

func TestBuild_GatewayBeforeMint(t *testing.T) {
	cfg := baseConfig()
	cfg.Gatekeeper = &GatekeeperConfig{Network: testAuthority, ExpireOnUse: true}

	b := NewBuilder(&mockBuilderClient{}, testCandyMachine(), logrus.New())
	view := DerivedView{IsActive: true}

	result, err := b.Build(context.Background(), cfg, &view, testPayer())
	require.NoError(t, err)

	constants := GetProgramConstants()
	programs := instructionPrograms(t, result.Transaction)
	require.Len(t, programs, 6)
	assert.Equal(t, constants.GatewayProgram, programs[4])
	assert.Equal(t, constants.ProgramID, programs[5])
}

func TestBuild_FreshKeypairPerAttempt(t *testing.T) {
	b := NewBuilder(&mockBuilderClient{}, testCandyMachine(), logrus.New())
	view := DerivedView{IsActive: true}

	first, err := b.Build(context.Background(), baseConfig(), &view, testPayer())
	require.NoError(t, err)
	second, err := b.Build(context.Background(), baseConfig(), &view, testPayer())
	require.NoError(t, err)

	assert.NotEqual(t, first.MintKeypair.PublicKey(), second.MintKeypair.PublicKey())
}

func TestResolveMintAccounts_OptionalAccounts(t *testing.T) {
	discount := uint64(1)
	cfg := baseConfig()
	cfg.Gatekeeper = &GatekeeperConfig{Network: testAuthority}
	cfg.Whitelist = &WhitelistConfig{
		Mode:          WhitelistBurnEveryTime,
		Mint:          testWLMint,
		DiscountPrice: &discount,
	}
	paymentMint := testWLMint
	cfg.PaymentMint = &paymentMint

	mintKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	accounts, err := ResolveMintAccounts(cfg, testCandyMachine(), testPayer(), mintKey.PublicKey())
	require.NoError(t, err)

	assert.NotNil(t, accounts.GatewayToken)
	assert.NotNil(t, accounts.WhitelistToken)
	assert.NotNil(t, accounts.WhitelistMint) // burn mode needs the mint writable
	assert.NotNil(t, accounts.PaymentToken)

	metas := CreateMintAccountMetas(accounts)
	// 16 fixed accounts plus gateway token, whitelist token + mint + payer,
	// payment token + payer
	assert.Len(t, metas, 22)
}

func TestResolveMintAccounts_NeverBurnOmitsMint(t *testing.T) {
	cfg := baseConfig()
	cfg.Whitelist = &WhitelistConfig{Mode: WhitelistNeverBurn, Mint: testWLMint}

	mintKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	accounts, err := ResolveMintAccounts(cfg, testCandyMachine(), testPayer(), mintKey.PublicKey())
	require.NoError(t, err)

	assert.NotNil(t, accounts.WhitelistToken)
	assert.Nil(t, accounts.WhitelistMint)
}
