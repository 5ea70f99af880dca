package anchor

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDiscriminator(t *testing.T) {
	hash := sha256.Sum256([]byte("global:mint_nft"))
	want := Discriminator{}
	copy(want[:], hash[:8])

	assert.Equal(t, want, MintNFTDiscriminator)
	assert.True(t, MintNFTDiscriminator.Equals(ComputeInstructionDiscriminator("mint_nft")))
	assert.False(t, MintNFTDiscriminator.Equals(CandyMachineDiscriminator))
}

func TestDiscriminatorLookup(t *testing.T) {
	assert.Equal(t, "mint_nft", GetInstructionName(MintNFTDiscriminator))
	assert.Equal(t, "CandyMachine", GetAccountName(CandyMachineDiscriminator))
	assert.Equal(t, "unknown", GetInstructionName(Discriminator{1, 2, 3}))
	assert.True(t, IsKnownAccount(CollectionPDADiscriminator))
	assert.False(t, IsKnownAccount(Discriminator{}))
}

func TestValidateDiscriminator(t *testing.T) {
	data := append(CandyMachineDiscriminator.Bytes(), 0xAA, 0xBB)
	assert.NoError(t, ValidateDiscriminator(data, CandyMachineDiscriminator))
	assert.Error(t, ValidateDiscriminator(data, MintNFTDiscriminator))
	assert.Error(t, ValidateDiscriminator([]byte{1, 2}, CandyMachineDiscriminator))
}

func TestDiscriminatorFromBytes(t *testing.T) {
	d, err := DiscriminatorFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, Discriminator{1, 2, 3, 4, 5, 6, 7, 8}, d)

	_, err = DiscriminatorFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}
