package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMintNFTInstruction(t *testing.T) {
	data := BuildMintNFTInstruction(254)

	require.Len(t, data, 9)
	assert.Equal(t, MintNFTDiscriminator.Bytes(), data[:8])
	assert.Equal(t, byte(254), data[8])
}

func TestInstructionBuilder(t *testing.T) {
	data := NewInstructionBuilder("mint_nft").
		AddU8(1).
		AddU16(0x0203).
		AddU32(0x04050607).
		AddU64(0x08090a0b0c0d0e0f).
		AddBool(true).
		AddString("hi").
		Build()

	decoder := NewAccountDecoder(data)

	u8, err := decoder.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := decoder.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), u16)

	u32, err := decoder.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), u32)

	u64, err := decoder.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x08090a0b0c0d0e0f), u64)

	b, err := decoder.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	s, err := decoder.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	assert.False(t, decoder.HasMoreData())
	assert.Equal(t, 0, decoder.Remaining())
}

func TestAccountDecoder_OptionTag(t *testing.T) {
	data := append(CandyMachineDiscriminator.Bytes(), 0, 1, 7)
	decoder := NewAccountDecoder(data)

	present, err := decoder.ReadOptionTag()
	require.NoError(t, err)
	assert.False(t, present)

	present, err = decoder.ReadOptionTag()
	require.NoError(t, err)
	assert.True(t, present)

	_, err = decoder.ReadOptionTag()
	assert.ErrorContains(t, err, "invalid option tag 7")
}

func TestAccountDecoder_Exhaustion(t *testing.T) {
	decoder := NewAccountDecoder(CandyMachineDiscriminator.Bytes())

	_, err := decoder.ReadU8()
	assert.Error(t, err)
	_, err = decoder.ReadU64()
	assert.Error(t, err)
	_, err = decoder.ReadString()
	assert.Error(t, err)
	_, err = decoder.ReadBytes(4)
	assert.Error(t, err)
}
