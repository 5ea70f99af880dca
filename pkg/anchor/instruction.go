package anchor

import (
	"encoding/binary"
	"fmt"
)

// InstructionBuilder helps build Anchor instructions
type InstructionBuilder struct {
	discriminator Discriminator
	data          []byte
}

// NewInstructionBuilder creates a new instruction builder
func NewInstructionBuilder(instructionName string) *InstructionBuilder {
	discriminator := ComputeInstructionDiscriminator(instructionName)
	return &InstructionBuilder{
		discriminator: discriminator,
		data:          discriminator.Bytes(),
	}
}

// AddU8 adds a u8 value to instruction data
func (ib *InstructionBuilder) AddU8(value uint8) *InstructionBuilder {
	ib.data = append(ib.data, value)
	return ib
}

// AddU16 adds a u16 value to instruction data (little endian)
func (ib *InstructionBuilder) AddU16(value uint16) *InstructionBuilder {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, value)
	ib.data = append(ib.data, buf...)
	return ib
}

// AddU32 adds a u32 value to instruction data (little endian)
func (ib *InstructionBuilder) AddU32(value uint32) *InstructionBuilder {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	ib.data = append(ib.data, buf...)
	return ib
}

// AddU64 adds a u64 value to instruction data (little endian)
func (ib *InstructionBuilder) AddU64(value uint64) *InstructionBuilder {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, value)
	ib.data = append(ib.data, buf...)
	return ib
}

// AddString adds a string to instruction data (length-prefixed)
func (ib *InstructionBuilder) AddString(value string) *InstructionBuilder {
	data := []byte(value)
	ib.AddU32(uint32(len(data)))
	ib.data = append(ib.data, data...)
	return ib
}

// AddBytes adds raw bytes to instruction data
func (ib *InstructionBuilder) AddBytes(value []byte) *InstructionBuilder {
	ib.data = append(ib.data, value...)
	return ib
}

// AddBool adds a boolean to instruction data
func (ib *InstructionBuilder) AddBool(value bool) *InstructionBuilder {
	if value {
		ib.data = append(ib.data, 1)
	} else {
		ib.data = append(ib.data, 0)
	}
	return ib
}

// Build returns the final instruction data
func (ib *InstructionBuilder) Build() []byte {
	return ib.data
}

// GetDiscriminator returns the instruction discriminator
func (ib *InstructionBuilder) GetDiscriminator() Discriminator {
	return ib.discriminator
}

// BuildMintNFTInstruction builds the candy machine mint_nft instruction data.
// The only argument after the discriminator is the creator PDA bump.
func BuildMintNFTInstruction(creatorBump uint8) []byte {
	return NewInstructionBuilder("mint_nft").
		AddU8(creatorBump).
		Build()
}

// AccountDecoder walks Anchor account data after the 8-byte discriminator
type AccountDecoder struct {
	data   []byte
	offset int
}

// NewAccountDecoder creates a decoder positioned after the discriminator
func NewAccountDecoder(data []byte) *AccountDecoder {
	return &AccountDecoder{
		data:   data,
		offset: 8, // Skip discriminator
	}
}

// GetDiscriminator returns the account discriminator
func (ad *AccountDecoder) GetDiscriminator() (Discriminator, error) {
	return DiscriminatorFromBytes(ad.data)
}

// ReadU8 reads a u8 value
func (ad *AccountDecoder) ReadU8() (uint8, error) {
	if ad.offset+1 > len(ad.data) {
		return 0, fmt.Errorf("not enough data to read u8")
	}
	value := ad.data[ad.offset]
	ad.offset++
	return value, nil
}

// ReadU16 reads a u16 value (little endian)
func (ad *AccountDecoder) ReadU16() (uint16, error) {
	if ad.offset+2 > len(ad.data) {
		return 0, fmt.Errorf("not enough data to read u16")
	}
	value := binary.LittleEndian.Uint16(ad.data[ad.offset:])
	ad.offset += 2
	return value, nil
}

// ReadU32 reads a u32 value (little endian)
func (ad *AccountDecoder) ReadU32() (uint32, error) {
	if ad.offset+4 > len(ad.data) {
		return 0, fmt.Errorf("not enough data to read u32")
	}
	value := binary.LittleEndian.Uint32(ad.data[ad.offset:])
	ad.offset += 4
	return value, nil
}

// ReadU64 reads a u64 value (little endian)
func (ad *AccountDecoder) ReadU64() (uint64, error) {
	if ad.offset+8 > len(ad.data) {
		return 0, fmt.Errorf("not enough data to read u64")
	}
	value := binary.LittleEndian.Uint64(ad.data[ad.offset:])
	ad.offset += 8
	return value, nil
}

// ReadI64 reads an i64 value (little endian)
func (ad *AccountDecoder) ReadI64() (int64, error) {
	value, err := ad.ReadU64()
	if err != nil {
		return 0, fmt.Errorf("not enough data to read i64")
	}
	return int64(value), nil
}

// ReadString reads a length-prefixed string
func (ad *AccountDecoder) ReadString() (string, error) {
	length, err := ad.ReadU32()
	if err != nil {
		return "", fmt.Errorf("failed to read string length: %w", err)
	}

	if ad.offset+int(length) > len(ad.data) {
		return "", fmt.Errorf("not enough data to read string of length %d", length)
	}

	value := string(ad.data[ad.offset : ad.offset+int(length)])
	ad.offset += int(length)
	return value, nil
}

// ReadBytes reads raw bytes
func (ad *AccountDecoder) ReadBytes(length int) ([]byte, error) {
	if ad.offset+length > len(ad.data) {
		return nil, fmt.Errorf("not enough data to read %d bytes", length)
	}

	value := make([]byte, length)
	copy(value, ad.data[ad.offset:ad.offset+length])
	ad.offset += length
	return value, nil
}

// ReadBool reads a boolean
func (ad *AccountDecoder) ReadBool() (bool, error) {
	value, err := ad.ReadU8()
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

// ReadOptionTag reads a borsh Option tag and reports presence
func (ad *AccountDecoder) ReadOptionTag() (bool, error) {
	tag, err := ad.ReadU8()
	if err != nil {
		return false, fmt.Errorf("failed to read option tag: %w", err)
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid option tag %d", tag)
	}
}

// HasMoreData checks if there's more data to read
func (ad *AccountDecoder) HasMoreData() bool {
	return ad.offset < len(ad.data)
}

// Remaining returns remaining bytes count
func (ad *AccountDecoder) Remaining() int {
	return len(ad.data) - ad.offset
}
