// This file implements the class-specific functional descriptors as defined
// in the CDC spec 1.2, section 5.2.3.
package descriptors

import (
	"encoding"
	"encoding/binary"
	"io"
)

type FunctionalDescriptor interface {
	encoding.BinaryUnmarshaler
	isFunctionalDescriptor()
}

type FunctionalDescriptorSubtype byte

const (
	FunctionalDescriptorSubtypeHeader         FunctionalDescriptorSubtype = 0x00
	FunctionalDescriptorSubtypeCallManagement FunctionalDescriptorSubtype = 0x01
	FunctionalDescriptorSubtypeACM            FunctionalDescriptorSubtype = 0x02
	FunctionalDescriptorSubtypeUnion          FunctionalDescriptorSubtype = 0x06
	FunctionalDescriptorSubtypeCountrySel     FunctionalDescriptorSubtype = 0x07
)

func UnmarshalFunctional(buf []byte) (FunctionalDescriptor, error) {
	if len(buf) < 3 {
		return nil, io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeClassInterface {
		return nil, ErrInvalidDescriptor
	}
	var desc FunctionalDescriptor
	switch FunctionalDescriptorSubtype(buf[2]) {
	case FunctionalDescriptorSubtypeHeader:
		desc = &HeaderFunctionalDescriptor{}
	case FunctionalDescriptorSubtypeCallManagement:
		desc = &CallManagementFunctionalDescriptor{}
	case FunctionalDescriptorSubtypeACM:
		desc = &ACMFunctionalDescriptor{}
	case FunctionalDescriptorSubtypeUnion:
		desc = &UnionFunctionalDescriptor{}
	default:
		return nil, ErrInvalidDescriptor
	}
	return desc, desc.UnmarshalBinary(buf)
}

// Blocks splits a class-specific Extra region into its descriptor blocks.
func Blocks(extra []byte) [][]byte {
	var blocks [][]byte
	for i := 0; i < len(extra); {
		n := int(extra[i])
		if n < 2 || i+n > len(extra) {
			break
		}
		blocks = append(blocks, extra[i:i+n])
		i += n
	}
	return blocks
}

// HeaderFunctionalDescriptor as defined in CDC spec 1.2, section 5.2.3.1
type HeaderFunctionalDescriptor struct {
	CDC uint16
}

func (hfd *HeaderFunctionalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) != int(buf[0]) || len(buf) < 5 {
		return io.ErrShortBuffer
	}
	if FunctionalDescriptorSubtype(buf[2]) != FunctionalDescriptorSubtypeHeader {
		return ErrInvalidDescriptor
	}
	hfd.CDC = binary.LittleEndian.Uint16(buf[3:5])
	return nil
}

func (*HeaderFunctionalDescriptor) isFunctionalDescriptor() {}

// CallManagementFunctionalDescriptor as defined in CDC spec 1.2,
// section 5.3.1 (PSTN120)
type CallManagementFunctionalDescriptor struct {
	Capabilities  uint8
	DataInterface uint8
}

func (cmfd *CallManagementFunctionalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) != int(buf[0]) || len(buf) < 5 {
		return io.ErrShortBuffer
	}
	if FunctionalDescriptorSubtype(buf[2]) != FunctionalDescriptorSubtypeCallManagement {
		return ErrInvalidDescriptor
	}
	cmfd.Capabilities = buf[3]
	cmfd.DataInterface = buf[4]
	return nil
}

func (*CallManagementFunctionalDescriptor) isFunctionalDescriptor() {}

// ACMFunctionalDescriptor as defined in CDC spec 1.2, section 5.3.2 (PSTN120)
type ACMFunctionalDescriptor struct {
	Capabilities uint8
}

func (afd *ACMFunctionalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) != int(buf[0]) || len(buf) < 4 {
		return io.ErrShortBuffer
	}
	if FunctionalDescriptorSubtype(buf[2]) != FunctionalDescriptorSubtypeACM {
		return ErrInvalidDescriptor
	}
	afd.Capabilities = buf[3]
	return nil
}

func (*ACMFunctionalDescriptor) isFunctionalDescriptor() {}

// UnionFunctionalDescriptor as defined in CDC spec 1.2, section 5.2.3.2
type UnionFunctionalDescriptor struct {
	ControlInterface      uint8
	SubordinateInterfaces []uint8
}

func (ufd *UnionFunctionalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) != int(buf[0]) || len(buf) < 4 {
		return io.ErrShortBuffer
	}
	if FunctionalDescriptorSubtype(buf[2]) != FunctionalDescriptorSubtypeUnion {
		return ErrInvalidDescriptor
	}
	ufd.ControlInterface = buf[3]
	ufd.SubordinateInterfaces = append(ufd.SubordinateInterfaces[:0], buf[4:]...)
	return nil
}

func (*UnionFunctionalDescriptor) isFunctionalDescriptor() {}
