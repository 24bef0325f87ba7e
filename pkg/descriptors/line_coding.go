package descriptors

import (
	"encoding/binary"
	"io"
)

// LineCodingLength is the wire size of a line coding structure, CDC PSTN120
// section 6.3.10.
const LineCodingLength = 7

type StopBits byte

const (
	StopBits1  StopBits = 0
	StopBits15 StopBits = 1
	StopBits2  StopBits = 2
)

type Parity byte

const (
	ParityNone  Parity = 0
	ParityOdd   Parity = 1
	ParityEven  Parity = 2
	ParityMark  Parity = 3
	ParitySpace Parity = 4
)

type DataBits byte

const (
	DataBits5  DataBits = 5
	DataBits6  DataBits = 6
	DataBits7  DataBits = 7
	DataBits8  DataBits = 8
	DataBits16 DataBits = 16
)

// LineCoding as defined in CDC PSTN120, section 6.3.10.
type LineCoding struct {
	BaudRate uint32
	StopBits StopBits
	Parity   Parity
	DataBits DataBits
}

func (lc *LineCoding) MarshalBinary() ([]byte, error) {
	buf := make([]byte, LineCodingLength)
	if err := lc.MarshalInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (lc *LineCoding) MarshalInto(buf []byte) error {
	if len(buf) < LineCodingLength {
		return io.ErrShortBuffer
	}
	binary.LittleEndian.PutUint32(buf[0:4], lc.BaudRate)
	buf[4] = byte(lc.StopBits)
	buf[5] = byte(lc.Parity)
	buf[6] = byte(lc.DataBits)
	return nil
}

func (lc *LineCoding) UnmarshalBinary(buf []byte) error {
	if len(buf) < LineCodingLength {
		return io.ErrShortBuffer
	}
	lc.BaudRate = binary.LittleEndian.Uint32(buf[0:4])
	lc.StopBits = StopBits(buf[4])
	lc.Parity = Parity(buf[5])
	lc.DataBits = DataBits(buf[6])
	return nil
}
