package cdc

import (
	"time"

	"github.com/kevmo314/go-cdc/pkg/descriptors"
	"github.com/kevmo314/go-cdc/pkg/requests"
)

// SetLineCoding programs the baud rate, character size, stop bits and parity
// of the open device.
func (c *CDC) SetLineCoding(baudRate uint32, dataBits descriptors.DataBits, stopBits descriptors.StopBits, parity descriptors.Parity) error {
	if c.handle == nil {
		return &Error{Op: "set line coding", Code: ErrNoDevice}
	}
	return c.setLineCoding(c.handle, descriptors.LineCoding{
		BaudRate: baudRate,
		StopBits: stopBits,
		Parity:   parity,
		DataBits: dataBits,
	})
}

// LineCoding reads back the line coding currently programmed in the device.
func (c *CDC) LineCoding() (descriptors.LineCoding, error) {
	var lc descriptors.LineCoding
	if c.handle == nil {
		return lc, &Error{Op: "get line coding", Code: ErrNoDevice}
	}
	buf := make([]byte, descriptors.LineCodingLength)
	_, err := c.handle.ControlTransfer(
		uint8(requests.RequestTypeInterfaceClassGet),
		uint8(requests.RequestCodeGetLineCoding),
		0, 0, buf, c.ReadTimeout)
	if err != nil {
		return lc, opError("get line coding", err)
	}
	if err := lc.UnmarshalBinary(buf); err != nil {
		return lc, &Error{Op: "get line coding", Code: ErrOther, Err: err}
	}
	return lc, nil
}

// SetDTRRTS asserts or deasserts the DTR and RTS control lines.
func (c *CDC) SetDTRRTS(dtr, rts bool) error {
	if c.handle == nil {
		return &Error{Op: "set control line state", Code: ErrNoDevice}
	}
	var state uint16
	if dtr {
		state |= requests.ControlLineDTR
	}
	if rts {
		state |= requests.ControlLineRTS
	}
	_, err := c.handle.ControlTransfer(
		uint8(requests.RequestTypeInterfaceClassSet),
		uint8(requests.RequestCodeSetControlLineState),
		state, 0, nil, c.WriteTimeout)
	if err != nil {
		return opError("set control line state", err)
	}
	return nil
}

// SendBreak holds the line in break state for the given duration, capped at
// the protocol maximum of 65535 milliseconds.
func (c *CDC) SendBreak(d time.Duration) error {
	if c.handle == nil {
		return &Error{Op: "send break", Code: ErrNoDevice}
	}
	ms := d.Milliseconds()
	if ms > 0xFFFF {
		ms = 0xFFFF
	}
	_, err := c.handle.ControlTransfer(
		uint8(requests.RequestTypeInterfaceClassSet),
		uint8(requests.RequestCodeSendBreak),
		uint16(ms), 0, nil, c.WriteTimeout)
	if err != nil {
		return opError("send break", err)
	}
	return nil
}

// Read reads from the bulk IN endpoint. A timeout with data already
// transferred counts as a successful short read; a timeout with nothing
// transferred reports ErrTimeout.
func (c *CDC) Read(p []byte) (int, error) {
	if c.handle == nil {
		return 0, &Error{Op: "read", Code: ErrNoDevice}
	}
	n, err := c.handle.BulkTransfer(c.inEndpoint, p, c.ReadTimeout)
	if err != nil {
		if errorCode(err) == ErrTimeout && n > 0 {
			return n, nil
		}
		return n, opError("read", err)
	}
	return n, nil
}

// Write writes to the bulk OUT endpoint. Timeout handling mirrors Read:
// a partial write before the deadline is reported as a short write.
func (c *CDC) Write(p []byte) (int, error) {
	if c.handle == nil {
		return 0, &Error{Op: "write", Code: ErrNoDevice}
	}
	n, err := c.handle.BulkTransfer(c.outEndpoint, p, c.WriteTimeout)
	if err != nil {
		if errorCode(err) == ErrTimeout && n > 0 {
			return n, nil
		}
		return n, opError("write", err)
	}
	return n, nil
}
