// Package cdc talks to USB CDC-ACM serial adapters through the Linux usbfs
// interface. A CDC device pairs a communications control interface with a
// data interface carrying one bulk endpoint per direction; this package
// locates the pair, manages the claim/configure lifecycle and exposes the
// bulk pipes plus the ACM line controls.
package cdc

import (
	"time"

	"github.com/kevmo314/go-cdc/pkg/descriptors"
	"github.com/kevmo314/go-cdc/pkg/requests"
)

// DetachMode selects how kernel drivers bound to the device's interfaces are
// handled while the device is open.
type DetachMode int

const (
	// AutoDetach detaches kernel drivers on open and leaves them detached.
	AutoDetach DetachMode = iota
	// DontDetach leaves kernel drivers alone.
	DontDetach
	// AutoDetachReattach detaches on open and reattaches on close.
	AutoDetachReattach
)

const defaultTimeout = 5000 * time.Millisecond

// CDC is a session with at most one open CDC-ACM device. The zero value is
// not usable; call New.
type CDC struct {
	transport Transport

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DetachMode   DetachMode

	handle      Handle
	inEndpoint  uint8
	outEndpoint uint8
	claimed     []uint8
	detached    []uint8
}

func New() *CDC {
	return &CDC{
		transport:    usbTransport{},
		ReadTimeout:  defaultTimeout,
		WriteTimeout: defaultTimeout,
	}
}

// OpenDevice opens dev and prepares it for serial I/O: kernel drivers are
// detached per DetachMode, the configuration holding the data interface is
// selected, the control and data interfaces are claimed and the line is set
// to 9600 8N1. On any failure the device is restored to its prior state and
// the session remains closed.
func (c *CDC) OpenDevice(dev Device) error {
	if c.handle != nil {
		return &Error{Op: "open", Code: ErrBusy}
	}

	em, err := findEndpoints(dev)
	if err != nil {
		return err
	}

	handle, err := dev.Open()
	if err != nil {
		return opError("open device", err)
	}

	ifaces := []uint8{em.controlInterface, em.dataInterface}
	if em.controlInterface == em.dataInterface {
		ifaces = ifaces[:1]
	}

	// A detach failure with EACCES is remembered so later failures report
	// the real cause instead of the claim error it provokes.
	var accessDenied bool
	var detached []uint8
	if c.DetachMode != DontDetach {
		for _, iface := range ifaces {
			if err := handle.DetachKernelDriver(iface); err != nil {
				if errorCode(err) == ErrAccess {
					accessDenied = true
				}
				continue
			}
			detached = append(detached, iface)
		}
	}

	if err := handle.SetConfiguration(int(em.configValue)); err != nil {
		c.rollback(handle, nil, detached)
		if accessDenied {
			return &Error{Op: "set configuration", Code: ErrAccess, Err: err}
		}
		return opError("set configuration", err)
	}

	var claimed []uint8
	for _, iface := range ifaces {
		if err := handle.ClaimInterface(iface); err != nil {
			c.rollback(handle, claimed, detached)
			if accessDenied {
				return &Error{Op: "claim interface", Code: ErrAccess, Err: err}
			}
			return opError("claim interface", err)
		}
		claimed = append(claimed, iface)
	}

	lc := descriptors.LineCoding{
		BaudRate: 9600,
		StopBits: descriptors.StopBits1,
		Parity:   descriptors.ParityNone,
		DataBits: descriptors.DataBits8,
	}
	if err := c.setLineCoding(handle, lc); err != nil {
		c.rollback(handle, claimed, detached)
		return err
	}

	c.handle = handle
	c.inEndpoint = em.inEndpoint
	c.outEndpoint = em.outEndpoint
	c.claimed = claimed
	c.detached = detached
	return nil
}

// rollback undoes a partially completed open: claimed interfaces are
// released in reverse claim order, detached drivers are reattached when the
// mode asks for it, and the handle is closed.
func (c *CDC) rollback(handle Handle, claimed, detached []uint8) {
	for i := len(claimed) - 1; i >= 0; i-- {
		handle.ReleaseInterface(claimed[i])
	}
	if c.DetachMode == AutoDetachReattach {
		for _, iface := range detached {
			handle.AttachKernelDriver(iface)
		}
	}
	handle.Close()
}

// Close releases the claimed interfaces, reattaches kernel drivers when the
// mode asks for it and closes the handle. The handle is closed even when a
// release fails; the first release error is returned. Closing a closed
// session is a no-op.
func (c *CDC) Close() error {
	if c.handle == nil {
		return nil
	}

	var releaseErr error
	for _, iface := range c.claimed {
		if err := c.handle.ReleaseInterface(iface); err != nil {
			releaseErr = opError("release interface", err)
			break
		}
	}

	if c.DetachMode == AutoDetachReattach {
		for _, iface := range c.detached {
			c.handle.AttachKernelDriver(iface)
		}
	}

	c.handle.Close()
	c.handle = nil
	c.inEndpoint = 0
	c.outEndpoint = 0
	c.claimed = nil
	c.detached = nil
	return releaseErr
}

func (c *CDC) setLineCoding(handle Handle, lc descriptors.LineCoding) error {
	buf := make([]byte, descriptors.LineCodingLength)
	if err := lc.MarshalInto(buf); err != nil {
		return &Error{Op: "set line coding", Code: ErrInvalidParam, Err: err}
	}
	_, err := handle.ControlTransfer(
		uint8(requests.RequestTypeInterfaceClassSet),
		uint8(requests.RequestCodeSetLineCoding),
		0, 0, buf, c.WriteTimeout)
	if err != nil {
		return opError("set line coding", err)
	}
	return nil
}
