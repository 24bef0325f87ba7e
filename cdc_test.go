package cdc

import (
	"bytes"
	"errors"
	"syscall"
	"testing"
)

func TestOpenDevice(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)

	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	h := dev.handle
	if c.handle == nil {
		t.Fatal("handle not recorded")
	}
	if h.config != 1 {
		t.Errorf("configuration = %d, want 1", h.config)
	}
	if len(h.claimed) != 2 || h.claimed[0] != 0 || h.claimed[1] != 1 {
		t.Errorf("claimed = %v, want [0 1]", h.claimed)
	}
	if len(h.detached) != 2 || h.detached[0] != 0 || h.detached[1] != 1 {
		t.Errorf("detached = %v, want [0 1]", h.detached)
	}
	if c.inEndpoint != 0x81 || c.outEndpoint != 0x02 {
		t.Errorf("endpoints = %#02x/%#02x, want 0x81/0x02", c.inEndpoint, c.outEndpoint)
	}
	if len(h.controls) != 1 {
		t.Fatalf("control transfers = %d, want 1", len(h.controls))
	}
	call := h.controls[0]
	if call.requestType != 0x21 || call.request != 0x20 {
		t.Errorf("request = %#02x/%#02x, want 0x21/0x20", call.requestType, call.request)
	}
	if call.value != 0 || call.index != 0 {
		t.Errorf("value/index = %d/%d, want 0/0", call.value, call.index)
	}
	want := []byte{0x80, 0x25, 0x00, 0x00, 0x00, 0x00, 0x08} // 9600 8N1
	if !bytes.Equal(call.data, want) {
		t.Errorf("line coding = %v, want %v", call.data, want)
	}
}

func TestOpenDeviceWhileOpen(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)
	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	if err := c.OpenDevice(dev); !errors.Is(err, ErrBusy) {
		t.Errorf("second open: err = %v, want ErrBusy", err)
	}
}

func TestOpenDeviceDontDetach(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)
	c.DetachMode = DontDetach
	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	if len(dev.handle.detached) != 0 {
		t.Errorf("detached = %v, want none", dev.handle.detached)
	}
}

func TestOpenDeviceClaimFailureRollsBack(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	dev.handle = &fakeHandle{claimErr: map[uint8]error{1: syscall.EBUSY}}
	c := newTestCDC(dev)

	err := c.OpenDevice(dev)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	h := dev.handle
	if len(h.released) != 1 || h.released[0] != 0 {
		t.Errorf("released = %v, want [0]", h.released)
	}
	if !h.closed {
		t.Error("handle not closed after failed open")
	}
	if c.handle != nil {
		t.Error("session left open after failed open")
	}

	// The same session can open once the interface frees up.
	h.claimErr = nil
	if err := c.OpenDevice(dev); err != nil {
		t.Errorf("retry failed: %v", err)
	}
}

func TestOpenDeviceSetConfigurationFailure(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	dev.handle = &fakeHandle{configErr: syscall.EPIPE}
	c := newTestCDC(dev)

	err := c.OpenDevice(dev)
	if !errors.Is(err, ErrPipe) {
		t.Fatalf("err = %v, want ErrPipe", err)
	}
	h := dev.handle
	if len(h.claimed) != 0 {
		t.Errorf("claimed = %v, want none", h.claimed)
	}
	if !h.closed {
		t.Error("handle not closed after failed open")
	}
}

func TestOpenDeviceDetachDeniedReportsAccess(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	dev.handle = &fakeHandle{
		detachErr: map[uint8]error{0: syscall.EACCES},
		claimErr:  map[uint8]error{0: syscall.EBUSY},
	}
	c := newTestCDC(dev)

	err := c.OpenDevice(dev)
	if !errors.Is(err, ErrAccess) {
		t.Errorf("err = %v, want ErrAccess", err)
	}
}

func TestOpenDeviceLineCodingFailureRollsBack(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	dev.handle = &fakeHandle{controlErr: syscall.EPIPE}
	c := newTestCDC(dev)
	c.DetachMode = AutoDetachReattach

	err := c.OpenDevice(dev)
	if !errors.Is(err, ErrPipe) {
		t.Fatalf("err = %v, want ErrPipe", err)
	}
	h := dev.handle
	if len(h.released) != 2 || h.released[0] != 1 || h.released[1] != 0 {
		t.Errorf("released = %v, want [1 0]", h.released)
	}
	if len(h.attached) != 2 {
		t.Errorf("attached = %v, want both interfaces reattached", h.attached)
	}
	if !h.closed {
		t.Error("handle not closed after failed open")
	}
}

func TestClose(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)
	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	h := dev.handle
	if len(h.released) != 2 || h.released[0] != 0 || h.released[1] != 1 {
		t.Errorf("released = %v, want [0 1]", h.released)
	}
	if !h.closed {
		t.Error("handle not closed")
	}
	if c.handle != nil || c.claimed != nil || c.detached != nil {
		t.Error("session state not cleared")
	}

	// Closing again is a no-op.
	if err := c.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if h.closes != 1 {
		t.Errorf("closes = %d, want 1", h.closes)
	}
}

func TestCloseReleaseErrorStillClosesHandle(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)
	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	h := dev.handle
	h.releaseErr = map[uint8]error{0: syscall.EIO}

	err := c.Close()
	if !errors.Is(err, ErrIO) {
		t.Errorf("err = %v, want ErrIO", err)
	}
	if len(h.released) != 0 {
		t.Errorf("released = %v, want none past the failure", h.released)
	}
	if !h.closed {
		t.Error("handle not closed despite release failure")
	}
	if c.handle != nil {
		t.Error("session state not cleared")
	}
}

func TestCloseReattachesDrivers(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)
	c.DetachMode = AutoDetachReattach
	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	h := dev.handle
	if len(h.attached) != 2 || h.attached[0] != 0 || h.attached[1] != 1 {
		t.Errorf("attached = %v, want [0 1]", h.attached)
	}
}

func TestCloseNoReattachByDefault(t *testing.T) {
	dev := newFakeCDCDevice(0x0403, 0x6001)
	c := newTestCDC(dev)
	if err := c.OpenDevice(dev); err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(dev.handle.attached) != 0 {
		t.Errorf("attached = %v, want none", dev.handle.attached)
	}
}
