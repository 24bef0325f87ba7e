package cdc

import (
	"time"

	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

// Transport enumerates the USB devices visible to the host.
type Transport interface {
	Devices() ([]Device, error)
}

// Device is an unopened USB device on the bus.
type Device interface {
	Descriptor() descriptors.DeviceDescriptor
	Bus() uint8
	Address() uint8
	ConfigDescriptor(index uint8) (*descriptors.ConfigDescriptor, error)
	Open() (Handle, error)
}

// Handle is an open USB device.
type Handle interface {
	Close() error
	SetConfiguration(config int) error
	ClaimInterface(iface uint8) error
	ReleaseInterface(iface uint8) error
	DetachKernelDriver(iface uint8) error
	AttachKernelDriver(iface uint8) error
	StringDescriptor(index uint8) (string, error)
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
}
