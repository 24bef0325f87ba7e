package cdc

import (
	"time"

	usb "github.com/kevmo314/go-usb"

	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

// usbTransport enumerates devices through usbfs.
type usbTransport struct{}

func (usbTransport) Devices() ([]Device, error) {
	list, err := usb.DeviceList()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, len(list))
	for i, dev := range list {
		devices[i] = &usbDevice{dev: dev}
	}
	return devices, nil
}

type usbDevice struct {
	dev *usb.Device
}

func (d *usbDevice) Descriptor() descriptors.DeviceDescriptor {
	dd := d.dev.Descriptor
	return descriptors.DeviceDescriptor{
		USBVersion:        dd.USBVersion,
		DeviceClass:       dd.DeviceClass,
		DeviceSubClass:    dd.DeviceSubClass,
		DeviceProtocol:    dd.DeviceProtocol,
		MaxPacketSize0:    dd.MaxPacketSize0,
		VendorID:          dd.VendorID,
		ProductID:         dd.ProductID,
		DeviceVersion:     dd.DeviceVersion,
		ManufacturerIndex: dd.ManufacturerIndex,
		ProductIndex:      dd.ProductIndex,
		SerialNumberIndex: dd.SerialNumberIndex,
		NumConfigurations: dd.NumConfigurations,
	}
}

func (d *usbDevice) Bus() uint8     { return d.dev.Bus }
func (d *usbDevice) Address() uint8 { return d.dev.Address }

// ConfigDescriptor reads the raw configuration descriptor through a transient
// handle. usbfs can only issue the GET_DESCRIPTOR request on an open fd.
func (d *usbDevice) ConfigDescriptor(index uint8) (*descriptors.ConfigDescriptor, error) {
	handle, err := d.dev.Open()
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	raw, err := handle.RawConfigDescriptor(index)
	if err != nil {
		return nil, err
	}
	cd := &descriptors.ConfigDescriptor{}
	if err := cd.Unmarshal(raw); err != nil {
		return nil, err
	}
	return cd, nil
}

func (d *usbDevice) Open() (Handle, error) {
	handle, err := d.dev.Open()
	if err != nil {
		return nil, err
	}
	return &usbHandle{handle: handle}, nil
}

type usbHandle struct {
	handle *usb.DeviceHandle
}

func (h *usbHandle) Close() error                         { return h.handle.Close() }
func (h *usbHandle) SetConfiguration(config int) error    { return h.handle.SetConfiguration(config) }
func (h *usbHandle) ClaimInterface(iface uint8) error     { return h.handle.ClaimInterface(iface) }
func (h *usbHandle) ReleaseInterface(iface uint8) error   { return h.handle.ReleaseInterface(iface) }
func (h *usbHandle) DetachKernelDriver(iface uint8) error { return h.handle.DetachKernelDriver(iface) }
func (h *usbHandle) AttachKernelDriver(iface uint8) error { return h.handle.AttachKernelDriver(iface) }

func (h *usbHandle) StringDescriptor(index uint8) (string, error) {
	return h.handle.StringDescriptor(index)
}

func (h *usbHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	return h.handle.ControlTransfer(requestType, request, value, index, data, timeout)
}

func (h *usbHandle) BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	return h.handle.BulkTransfer(endpoint, data, timeout)
}
