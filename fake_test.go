package cdc

import (
	"time"

	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

type fakeTransport struct {
	devices []Device
	err     error
}

func (f *fakeTransport) Devices() ([]Device, error) { return f.devices, f.err }

type fakeDevice struct {
	desc      descriptors.DeviceDescriptor
	bus, addr uint8
	configs   []*descriptors.ConfigDescriptor
	configErr error
	strings   map[uint8]string
	openErr   error
	handle    *fakeHandle
	opens     int
}

func (d *fakeDevice) Descriptor() descriptors.DeviceDescriptor { return d.desc }
func (d *fakeDevice) Bus() uint8                               { return d.bus }
func (d *fakeDevice) Address() uint8                           { return d.addr }

func (d *fakeDevice) ConfigDescriptor(index uint8) (*descriptors.ConfigDescriptor, error) {
	if d.configErr != nil {
		return nil, d.configErr
	}
	if int(index) >= len(d.configs) {
		return nil, &Error{Op: "get config descriptor", Code: ErrNotFound}
	}
	return d.configs[index], nil
}

func (d *fakeDevice) Open() (Handle, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opens++
	if d.handle == nil {
		d.handle = &fakeHandle{}
	}
	if d.handle.strings == nil {
		d.handle.strings = d.strings
	}
	d.handle.closed = false
	return d.handle, nil
}

type controlCall struct {
	requestType, request uint8
	value, index         uint16
	data                 []byte
	timeout              time.Duration
}

type fakeHandle struct {
	closed bool
	closes int

	config    int
	configErr error

	claimed    []uint8
	released   []uint8
	claimErr   map[uint8]error
	releaseErr map[uint8]error

	detached  []uint8
	attached  []uint8
	detachErr map[uint8]error

	strings map[uint8]string

	controls    []controlCall
	controlErr  error
	controlData []byte

	bulkFn func(endpoint uint8, data []byte, timeout time.Duration) (int, error)
}

func (h *fakeHandle) Close() error {
	h.closed = true
	h.closes++
	return nil
}

func (h *fakeHandle) SetConfiguration(config int) error {
	if h.configErr != nil {
		return h.configErr
	}
	h.config = config
	return nil
}

func (h *fakeHandle) ClaimInterface(iface uint8) error {
	if err := h.claimErr[iface]; err != nil {
		return err
	}
	h.claimed = append(h.claimed, iface)
	return nil
}

func (h *fakeHandle) ReleaseInterface(iface uint8) error {
	if err := h.releaseErr[iface]; err != nil {
		return err
	}
	h.released = append(h.released, iface)
	return nil
}

func (h *fakeHandle) DetachKernelDriver(iface uint8) error {
	if err := h.detachErr[iface]; err != nil {
		return err
	}
	h.detached = append(h.detached, iface)
	return nil
}

func (h *fakeHandle) AttachKernelDriver(iface uint8) error {
	h.attached = append(h.attached, iface)
	return nil
}

func (h *fakeHandle) StringDescriptor(index uint8) (string, error) {
	return h.strings[index], nil
}

func (h *fakeHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	if h.controlErr != nil {
		return 0, h.controlErr
	}
	call := controlCall{
		requestType: requestType,
		request:     request,
		value:       value,
		index:       index,
		timeout:     timeout,
	}
	if data != nil {
		call.data = append([]byte(nil), data...)
	}
	h.controls = append(h.controls, call)
	if requestType&0x80 != 0 {
		copy(data, h.controlData)
	}
	return len(data), nil
}

func (h *fakeHandle) BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	if h.bulkFn != nil {
		return h.bulkFn(endpoint, data, timeout)
	}
	return len(data), nil
}

// newFakeCDCDevice builds a device with a communications control interface 0
// and a data interface 1 carrying bulk endpoints 0x81 and 0x02.
func newFakeCDCDevice(vendorID, productID uint16) *fakeDevice {
	cfg := &descriptors.ConfigDescriptor{
		NumInterfaces:      2,
		ConfigurationValue: 1,
		Interfaces: []descriptors.InterfaceDescriptor{
			{AltSettings: []descriptors.AltSetting{{
				InterfaceNumber:   0,
				InterfaceClass:    descriptors.ClassCodeCDCControl,
				InterfaceSubClass: descriptors.SubclassCodeAbstractControl,
			}}},
			{AltSettings: []descriptors.AltSetting{{
				InterfaceNumber: 1,
				InterfaceClass:  descriptors.ClassCodeCDCData,
				Endpoints: []descriptors.EndpointDescriptor{
					{Address: 0x81, Attributes: 0x02, MaxPacketSize: 64},
					{Address: 0x02, Attributes: 0x02, MaxPacketSize: 64},
				},
			}}},
		},
	}
	return &fakeDevice{
		desc: descriptors.DeviceDescriptor{
			VendorID:          vendorID,
			ProductID:         productID,
			ManufacturerIndex: 1,
			ProductIndex:      2,
			SerialNumberIndex: 3,
			NumConfigurations: 1,
		},
		bus:     1,
		addr:    2,
		configs: []*descriptors.ConfigDescriptor{cfg},
		strings: map[uint8]string{1: "Acme", 2: "Widget", 3: "A1B2C3"},
		handle:  &fakeHandle{},
	}
}

func newTestCDC(devices ...Device) *CDC {
	return &CDC{
		transport:    &fakeTransport{devices: devices},
		ReadTimeout:  defaultTimeout,
		WriteTimeout: defaultTimeout,
	}
}
