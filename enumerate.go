package cdc

import (
	"errors"
)

// FindAll returns the devices matching the given vendor and product IDs.
// When both IDs are zero, every device exposing a CDC data interface is
// returned instead.
func (c *CDC) FindAll(vendorID, productID uint16) ([]Device, error) {
	devices, err := c.transport.Devices()
	if err != nil {
		return nil, opError("list devices", err)
	}

	var found []Device
	for _, dev := range devices {
		if vendorID == 0 && productID == 0 {
			if _, err := findEndpoints(dev); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			found = append(found, dev)
			continue
		}
		desc := dev.Descriptor()
		if desc.VendorID == vendorID && desc.ProductID == productID {
			found = append(found, dev)
		}
	}
	return found, nil
}

// Open opens the first device matching the given vendor and product IDs.
func (c *CDC) Open(vendorID, productID uint16) error {
	return c.OpenDescIndex(vendorID, productID, "", "", 0)
}

// OpenDesc opens the first device matching the given IDs whose product
// description and serial number also match. Empty strings match anything.
func (c *CDC) OpenDesc(vendorID, productID uint16, description, serial string) error {
	return c.OpenDescIndex(vendorID, productID, description, serial, 0)
}

// OpenDescIndex opens the index-th device (counting from zero) that matches
// the given IDs, description and serial number.
func (c *CDC) OpenDescIndex(vendorID, productID uint16, description, serial string, index uint) error {
	devices, err := c.transport.Devices()
	if err != nil {
		return opError("list devices", err)
	}

	var matched uint
	for _, dev := range devices {
		desc := dev.Descriptor()
		if desc.VendorID != vendorID || desc.ProductID != productID {
			continue
		}
		if description != "" || serial != "" {
			_, product, serialNumber, err := c.GetStrings(dev)
			if err != nil {
				return err
			}
			if description != "" && product != description {
				continue
			}
			if serial != "" && serialNumber != serial {
				continue
			}
		}
		if matched == index {
			return c.OpenDevice(dev)
		}
		matched++
	}
	return &Error{Op: "open", Code: ErrNotFound}
}

// OpenBusAddr opens the device at the given bus number and device address.
func (c *CDC) OpenBusAddr(bus, addr uint8) error {
	devices, err := c.transport.Devices()
	if err != nil {
		return opError("list devices", err)
	}
	for _, dev := range devices {
		if dev.Bus() == bus && dev.Address() == addr {
			return c.OpenDevice(dev)
		}
	}
	return &Error{Op: "open", Code: ErrNotFound}
}

// GetStrings reads the manufacturer, product description and serial number
// strings of dev through a transient handle.
func (c *CDC) GetStrings(dev Device) (manufacturer, description, serial string, err error) {
	handle, err := dev.Open()
	if err != nil {
		return "", "", "", opError("open device", err)
	}
	defer handle.Close()

	desc := dev.Descriptor()
	if desc.ManufacturerIndex != 0 {
		if manufacturer, err = handle.StringDescriptor(desc.ManufacturerIndex); err != nil {
			return "", "", "", opError("get string descriptor", err)
		}
	}
	if desc.ProductIndex != 0 {
		if description, err = handle.StringDescriptor(desc.ProductIndex); err != nil {
			return "", "", "", opError("get string descriptor", err)
		}
	}
	if desc.SerialNumberIndex != 0 {
		if serial, err = handle.StringDescriptor(desc.SerialNumberIndex); err != nil {
			return "", "", "", opError("get string descriptor", err)
		}
	}
	return manufacturer, description, serial, nil
}
