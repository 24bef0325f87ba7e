// This file implements the standard device, configuration, interface and
// endpoint descriptors as defined in USB 2.0 spec, section 9.6.
package descriptors

import (
	"encoding/binary"
	"errors"
	"io"
)

var ErrInvalidDescriptor = errors.New("invalid descriptor")

const (
	deviceDescriptorLength    = 18
	configDescriptorLength    = 9
	interfaceDescriptorLength = 9
	endpointDescriptorLength  = 7
)

type DeviceDescriptor struct {
	USBVersion        uint16
	DeviceClass       uint8
	DeviceSubClass    uint8
	DeviceProtocol    uint8
	MaxPacketSize0    uint8
	VendorID          uint16
	ProductID         uint16
	DeviceVersion     uint16
	ManufacturerIndex uint8
	ProductIndex      uint8
	SerialNumberIndex uint8
	NumConfigurations uint8
}

func (dd *DeviceDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < deviceDescriptorLength {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeDevice {
		return ErrInvalidDescriptor
	}
	dd.USBVersion = binary.LittleEndian.Uint16(buf[2:4])
	dd.DeviceClass = buf[4]
	dd.DeviceSubClass = buf[5]
	dd.DeviceProtocol = buf[6]
	dd.MaxPacketSize0 = buf[7]
	dd.VendorID = binary.LittleEndian.Uint16(buf[8:10])
	dd.ProductID = binary.LittleEndian.Uint16(buf[10:12])
	dd.DeviceVersion = binary.LittleEndian.Uint16(buf[12:14])
	dd.ManufacturerIndex = buf[14]
	dd.ProductIndex = buf[15]
	dd.SerialNumberIndex = buf[16]
	dd.NumConfigurations = buf[17]
	return nil
}

type ConfigDescriptor struct {
	TotalLength        uint16
	NumInterfaces      uint8
	ConfigurationValue uint8
	DescriptionIndex   uint8
	Attributes         uint8
	MaxPower           uint8
	Interfaces         []InterfaceDescriptor
	Extra              []byte
}

// InterfaceDescriptor groups the alternate settings declared for one
// interface number, in declaration order.
type InterfaceDescriptor struct {
	AltSettings []AltSetting
}

type AltSetting struct {
	InterfaceNumber   uint8
	AlternateSetting  uint8
	InterfaceClass    ClassCode
	InterfaceSubClass SubclassCode
	InterfaceProtocol ProtocolCode
	DescriptionIndex  uint8
	Endpoints         []EndpointDescriptor
	Extra             []byte
}

type EndpointDescriptor struct {
	Address       uint8
	Attributes    uint8
	MaxPacketSize uint16
	Interval      uint8
	Extra         []byte
}

func (ed *EndpointDescriptor) Direction() EndpointDirection {
	return EndpointDirection(ed.Address & 0x80)
}

func (ed *EndpointDescriptor) TransferType() TransferType {
	return TransferType(ed.Attributes & 0x03)
}

// Unmarshal parses a full configuration descriptor as returned by a
// GET_DESCRIPTOR request: the configuration header followed by interface,
// endpoint and class-specific blocks. Class-specific and unknown blocks are
// attached to the Extra of the innermost descriptor seen so far, which is the
// same attachment rule libusb applies.
func (cd *ConfigDescriptor) Unmarshal(buf []byte) error {
	if len(buf) < configDescriptorLength || int(buf[0]) < configDescriptorLength {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeConfiguration {
		return ErrInvalidDescriptor
	}
	cd.TotalLength = binary.LittleEndian.Uint16(buf[2:4])
	cd.NumInterfaces = buf[4]
	cd.ConfigurationValue = buf[5]
	cd.DescriptionIndex = buf[6]
	cd.Attributes = buf[7]
	cd.MaxPower = buf[8]
	cd.Interfaces = nil
	cd.Extra = nil

	// Indices into the growing tree; pointers would be invalidated by
	// slice growth.
	curIface, curAlt, curEp := -1, -1, -1

	for i := int(buf[0]); i < len(buf); {
		n := int(buf[i])
		if n < 2 {
			return ErrInvalidDescriptor
		}
		if i+n > len(buf) {
			return io.ErrShortBuffer
		}
		block := buf[i : i+n]

		switch DescriptorType(block[1]) {
		case DescriptorTypeInterface:
			if n < interfaceDescriptorLength {
				return ErrInvalidDescriptor
			}
			alt := AltSetting{
				InterfaceNumber:   block[2],
				AlternateSetting:  block[3],
				InterfaceClass:    ClassCode(block[5]),
				InterfaceSubClass: SubclassCode(block[6]),
				InterfaceProtocol: ProtocolCode(block[7]),
				DescriptionIndex:  block[8],
			}
			curIface = -1
			for j := range cd.Interfaces {
				if len(cd.Interfaces[j].AltSettings) > 0 && cd.Interfaces[j].AltSettings[0].InterfaceNumber == alt.InterfaceNumber {
					curIface = j
					break
				}
			}
			if curIface == -1 {
				cd.Interfaces = append(cd.Interfaces, InterfaceDescriptor{})
				curIface = len(cd.Interfaces) - 1
			}
			cd.Interfaces[curIface].AltSettings = append(cd.Interfaces[curIface].AltSettings, alt)
			curAlt = len(cd.Interfaces[curIface].AltSettings) - 1
			curEp = -1
		case DescriptorTypeEndpoint:
			if n < endpointDescriptorLength {
				return ErrInvalidDescriptor
			}
			if curAlt == -1 {
				return ErrInvalidDescriptor
			}
			ep := EndpointDescriptor{
				Address:       block[2],
				Attributes:    block[3],
				MaxPacketSize: binary.LittleEndian.Uint16(block[4:6]),
				Interval:      block[6],
			}
			alts := cd.Interfaces[curIface].AltSettings
			alts[curAlt].Endpoints = append(alts[curAlt].Endpoints, ep)
			curEp = len(alts[curAlt].Endpoints) - 1
		default:
			switch {
			case curEp != -1:
				eps := cd.Interfaces[curIface].AltSettings[curAlt].Endpoints
				eps[curEp].Extra = append(eps[curEp].Extra, block...)
			case curAlt != -1:
				alts := cd.Interfaces[curIface].AltSettings
				alts[curAlt].Extra = append(alts[curAlt].Extra, block...)
			default:
				cd.Extra = append(cd.Extra, block...)
			}
		}
		i += n
	}
	return nil
}
