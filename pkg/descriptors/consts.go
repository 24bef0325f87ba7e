package descriptors

type ClassCode byte

const (
	ClassCodeCDCControl ClassCode = 0x02
	ClassCodeCDCData    ClassCode = 0x0A
)

type SubclassCode byte

const (
	SubclassCodeUndefined           SubclassCode = 0x00
	SubclassCodeDirectLineControl   SubclassCode = 0x01
	SubclassCodeAbstractControl     SubclassCode = 0x02
	SubclassCodeTelephoneControl    SubclassCode = 0x03
	SubclassCodeEthernetNetworking  SubclassCode = 0x06
	SubclassCodeNetworkControlModel SubclassCode = 0x0D
)

type ProtocolCode byte

const (
	ProtocolCodeNone       ProtocolCode = 0x00
	ProtocolCodeATCommands ProtocolCode = 0x01
)

type DescriptorType byte

const (
	DescriptorTypeDevice         DescriptorType = 0x01
	DescriptorTypeConfiguration  DescriptorType = 0x02
	DescriptorTypeString         DescriptorType = 0x03
	DescriptorTypeInterface      DescriptorType = 0x04
	DescriptorTypeEndpoint       DescriptorType = 0x05
	DescriptorTypeClassInterface DescriptorType = 0x24
	DescriptorTypeClassEndpoint  DescriptorType = 0x25
)

type EndpointDirection byte

const (
	EndpointDirectionOut EndpointDirection = 0x00
	EndpointDirectionIn  EndpointDirection = 0x80
)

type TransferType byte

const (
	TransferTypeControl     TransferType = 0x00
	TransferTypeIsochronous TransferType = 0x01
	TransferTypeBulk        TransferType = 0x02
	TransferTypeInterrupt   TransferType = 0x03
)
