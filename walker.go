package cdc

import (
	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

// endpointMap records where a CDC data interface and its bulk endpoints live
// within a device's descriptor tree.
type endpointMap struct {
	configIndex      uint8
	configValue      uint8
	controlInterface uint8
	dataInterface    uint8
	inEndpoint       uint8
	outEndpoint      uint8
}

// findEndpoints walks every configuration of dev looking for the first
// interface of the CDC data class that declares at least one endpoint.
func findEndpoints(dev Device) (*endpointMap, error) {
	desc := dev.Descriptor()
	for cfgIdx := uint8(0); cfgIdx < desc.NumConfigurations; cfgIdx++ {
		cfg, err := dev.ConfigDescriptor(cfgIdx)
		if err != nil {
			return nil, opError("get config descriptor", err)
		}
		for _, iface := range cfg.Interfaces {
			for _, alt := range iface.AltSettings {
				if alt.InterfaceClass != descriptors.ClassCodeCDCData || len(alt.Endpoints) == 0 {
					continue
				}
				em := &endpointMap{
					configIndex:   cfgIdx,
					configValue:   cfg.ConfigurationValue,
					dataInterface: alt.InterfaceNumber,
					// A lone endpoint serves both directions.
					inEndpoint:  alt.Endpoints[0].Address,
					outEndpoint: alt.Endpoints[0].Address,
				}
				for _, ep := range alt.Endpoints[1:] {
					if ep.Direction() == descriptors.EndpointDirectionIn {
						em.inEndpoint = ep.Address
					} else {
						em.outEndpoint = ep.Address
					}
				}
				em.controlInterface = controlInterfaceFor(cfg, alt.InterfaceNumber)
				return em, nil
			}
		}
	}
	return nil, &Error{Op: "find data interface", Code: ErrNotFound}
}

// controlInterfaceFor resolves the control interface paired with the given
// data interface. The union functional descriptor is authoritative when one
// names the data interface as a subordinate; otherwise the convention that
// control and data interfaces are adjacent applies.
func controlInterfaceFor(cfg *descriptors.ConfigDescriptor, dataInterface uint8) uint8 {
	for _, iface := range cfg.Interfaces {
		for _, alt := range iface.AltSettings {
			for _, block := range descriptors.Blocks(alt.Extra) {
				fd, err := descriptors.UnmarshalFunctional(block)
				if err != nil {
					continue
				}
				union, ok := fd.(*descriptors.UnionFunctionalDescriptor)
				if !ok {
					continue
				}
				for _, sub := range union.SubordinateInterfaces {
					if sub == dataInterface {
						return union.ControlInterface
					}
				}
			}
		}
	}
	return dataInterface ^ 1
}
