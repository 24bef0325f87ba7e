package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	cdc "github.com/kevmo314/go-cdc"
	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

func main() {
	c := cdc.New()
	devices, err := c.FindAll(0, 0)
	if err != nil {
		panic(err)
	}

	app := tview.NewApplication()

	deviceList := tview.NewList()
	deviceList.SetBorder(true).SetTitle("CDC Devices")

	detail := tview.NewTextView()
	detail.SetBorder(true).SetTitle("Descriptors")

	logText := tview.NewTextView()
	logText.SetMaxLines(10).SetBorder(true).SetTitle("Log")

	log.SetOutput(logText)

	for _, dev := range devices {
		desc := dev.Descriptor()
		manufacturer, description, serial, err := c.GetStrings(dev)
		if err != nil {
			log.Printf("error reading strings from %04x:%04x: %s", desc.VendorID, desc.ProductID, err)
		}
		title := fmt.Sprintf("%04x:%04x bus %d addr %d", desc.VendorID, desc.ProductID, dev.Bus(), dev.Address())
		subtitle := strings.TrimSpace(manufacturer + " " + description + " " + serial)
		deviceList.AddItem(title, subtitle, 0, func() {
			detail.SetText(describe(dev))
			app.SetFocus(detail)
		})
	}

	detail.SetDoneFunc(func(key tcell.Key) {
		app.SetFocus(deviceList)
	})

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	flex := tview.NewFlex().
		AddItem(deviceList, 0, 1, true).
		AddItem(detail, 0, 2, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(flex, 0, 1, true).
		AddItem(logText, 10, 0, false)

	if err := app.SetRoot(root, true).Run(); err != nil {
		panic(err)
	}
}

func describe(dev cdc.Device) string {
	var sb strings.Builder
	desc := dev.Descriptor()
	fmt.Fprintf(&sb, "Device %04x:%04x (USB %d.%02d)\n",
		desc.VendorID, desc.ProductID, desc.USBVersion>>8, desc.USBVersion&0xFF)

	for cfgIdx := uint8(0); cfgIdx < desc.NumConfigurations; cfgIdx++ {
		cfg, err := dev.ConfigDescriptor(cfgIdx)
		if err != nil {
			fmt.Fprintf(&sb, "Configuration %d: %s\n", cfgIdx, err)
			continue
		}
		fmt.Fprintf(&sb, "Configuration %d (value %d, %d interfaces)\n",
			cfgIdx, cfg.ConfigurationValue, cfg.NumInterfaces)
		for _, iface := range cfg.Interfaces {
			for _, alt := range iface.AltSettings {
				fmt.Fprintf(&sb, "  Interface %d alt %d: %s\n",
					alt.InterfaceNumber, alt.AlternateSetting, className(alt.InterfaceClass))
				for _, block := range descriptors.Blocks(alt.Extra) {
					fd, err := descriptors.UnmarshalFunctional(block)
					if err != nil {
						continue
					}
					fmt.Fprintf(&sb, "    %s\n", functionalTitle(fd))
				}
				for _, ep := range alt.Endpoints {
					fmt.Fprintf(&sb, "    Endpoint %#02x: %s %s, max packet %d\n",
						ep.Address, transferTypeName(ep.TransferType()), directionName(ep.Direction()), ep.MaxPacketSize)
				}
			}
		}
	}
	return sb.String()
}

func className(class descriptors.ClassCode) string {
	switch class {
	case descriptors.ClassCodeCDCControl:
		return "CDC Control"
	case descriptors.ClassCodeCDCData:
		return "CDC Data"
	default:
		return fmt.Sprintf("class %#02x", byte(class))
	}
}

func functionalTitle(fd descriptors.FunctionalDescriptor) string {
	switch fd := fd.(type) {
	case *descriptors.HeaderFunctionalDescriptor:
		return fmt.Sprintf("Header (CDC %d.%02d)", fd.CDC>>8, fd.CDC&0xFF)
	case *descriptors.CallManagementFunctionalDescriptor:
		return fmt.Sprintf("Call Management (data interface %d)", fd.DataInterface)
	case *descriptors.ACMFunctionalDescriptor:
		return fmt.Sprintf("ACM (capabilities %#02x)", fd.Capabilities)
	case *descriptors.UnionFunctionalDescriptor:
		return fmt.Sprintf("Union (control %d, subordinates %v)", fd.ControlInterface, fd.SubordinateInterfaces)
	default:
		return "Unknown"
	}
}

func transferTypeName(t descriptors.TransferType) string {
	switch t {
	case descriptors.TransferTypeControl:
		return "control"
	case descriptors.TransferTypeIsochronous:
		return "isochronous"
	case descriptors.TransferTypeBulk:
		return "bulk"
	case descriptors.TransferTypeInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

func directionName(d descriptors.EndpointDirection) string {
	if d == descriptors.EndpointDirectionIn {
		return "in"
	}
	return "out"
}
