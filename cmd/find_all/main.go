package main

import (
	"flag"
	"fmt"
	"log"

	cdc "github.com/kevmo314/go-cdc"
)

func main() {
	vid := flag.Uint("vid", 0, "vendor ID to match (0 matches any CDC device)")
	pid := flag.Uint("pid", 0, "product ID to match")
	flag.Parse()

	c := cdc.New()
	devices, err := c.FindAll(uint16(*vid), uint16(*pid))
	if err != nil {
		log.Fatalf("Failed to list devices: %v", err)
	}

	fmt.Printf("Number of CDC devices found: %d\n", len(devices))

	for _, dev := range devices {
		desc := dev.Descriptor()
		manufacturer, description, serial, err := c.GetStrings(dev)
		if err != nil {
			log.Printf("Failed to read strings from %04x:%04x: %v", desc.VendorID, desc.ProductID, err)
			continue
		}
		fmt.Printf("Manufacturer: %s, Description: %s, Serial: %s\n", manufacturer, description, serial)
	}
}
