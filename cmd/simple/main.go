package main

import (
	"flag"
	"fmt"
	"log"

	cdc "github.com/kevmo314/go-cdc"
)

func main() {
	vid := flag.Uint("vid", 0x2458, "vendor ID")
	pid := flag.Uint("pid", 0x0001, "product ID")
	flag.Parse()

	c := cdc.New()
	if err := c.Open(uint16(*vid), uint16(*pid)); err != nil {
		log.Fatalf("Unable to open device %04x:%04x: %v", *vid, *pid, err)
	}
	defer c.Close()

	fmt.Printf("Opened device %04x:%04x\n", *vid, *pid)

	lc, err := c.LineCoding()
	if err != nil {
		log.Fatalf("Unable to read line coding: %v", err)
	}
	fmt.Printf("Line coding: %d baud, %d data bits\n", lc.BaudRate, lc.DataBits)
}
