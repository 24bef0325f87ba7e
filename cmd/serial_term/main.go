package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/text/encoding/charmap"

	cdc "github.com/kevmo314/go-cdc"
	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

// serial_term is a minimal interactive terminal: stdin goes to the device,
// device output goes to stdout. Ctrl-] exits.
func main() {
	vid := flag.Uint("vid", 0x0403, "vendor ID")
	pid := flag.Uint("pid", 0x6001, "product ID")
	baud := flag.Uint("baud", 115200, "baud rate")
	latin1 := flag.Bool("latin1", false, "transcode device I/O as ISO 8859-1")
	flag.Parse()

	c := cdc.New()
	if err := c.Open(uint16(*vid), uint16(*pid)); err != nil {
		log.Fatalf("Unable to open device %04x:%04x: %v", *vid, *pid, err)
	}
	defer c.Close()

	if err := c.SetLineCoding(uint32(*baud), descriptors.DataBits8, descriptors.StopBits1, descriptors.ParityNone); err != nil {
		log.Fatalf("Unable to set line coding: %v", err)
	}
	if err := c.SetDTRRTS(true, true); err != nil {
		log.Fatalf("Unable to assert DTR/RTS: %v", err)
	}

	stdin := int(os.Stdin.Fd())
	saved, err := unix.IoctlGetTermios(stdin, unix.TCGETS)
	if err != nil {
		log.Fatalf("Unable to read terminal attributes: %v", err)
	}
	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	raw.Iflag &^= unix.ICRNL | unix.IXON
	if err := unix.IoctlSetTermios(stdin, unix.TCSETS, &raw); err != nil {
		log.Fatalf("Unable to set raw mode: %v", err)
	}
	defer unix.IoctlSetTermios(stdin, unix.TCSETS, saved)

	var devIn io.Reader = &retryReader{c: c}
	var devOut io.Writer = c
	if *latin1 {
		devIn = charmap.ISO8859_1.NewDecoder().Reader(devIn)
		devOut = charmap.ISO8859_1.NewEncoder().Writer(devOut)
	}

	go io.Copy(os.Stdout, devIn)

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		if buf[0] == 0x1D { // Ctrl-]
			return
		}
		if _, err := devOut.Write(buf); err != nil {
			log.Printf("write failed: %v", err)
			return
		}
	}
}

// retryReader absorbs empty timeouts so io.Copy keeps pumping.
type retryReader struct {
	c *cdc.CDC
}

func (r *retryReader) Read(p []byte) (int, error) {
	for {
		n, err := r.c.Read(p)
		if err != nil && errors.Is(err, cdc.ErrTimeout) {
			continue
		}
		return n, err
	}
}
