package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	cdc "github.com/kevmo314/go-cdc"
	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

func main() {
	app := &cli.App{
		Name:  "serial_test",
		Usage: "loopback tester for CDC-ACM serial adapters",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    "vid",
				Aliases: []string{"v"},
				Value:   0x0403,
				Usage:   "vendor ID (0 with pid 0 matches any CDC device)",
			},
			&cli.UintFlag{
				Name:    "pid",
				Aliases: []string{"p"},
				Value:   0x6001,
				Usage:   "product ID",
			},
			&cli.UintFlag{
				Name:    "baud",
				Aliases: []string{"b"},
				Value:   115200,
				Usage:   "baud rate",
			},
			&cli.UintFlag{
				Name:  "index",
				Usage: "device index, if more than one matches",
			},
			&cli.StringFlag{
				Name:  "serial",
				Usage: "serial number to match",
			},
			&cli.StringFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Value:   "hello",
				Usage:   "payload to write on each iteration",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: time.Second,
				Usage: "delay between writes",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cliContext *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cdc.New()
	err := c.OpenDescIndex(
		uint16(cliContext.Uint("vid")),
		uint16(cliContext.Uint("pid")),
		"", cliContext.String("serial"),
		cliContext.Uint("index"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer c.Close()

	baud := uint32(cliContext.Uint("baud"))
	if err := c.SetLineCoding(baud, descriptors.DataBits8, descriptors.StopBits1, descriptors.ParityNone); err != nil {
		return errors.WithStack(err)
	}
	if err := c.SetDTRRTS(true, true); err != nil {
		return errors.WithStack(err)
	}
	log.Printf("Opened device at %d baud", baud)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		buf := make([]byte, 512)
		for ctx.Err() == nil {
			n, err := c.Read(buf)
			if err != nil {
				if errors.Is(err, cdc.ErrTimeout) {
					continue
				}
				return errors.WithStack(err)
			}
			fmt.Printf("read %d bytes: %q\n", n, buf[:n])
		}
		return nil
	})

	g.Go(func() error {
		payload := []byte(cliContext.String("write"))
		ticker := time.NewTicker(cliContext.Duration("interval"))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			if _, err := c.Write(payload); err != nil {
				return errors.WithStack(err)
			}
		}
	})

	return g.Wait()
}
