package main

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	cdc "github.com/kevmo314/go-cdc"
	"github.com/kevmo314/go-cdc/pkg/descriptors"
)

// serial_mqtt bridges a CDC-ACM serial device to an MQTT broker: payloads
// published to <prefix>/send are written to the device, and lines read from
// the device are published to <prefix>/recv.
func main() {
	app := &cli.App{
		Name:  "serial_mqtt",
		Usage: "bridge a CDC-ACM serial device to MQTT",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    "vid",
				Aliases: []string{"v"},
				Value:   0x0403,
				Usage:   "vendor ID",
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
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "tcp://localhost:1883",
				Usage:   "MQTT broker address",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Value: "serial",
				Usage: "MQTT topic prefix",
			},
			&cli.StringFlag{
				Name:    "client-id",
				Aliases: []string{"i"},
				Value:   "serial-mqtt",
				Usage:   "MQTT client id",
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
	if err := c.Open(uint16(cliContext.Uint("vid")), uint16(cliContext.Uint("pid"))); err != nil {
		return errors.WithStack(err)
	}
	defer c.Close()

	baud := uint32(cliContext.Uint("baud"))
	if err := c.SetLineCoding(baud, descriptors.DataBits8, descriptors.StopBits1, descriptors.ParityNone); err != nil {
		return errors.WithStack(err)
	}

	prefix := cliContext.String("prefix")

	opts := mqtt.NewClientOptions().
		AddBroker(cliContext.String("server")).
		SetClientID(cliContext.String("client-id"))
	client := mqtt.NewClient(opts)
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		return errors.WithStack(t.Error())
	}
	defer client.Disconnect(250)

	log.Printf("Connected, bridging to topics under '%s'", prefix)

	if t := client.Subscribe(prefix+"/send", 1, func(_ mqtt.Client, msg mqtt.Message) {
		if _, err := c.Write(msg.Payload()); err != nil {
			log.Printf("write failed: %s", err)
		}
	}); t.Wait() && t.Error() != nil {
		return errors.WithStack(t.Error())
	}

	go func() {
		<-ctx.Done()
		c.Close()
	}()

	scanner := bufio.NewScanner(&timeoutReader{c: c, ctx: ctx})
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		t := client.Publish(prefix+"/recv", 1, false, append([]byte(nil), line...))
		go func() {
			<-t.Done()
			if t.Error() != nil {
				log.Println(t.Error())
			}
		}()
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return errors.WithStack(err)
	}
	return nil
}

// timeoutReader retries reads that time out with no data so the scanner only
// sees real bytes or hard failures.
type timeoutReader struct {
	c   *cdc.CDC
	ctx context.Context
}

func (r *timeoutReader) Read(p []byte) (int, error) {
	for {
		if err := r.ctx.Err(); err != nil {
			return 0, err
		}
		n, err := r.c.Read(p)
		if err != nil && errors.Is(err, cdc.ErrTimeout) {
			continue
		}
		return n, err
	}
}
