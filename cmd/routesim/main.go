// routesim emits fake telemetry packets that trace a loop around the Stevens
// campus, either over a real LoRa radio or to stdout. Use it to exercise the
// desktop receiver and the radio path without vehicle hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gabe-124/Baja-Data/internal/app"
	"github.com/Gabe-124/Baja-Data/internal/gps"
	"github.com/Gabe-124/Baja-Data/internal/lora"
	"github.com/Gabe-124/Baja-Data/internal/observability"
	"github.com/Gabe-124/Baja-Data/internal/serialio"
)

// stdoutLink prints packets instead of transmitting them.
type stdoutLink struct{}

func (stdoutLink) Send(payload []byte) error {
	_, err := fmt.Printf("%s\n", payload)
	return err
}

func (stdoutLink) Close() error { return nil }

func main() {
	var (
		device   string
		baud     uint
		mode     string
		interval time.Duration
		stdout   bool
	)
	flag.StringVar(&device, "lora-device", "/dev/serial0", "LoRa serial device")
	flag.UintVar(&baud, "lora-baud", 115200, "LoRa serial baud rate")
	flag.StringVar(&mode, "lora-mode", "command", "Radio mode: transparent or command")
	flag.DurationVar(&interval, "interval", time.Second, "Delay between packets")
	flag.BoolVar(&stdout, "stdout", false, "Print packets instead of using a radio")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, slog.LevelInfo)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var link lora.Link = stdoutLink{}
	if !stdout {
		port, err := serialio.Open(serialio.Config{Device: device, Baud: baud, ReadTimeout: time.Second})
		if err != nil {
			logger.Error("lora open failed", "device", device, "err", err)
			os.Exit(1)
		}
		if mode == "transparent" {
			link = lora.NewTransparentLink(port, logger)
		} else {
			link = lora.NewCommandLink(port, time.Second, logger)
		}
	}
	defer link.Close()

	route := gps.NewRouteSource(nil, 20)
	sender := app.NewSender(route, link, interval, time.Second, logger)

	logger.Info("routesim starting", "interval", interval, "stdout", stdout)
	if err := sender.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("routesim failed", "err", err)
		os.Exit(1)
	}
}
