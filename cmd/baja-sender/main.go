// baja-sender reads position fixes from the GPS receiver and transmits them
// as compact JSON packets over the LoRa radio, one packet per interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gabe-124/Baja-Data/internal/app"
	"github.com/Gabe-124/Baja-Data/internal/config"
	"github.com/Gabe-124/Baja-Data/internal/gps"
	"github.com/Gabe-124/Baja-Data/internal/lora"
	"github.com/Gabe-124/Baja-Data/internal/observability"
	"github.com/Gabe-124/Baja-Data/internal/serialio"
	"github.com/Gabe-124/Baja-Data/internal/telemetry"
)

func main() {
	var (
		configPath string
		simulate   bool
		loraDevice string
		interval   time.Duration
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (built-in defaults when empty)")
	flag.BoolVar(&simulate, "simulate", false, "Use the simulated GPS backend (no hardware required)")
	flag.StringVar(&loraDevice, "lora-device", "", "Override the LoRa serial device")
	flag.DurationVar(&interval, "interval", 0, "Override the send interval")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := observability.NewLogger(os.Stderr, level)

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			logger.Error("config load failed", "path", configPath, "err", err)
			os.Exit(1)
		}
	}
	if simulate {
		cfg.GPS.Backend = "sim"
	}
	if loraDevice != "" {
		cfg.LoRa.Device = loraDevice
	}
	if interval > 0 {
		cfg.Send.Interval = interval
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("baja-sender failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Both channels are opened before the loop so hardware problems surface
	// at startup; nothing useful can proceed without them.
	src, err := openSource(cfg.GPS, logger)
	if err != nil {
		return fmt.Errorf("open gps: %w", err)
	}
	defer src.Close()

	link, err := openLink(cfg.LoRa, logger)
	if err != nil {
		return fmt.Errorf("open radio: %w", err)
	}
	defer link.Close()

	if cfg.Metrics.Enable {
		go func() {
			if err := observability.ServeMetrics(cfg.Metrics.Addr); err != nil {
				logger.Warn("metrics listener stopped", "err", err)
			}
		}()
		logger.Info("metrics listening", "addr", cfg.Metrics.Addr)
	}

	sender := app.NewSender(src, link, cfg.Send.Interval, cfg.GPS.FixTimeout, logger)
	if cfg.MQTT.Enable {
		mirror, err := telemetry.NewMirror(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, logger)
		if err != nil {
			logger.Warn("mqtt mirror unavailable", "err", err)
		} else {
			sender.Mirror = mirror
			defer mirror.Close()
		}
	}

	logger.Info("baja-sender starting",
		"gps", cfg.GPS.Backend, "lora_mode", cfg.LoRa.Mode, "interval", cfg.Send.Interval)

	err = sender.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted, shutting down")
		return nil
	}
	return err
}

func openSource(cfg config.GPSConfig, logger *slog.Logger) (gps.Source, error) {
	switch cfg.Backend {
	case "sim":
		return gps.NewSimSource(), nil
	case "nmea":
		port, err := serialio.Open(serialio.Config{
			Device:      cfg.Device,
			Baud:        cfg.Baud,
			ReadTimeout: cfg.FixTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("gps serial open", "device", cfg.Device, "baud", cfg.Baud)
		return gps.NewNMEASource(port, logger), nil
	case "ubx":
		bus, err := gps.OpenI2C(cfg.I2CBus, cfg.I2CAddr)
		if err != nil {
			return nil, err
		}
		logger.Info("gps i2c open", "bus", cfg.I2CBus, "addr", fmt.Sprintf("0x%02x", cfg.I2CAddr))
		return gps.NewUBXSource(bus, logger), nil
	default:
		return nil, fmt.Errorf("unknown gps backend %q", cfg.Backend)
	}
}

func openLink(cfg config.LoRaConfig, logger *slog.Logger) (lora.Link, error) {
	port, err := serialio.Open(serialio.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("lora serial open", "device", cfg.Device, "baud", cfg.Baud, "mode", cfg.Mode)

	if cfg.Mode == "transparent" {
		return lora.NewTransparentLink(port, logger), nil
	}
	return lora.NewCommandLink(port, cfg.Timeout, logger), nil
}
