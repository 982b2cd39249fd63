package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "baja.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "gps:\n  backend: nmea\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GPS.Backend != "nmea" {
		t.Fatalf("backend=%q want nmea", cfg.GPS.Backend)
	}
	if cfg.GPS.Baud != 38400 {
		t.Fatalf("gps baud=%d want 38400", cfg.GPS.Baud)
	}
	if cfg.GPS.I2CAddr != 0x42 {
		t.Fatalf("i2c addr=0x%02x want 0x42", cfg.GPS.I2CAddr)
	}
	if cfg.LoRa.Mode != "command" {
		t.Fatalf("lora mode=%q want command", cfg.LoRa.Mode)
	}
	if cfg.LoRa.Baud != 115200 {
		t.Fatalf("lora baud=%d want 115200", cfg.LoRa.Baud)
	}
	if cfg.Send.Interval != time.Second {
		t.Fatalf("interval=%s want 1s", cfg.Send.Interval)
	}
}

func TestDefault_MatchesEmptyFile(t *testing.T) {
	fromFile, err := Load(writeTempConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if fromFile != Default() {
		t.Fatalf("Default()=%+v differs from empty file load %+v", Default(), fromFile)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeTempConfig(t, "gps:\n  backend: carrier-pigeon\n"))
	if err == nil || !strings.Contains(err.Error(), "gps.backend") {
		t.Fatalf("err=%v want gps.backend validation error", err)
	}
}

func TestLoad_RejectsUnknownLoRaMode(t *testing.T) {
	_, err := Load(writeTempConfig(t, "lora:\n  mode: shouting\n"))
	if err == nil || !strings.Contains(err.Error(), "lora.mode") {
		t.Fatalf("err=%v want lora.mode validation error", err)
	}
}

func TestLoad_MQTTDefaultsOnlyWhenEnabled(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "mqtt:\n  enable: true\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" || cfg.MQTT.Topic != "baja/telemetry" {
		t.Fatalf("mqtt defaults not applied: %+v", cfg.MQTT)
	}

	cfg, err = Load(writeTempConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MQTT.Broker != "" {
		t.Fatalf("mqtt broker=%q want empty when disabled", cfg.MQTT.Broker)
	}
}

func TestLoad_DurationsParsed(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "send:\n  interval: 250ms\ngps:\n  fix_timeout: 2s\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Send.Interval != 250*time.Millisecond {
		t.Fatalf("interval=%s want 250ms", cfg.Send.Interval)
	}
	if cfg.GPS.FixTimeout != 2*time.Second {
		t.Fatalf("fix_timeout=%s want 2s", cfg.GPS.FixTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
