package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS     GPSConfig     `yaml:"gps"`
	LoRa    LoRaConfig    `yaml:"lora"`
	Send    SendConfig    `yaml:"send"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type GPSConfig struct {
	// Backend selects the fix source: "ubx" (binary over I2C), "nmea"
	// (sentences over serial), or "sim".
	Backend string `yaml:"backend"`

	// Device and Baud apply to Backend=="nmea".
	Device string `yaml:"device"`
	Baud   uint   `yaml:"baud"`

	// I2CBus and I2CAddr apply to Backend=="ubx".
	I2CBus  string `yaml:"i2c_bus"`
	I2CAddr uint16 `yaml:"i2c_addr"`

	// FixTimeout is the per-cycle budget for producing a fix.
	FixTimeout time.Duration `yaml:"fix_timeout"`
}

type LoRaConfig struct {
	Device string `yaml:"device"`
	Baud   uint   `yaml:"baud"`

	// Mode is "transparent" (raw bytes to the radio) or "command" (AT+SEND
	// exchange). Fixed for the life of the process.
	Mode string `yaml:"mode"`

	// Timeout bounds serial reads and writes on the radio port.
	Timeout time.Duration `yaml:"timeout"`
}

type SendConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

type MetricsConfig struct {
	Enable bool   `yaml:"enable"`
	Addr   string `yaml:"addr"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return withDefaults(cfg)
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	cfg, _ := withDefaults(Config{})
	return cfg
}

func withDefaults(cfg Config) (Config, error) {
	if cfg.GPS.Backend == "" {
		cfg.GPS.Backend = "ubx"
	}
	switch cfg.GPS.Backend {
	case "ubx", "nmea", "sim":
	default:
		return Config{}, fmt.Errorf("gps.backend must be ubx, nmea or sim, got %q", cfg.GPS.Backend)
	}
	if cfg.GPS.Device == "" {
		cfg.GPS.Device = "/dev/serial0"
	}
	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 38400
	}
	if cfg.GPS.I2CBus == "" {
		cfg.GPS.I2CBus = "1"
	}
	if cfg.GPS.I2CAddr == 0 {
		cfg.GPS.I2CAddr = 0x42
	}
	if cfg.GPS.FixTimeout <= 0 {
		cfg.GPS.FixTimeout = 1 * time.Second
	}

	if cfg.LoRa.Device == "" {
		cfg.LoRa.Device = "/dev/serial0"
	}
	if cfg.LoRa.Baud == 0 {
		cfg.LoRa.Baud = 115200
	}
	if cfg.LoRa.Mode == "" {
		cfg.LoRa.Mode = "command"
	}
	if cfg.LoRa.Mode != "transparent" && cfg.LoRa.Mode != "command" {
		return Config{}, fmt.Errorf("lora.mode must be transparent or command, got %q", cfg.LoRa.Mode)
	}
	if cfg.LoRa.Timeout <= 0 {
		cfg.LoRa.Timeout = 1 * time.Second
	}

	if cfg.Send.Interval <= 0 {
		cfg.Send.Interval = 1 * time.Second
	}

	if cfg.MQTT.Enable {
		if cfg.MQTT.Broker == "" {
			cfg.MQTT.Broker = "tcp://localhost:1883"
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "baja/telemetry"
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "baja-sender"
		}
	}

	if cfg.Metrics.Enable && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9100"
	}

	return cfg, nil
}
