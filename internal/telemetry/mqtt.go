// Package telemetry mirrors transmitted packets to a local MQTT broker so a
// ground display or recorder can follow the uplink without a radio receiver.
package telemetry

import (
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Mirror publishes each encoded packet to one MQTT topic. Publish failures
// are logged, never propagated: the radio uplink is the primary channel and
// must not stall on a broker hiccup.
type Mirror struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger
}

func NewMirror(broker, clientID, topic string, log *slog.Logger) (*Mirror, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	log.Info("telemetry mirror connected", "broker", broker, "topic", topic)
	return &Mirror{client: client, topic: topic, log: log}, nil
}

func (m *Mirror) Publish(payload []byte) {
	token := m.client.Publish(m.topic, 0, true, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		m.log.Warn("mqtt publish failed", "err", err)
	}
}

func (m *Mirror) Close() {
	m.client.Disconnect(250)
}
