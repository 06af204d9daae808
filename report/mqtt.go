package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	mqtt "github.com/soypat/natiu-mqtt"
)

var errClosed = errors.New("report: closed")

// MQTT publishes each report line as one QoS 0 message. It runs on TinyGo over any connection, for instance a
// netdev TCP socket, and does not allocate once connected.
type MQTT struct {
	client *mqtt.Client
	flags  mqtt.PacketFlags
	vp     mqtt.VariablesPublish
}

// nextID moves to the next packet identifier. It is not sent at QoS 0 but the client still wants a nonzero one.
func (m *MQTT) nextID() {
	m.vp.PacketIdentifier++
	if m.vp.PacketIdentifier == 0 {
		m.vp.PacketIdentifier = 1
	}
}

// DialMQTT connects to the broker at the other end of conn.
func DialMQTT(ctx context.Context, conn io.ReadWriteCloser, clientID, topic string) (*MQTT, error) {
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 256)},
		OnPub: func(_ mqtt.Header, _ mqtt.VariablesPublish, r io.Reader) error {
			// nothing is subscribed
			return nil
		},
	})

	var vc mqtt.VariablesConnect
	vc.SetDefaultMQTT([]byte(clientID))
	err := client.Connect(ctx, conn, &vc)
	if err != nil {
		return nil, fmt.Errorf("report: could not connect to mqtt broker: %w", err)
	}

	flags, err := mqtt.NewPublishFlags(mqtt.QoS0, false, false)
	if err != nil {
		return nil, fmt.Errorf("report: invalid publish flags: %w", err)
	}
	return &MQTT{
		client: client,
		flags:  flags,
		vp:     mqtt.VariablesPublish{TopicName: []byte(topic)},
	}, nil
}

func (m *MQTT) Write(p []byte) (int, error) {
	m.nextID()
	err := m.client.PublishPayload(m.flags, m.vp, line(p))
	if err != nil {
		return 0, fmt.Errorf("report: could not publish to %q: %w", m.vp.TopicName, err)
	}
	return len(p), nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	return m.client.Disconnect(errClosed)
}
