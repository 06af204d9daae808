//go:build !tinygo

package report

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const pahoTimeout = 10 * time.Second

// Paho publishes each report line as one QoS 0 message through the Eclipse Paho client, reconnecting on its own when
// the broker goes away. It is meant for hosts.
type Paho struct {
	client paho.Client
	topic  string
}

// DialPaho connects to broker, an URL such as tcp://localhost:1883.
func DialPaho(broker, clientID, topic string) (*Paho, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(pahoTimeout).
		SetAutoReconnect(true)
	client := paho.NewClient(opts)

	tok := client.Connect()
	if !wait(tok) {
		return nil, fmt.Errorf("report: timeout connecting to %s", broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("report: could not connect to %s: %w", broker, err)
	}
	return &Paho{client: client, topic: topic}, nil
}

func (p *Paho) Write(b []byte) (int, error) {
	tok := p.client.Publish(p.topic, 0, false, line(b))
	if !wait(tok) {
		return 0, fmt.Errorf("report: timeout publishing to %q", p.topic)
	}
	if err := tok.Error(); err != nil {
		return 0, fmt.Errorf("report: could not publish to %q: %w", p.topic, err)
	}
	return len(b), nil
}

// wait reports whether tok completed within pahoTimeout. Token.WaitTimeout is not used: it holds the token lock while
// waiting, so a failing flow cannot record its error until the timeout expires.
func wait(tok paho.Token) bool {
	done := make(chan struct{})
	go func() {
		tok.Wait()
		close(done)
	}()
	t := time.NewTimer(pahoTimeout)
	defer t.Stop()
	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}

// Close disconnects, giving in-flight messages a moment to go out.
func (p *Paho) Close() error {
	p.client.Disconnect(250)
	return nil
}
