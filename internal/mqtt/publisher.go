// Package mqtt publishes validated fixes as JSON to an MQTT broker so
// downstream consumers (dashboards, loggers) can subscribe without
// touching the receiver.
package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"gpsfeed/internal/gps"
)

// client is the slice of paho's API the publisher needs; tests inject
// a fake.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	client client
	topic  string
}

// NewPublisher connects to the broker and returns a publisher for the
// given topic.
func NewPublisher(broker, clientID, topic string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	c := paho.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return &Publisher{client: c, topic: topic}, nil
}

// Publish sends one fix snapshot, retained so late subscribers see the
// latest position immediately.
func (p *Publisher) Publish(snap gps.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal fix: %w", err)
	}
	token := p.client.Publish(p.topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
