package mqtt

import (
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	prefix string
}

// NewRealPublisher connects to broker. A last-will message marks the service
// offline on StatusTopic if the connection drops.
func NewRealPublisher(broker, clientID, prefix string, logger *slog.Logger) (*RealPublisher, error) {
	status := StatusTopic(prefix)
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(status, "offline", QoS, Retained).
		SetOnConnectHandler(func(c paho.Client) {
			c.Publish(status, QoS, Retained, "online")
			logger.Info("mqtt connected", "broker", broker)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("mqtt connection lost", "broker", broker, "error", err)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{client: client, prefix: prefix}, nil
}

// Publish sends a retained QoS 1 message.
func (p *RealPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, QoS, Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close announces the service offline and disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Publish(StatusTopic(p.prefix), QoS, Retained, "offline").WaitTimeout(time.Second)
	p.client.Disconnect(1000)
	return nil
}
