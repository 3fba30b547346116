package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
)

// ErrMQTTTimeout is returned when the broker does not acknowledge in time.
var ErrMQTTTimeout = errors.New("mqtt timeout")

// mqttClient is the part of paho.Client the publisher uses.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type mqttConnector interface {
	mqttClient
	Connect() paho.Token
}

// MQTTConfig configures the MQTT publisher.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	// Retained lists routing keys whose last message the broker keeps, so
	// displays that connect later receive the current state immediately.
	Retained []string
}

// MQTTPublisher publishes each routing key to "<prefix>/<key with dots as slashes>".
type MQTTPublisher struct {
	client   mqttClient
	prefix   string
	retained map[string]bool
	logger   *slog.Logger
}

// NewMQTTPublisher connects to cfg.Broker with automatic reconnection.
func NewMQTTPublisher(cfg MQTTConfig, logger *slog.Logger) (*MQTTPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	if err := connectMQTT(client, cfg.Broker, mqttConnectTimeout); err != nil {
		return nil, err
	}

	p := newMQTTPublisher(client, cfg, logger)
	p.logger.Info("mqtt publisher connected", "broker", cfg.Broker, "prefix", p.prefix)
	return p, nil
}

// connectMQTT waits for the first connection. On failure the client is
// disconnected so the connect-retry loop stops.
func connectMQTT(client mqttConnector, broker string, timeout time.Duration) error {
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		client.Disconnect(0)
		return fmt.Errorf("connect to %s: %w", broker, ErrMQTTTimeout)
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("connect to %s: %w", broker, err)
	}
	return nil
}

func newMQTTPublisher(client mqttClient, cfg MQTTConfig, logger *slog.Logger) *MQTTPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	retained := make(map[string]bool, len(cfg.Retained))
	for _, key := range cfg.Retained {
		retained[key] = true
	}
	return &MQTTPublisher{
		client:   client,
		prefix:   strings.Trim(cfg.TopicPrefix, "/"),
		retained: retained,
		logger:   logger,
	}
}

// Topic returns the MQTT topic for a routing key.
func (p *MQTTPublisher) Topic(routingKey string) string {
	topic := strings.ReplaceAll(routingKey, ".", "/")
	if p.prefix == "" {
		return topic
	}
	return p.prefix + "/" + topic
}

// Publish sends at QoS 1 and waits for the broker acknowledgement.
func (p *MQTTPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	topic := p.Topic(routingKey)
	token := p.client.Publish(topic, 1, p.retained[routingKey], payload)

	timeout := mqttPublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt publish %s: %w", topic, ErrMQTTTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}

	p.logger.Debug("mqtt message published", "topic", topic, "retained", p.retained[routingKey])
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
