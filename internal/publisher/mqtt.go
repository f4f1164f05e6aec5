package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"remo-monitor/internal/models"
)

// ReadingPublisher fans ingested readings out to downstream consumers.
type ReadingPublisher interface {
	Publish(ctx context.Context, readings []models.SensorReading) error
	Close()
}

type Config struct {
	Broker      string
	Port        int
	ClientID    string
	TopicPrefix string
}

type mqttPublisher struct {
	client      mqtt.Client
	topicPrefix string
	logger      *slog.Logger
}

// NewMQTTPublisher connects to the broker. The paho client keeps reconnecting in the background
// after a successful first connect.
func NewMQTTPublisher(ctx context.Context, cfg Config, logger *slog.Logger) (ReadingPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if err := waitToken(ctx, token); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &mqttPublisher{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
		logger:      logger,
	}, nil
}

func (p *mqttPublisher) Publish(ctx context.Context, readings []models.SensorReading) error {
	var errs []error
	for _, reading := range readings {
		payload, err := json.Marshal(reading)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal reading %s: %w", reading.DeviceID, err))
			continue
		}

		topic := Topic(p.topicPrefix, reading.DeviceID)
		token := p.client.Publish(topic, 0, false, payload)
		if err := waitToken(ctx, token); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(250)
}

func Topic(prefix, deviceID string) string {
	return prefix + "/" + deviceID
}

func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() ReadingPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, []models.SensorReading) error { return nil }

func (noopPublisher) Close() {}
