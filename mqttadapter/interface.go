// Package mqttadapter wraps the paho MQTT client with connection callbacks
// and context aware subscribe and publish helpers.
package mqttadapter

//go:generate mockgen -source=interface.go -destination=mock/mock_mqttadapter.go
//go:generate mockgen -package mock_mqtt -destination=mock/mqtt/mock_mqtt.go github.com/eclipse/paho.mqtt.golang Client,Token,Message

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Message is a received MQTT message.
type Message = mqtt.Message

// MessageCallback handles a message received on a subscription.
type MessageCallback func(MQTTClientAdapter, Message)

// OnConnectCallback runs in its own goroutine after each successful connect.
type OnConnectCallback func()

// OnConnectLostCallback runs in its own goroutine when the broker connection drops.
type OnConnectLostCallback func(err error)

// MQTTClientAdapter is the slice of MQTT the RPC transports need.
// Callbacks are keyed by the index returned on registration.
type MQTTClientAdapter interface {
	GetMqttClient() mqtt.Client
	GetClientOptions() *mqtt.ClientOptions

	// OnConnectOnce runs cb after the next connect only.
	OnConnectOnce(cb OnConnectCallback)
	OnConnect(cb OnConnectCallback) int
	OffConnect(idx int)
	OnConnectLost(cb OnConnectLostCallback) int
	OffConnectLost(idx int)

	// Connect blocks until connected or ctx is done.
	Connect(ctx context.Context) error
	// EnsureConnected retries Connect in the background until one succeeds.
	EnsureConnected()
	Disconnect()
	IsConnected() bool

	// Subscribe and Unsubscribe do not wait for the broker. The Wait variants
	// block until it acknowledges or ctx is done.
	Subscribe(ctx context.Context, topic string, qos byte, onMsg MessageCallback)
	SubscribeWait(ctx context.Context, topic string, qos byte, onMsg MessageCallback) error
	Unsubscribe(ctx context.Context, topic string)
	UnsubscribeWait(ctx context.Context, topic string) error
	// UnsubscribeAll drops every subscription made through this adapter.
	UnsubscribeAll(ctx context.Context)

	// PublishBytes follows the same fire and forget rule as Subscribe.
	PublishBytes(ctx context.Context, topic string, qos byte, retained bool, data []byte)
	PublishBytesWait(ctx context.Context, topic string, qos byte, retained bool, data []byte) error
	// PublishObject marshals payload to JSON and publishes it without waiting.
	// Only the marshal error is returned.
	PublishObject(ctx context.Context, topic string, qos byte, retained bool, payload any) error
}
