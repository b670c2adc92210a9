package mqttadapter

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// ClientOptions is the paho configuration of an adapter plus the settings
// the adapter acts on itself.
type ClientOptions struct {
	*mqtt.ClientOptions
	enableStatus   bool
	enableDebug    bool
	onlineTopic    string
	onlinePayload  []byte
	reconnectDelay time.Duration
}

// Option configures a client created by New.
type Option func(o *ClientOptions)

// paho turns a setter on the underlying paho options into an Option.
func paho(set func(p *mqtt.ClientOptions)) Option {
	return func(o *ClientOptions) {
		set(o.ClientOptions)
	}
}

// WithDebug routes the paho internal logs to the adapter logger.
func WithDebug(debug bool) Option {
	return func(o *ClientOptions) {
		o.enableDebug = debug
	}
}

// WithUserPass overrides credentials given in the broker URI.
func WithUserPass(user, pass string) Option {
	return paho(func(p *mqtt.ClientOptions) {
		p.SetUsername(user)
		p.SetPassword(pass)
	})
}

// WithClientID replaces the client ID passed to New.
func WithClientID(clientID string) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetClientID(clientID) })
}

// WithKeepAlive sets the ping period. New uses one minute.
func WithKeepAlive(keepalive time.Duration) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetKeepAlive(keepalive) })
}

// WithConnectRetryInterval lets paho retry the first connect every d.
func WithConnectRetryInterval(d time.Duration) Option {
	return paho(func(p *mqtt.ClientOptions) {
		p.SetConnectRetry(true)
		p.SetConnectRetryInterval(d)
	})
}

// WithProtocolVersion pins the MQTT version, 3 for 3.1 and 4 for 3.1.1.
func WithProtocolVersion(pv uint) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetProtocolVersion(pv) })
}

// WithStore keeps QoS 1 and 2 messages in store while they are in flight.
func WithStore(store mqtt.Store) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetStore(store) })
}

// WithTLSConfig is used for ssl:// and wss:// brokers.
func WithTLSConfig(cfg *tls.Config) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetTLSConfig(cfg) })
}

// WithWill registers a last will with a text payload.
func WithWill(topic string, payload string, qos byte, retained bool) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetWill(topic, payload, qos, retained) })
}

// WithStatus announces presence: onlinePayload is published retained on
// onlineTopic after every connect, and offlinePayload becomes the retained
// will on offlineTopic.
func WithStatus(
	onlineTopic string, onlinePayload []byte,
	offlineTopic string, offlinePayload []byte,
) Option {
	return func(o *ClientOptions) {
		o.enableStatus = true
		o.onlineTopic = onlineTopic
		o.onlinePayload = onlinePayload
		o.SetBinaryWill(offlineTopic, offlinePayload, 1, true)
	}
}

// WithFileStore keeps in-flight messages in files under os.TempDir()/dir.
// An empty dir gets a fresh UUID so that two clients never share a store.
func WithFileStore(dir string) Option {
	if dir == "" {
		dir = uuid.NewString()
	}
	return paho(func(p *mqtt.ClientOptions) {
		p.SetStore(mqtt.NewFileStore(filepath.Join(os.TempDir(), dir)))
	})
}

// WithMaxReconnectInterval caps the backoff of paho auto reconnect.
func WithMaxReconnectInterval(interval time.Duration) Option {
	return paho(func(p *mqtt.ClientOptions) { p.SetMaxReconnectInterval(interval) })
}

// WithReconnectDelay sets how long EnsureConnected waits between failed attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(o *ClientOptions) {
		o.reconnectDelay = d
	}
}
