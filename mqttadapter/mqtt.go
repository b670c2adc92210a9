package mqttadapter

import (
	"context"
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const defaultReconnectDelay = 10 * time.Second

// MQTTClientAdapterImpl represents an MQTT client.
type MQTTClientAdapterImpl struct {
	client        mqtt.Client
	clientOptions *ClientOptions

	subscribeMap sync.Map

	callbackMu                 sync.Mutex
	onConnectCallbackCount     int
	onConnectCallbacks         map[int]OnConnectCallback
	onConnectLostCallbackCount int
	onConnectLostCallbacks     map[int]OnConnectLostCallback

	stopRetryConnect atomic.Bool
	printableURL     string

	log *zap.SugaredLogger
}

// New creates a new MQTT client with the specified URI, client ID, and options.
// The URI should be in the format "scheme://[user:pass@]host:port", where scheme can be "tcp", "ssl" or "ws".
// The client is not connected; call Connect or EnsureConnected.
func New(uri, clientID string, options ...Option) (MQTTClientAdapter, error) {
	server, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "parse mqtt uri")
	}

	log := zap.S().With("module", "mqttadapter")

	clonedServer := *server
	clonedServer.User = nil
	client := &MQTTClientAdapterImpl{
		log:                    log,
		printableURL:           clonedServer.String(),
		onConnectCallbacks:     make(map[int]OnConnectCallback),
		onConnectLostCallbacks: make(map[int]OnConnectLostCallback),
	}

	mqttClientOptions := mqtt.NewClientOptions().
		AddBroker(uri).
		SetClientID(clientID).
		SetKeepAlive(60 * time.Second).
		SetTLSConfig(&tls.Config{}).
		SetDefaultPublishHandler(func(c mqtt.Client, m mqtt.Message) {
			log.Infof("DefaultPublishHandler %s len=%d", m.Topic(), len(m.Payload()))
		}).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Infof("Connected %s", client.printableURL)
			for _, cb := range client.connectCallbacks() {
				go cb()
			}
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Infof("Connection lost %s %v", client.printableURL, err)
			for _, cb := range client.connectLostCallbacks() {
				go cb(err)
			}
		})

	if server.User != nil {
		mqttClientOptions.SetUsername(server.User.Username())
		if pass, ok := server.User.Password(); ok {
			mqttClientOptions.SetPassword(pass)
		}
	}

	clientOptions := &ClientOptions{
		ClientOptions:  mqttClientOptions,
		reconnectDelay: defaultReconnectDelay,
	}

	for _, o := range options {
		o(clientOptions)
	}

	client.client = mqtt.NewClient(clientOptions.ClientOptions)

	if clientOptions.enableStatus {
		client.OnConnect(func() {
			client.PublishBytes(
				context.Background(),
				clientOptions.onlineTopic,
				1,
				true,
				clientOptions.onlinePayload,
			)
		})
	}

	if clientOptions.enableDebug {
		mqtt.DEBUG = stdlog.New(os.Stderr, "DEBUG - ", stdlog.LstdFlags)
		mqtt.CRITICAL = stdlog.New(os.Stderr, "CRITICAL - ", stdlog.LstdFlags)
		mqtt.WARN = stdlog.New(os.Stderr, "WARN - ", stdlog.LstdFlags)
		mqtt.ERROR = stdlog.New(os.Stderr, "ERROR - ", stdlog.LstdFlags)
	}

	client.clientOptions = clientOptions

	return client, nil
}

// GetMqttClient returns the MQTT client associated with the Client instance.
func (s *MQTTClientAdapterImpl) GetMqttClient() mqtt.Client {
	return s.client
}

func (s *MQTTClientAdapterImpl) GetClientOptions() *mqtt.ClientOptions {
	return s.clientOptions.ClientOptions
}

func (s *MQTTClientAdapterImpl) connectCallbacks() []OnConnectCallback {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	cbs := make([]OnConnectCallback, 0, len(s.onConnectCallbacks))
	for _, cb := range s.onConnectCallbacks {
		cbs = append(cbs, cb)
	}
	return cbs
}

func (s *MQTTClientAdapterImpl) connectLostCallbacks() []OnConnectLostCallback {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	cbs := make([]OnConnectLostCallback, 0, len(s.onConnectLostCallbacks))
	for _, cb := range s.onConnectLostCallbacks {
		cbs = append(cbs, cb)
	}
	return cbs
}

// OnConnectOnce registers a callback function to be executed once the MQTT client is connected.
// If the client is already connected, the callback function is executed immediately.
func (s *MQTTClientAdapterImpl) OnConnectOnce(cb OnConnectCallback) {
	if s.client.IsConnected() {
		cb()
		return
	}

	var once sync.Once
	var subID int
	subID = s.OnConnect(func() {
		once.Do(func() {
			s.OffConnect(subID)
			cb()
		})
	})
}

// OnConnect registers a callback function to be called when the MQTT client is connected.
// The callback function will be invoked immediately if the client is already connected.
// The function returns an index that can be used to unregister the callback with OffConnect.
func (s *MQTTClientAdapterImpl) OnConnect(cb OnConnectCallback) int {
	if s.client.IsConnected() {
		cb()
	}

	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	idx := s.onConnectCallbackCount
	s.onConnectCallbackCount++
	s.onConnectCallbacks[idx] = cb
	return idx
}

// OffConnect removes the onConnect callback function associated with the given index.
func (s *MQTTClientAdapterImpl) OffConnect(idx int) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	delete(s.onConnectCallbacks, idx)
}

// OnConnectLost registers a callback function to be called when the MQTT client loses connection.
// Returns the index of the registered callback.
func (s *MQTTClientAdapterImpl) OnConnectLost(cb OnConnectLostCallback) int {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	idx := s.onConnectLostCallbackCount
	s.onConnectLostCallbackCount++
	s.onConnectLostCallbacks[idx] = cb
	return idx
}

// OffConnectLost removes the callback function associated with the given index.
func (s *MQTTClientAdapterImpl) OffConnectLost(idx int) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	delete(s.onConnectLostCallbacks, idx)
}

func (s *MQTTClientAdapterImpl) Connect(ctx context.Context) error {
	return waitToken(ctx, s.client.Connect())
}

// EnsureConnected ensures that the MQTT client is connected.
// It starts a goroutine that keeps connecting until it succeeds or Disconnect is called.
func (s *MQTTClientAdapterImpl) EnsureConnected() {
	go s.connectAndWaitForSuccess()
}

func (s *MQTTClientAdapterImpl) connectAndWaitForSuccess() {
	ctx := context.Background()
	for !s.stopRetryConnect.Load() {
		if s.IsConnected() {
			s.log.Infof("mqtt is connected %s", s.printableURL)
			return
		}
		err := s.Connect(ctx)
		if err != nil {
			s.log.Errorf("Connect failed %s %v", s.printableURL, err)
			time.Sleep(s.clientOptions.reconnectDelay)
			s.log.Infof("Try reconnect %s", s.printableURL)
			continue
		}
		return
	}
	s.log.Infof("Stop retry connect %s", s.printableURL)
}

// Disconnect stops the retry loop and disconnects from the broker,
// waiting at most one second for in-flight work.
func (s *MQTTClientAdapterImpl) Disconnect() {
	s.stopRetryConnect.Store(true)
	s.client.Disconnect(1000)
}

// IsConnected reports whether the connection to the broker is open.
func (s *MQTTClientAdapterImpl) IsConnected() bool {
	return s.client.IsConnectionOpen()
}

func (s *MQTTClientAdapterImpl) wrapCallback(onMsg MessageCallback) mqtt.MessageHandler {
	return func(c mqtt.Client, m mqtt.Message) {
		onMsg(s, m)
	}
}

// Subscribe subscribes to a topic and registers onMsg to handle incoming messages.
// It does not wait for the broker to acknowledge the subscription.
func (s *MQTTClientAdapterImpl) Subscribe(ctx context.Context, topic string, qos byte, onMsg MessageCallback) {
	s.log.Debugf("Subscribe topic=%s qos=%d", topic, qos)

	defer s.subscribeMap.Store(topic, true)

	s.client.Subscribe(topic, qos, s.wrapCallback(onMsg))
}

// SubscribeWait subscribes to a topic and waits for the subscription to complete
// or for ctx to be done.
func (s *MQTTClientAdapterImpl) SubscribeWait(ctx context.Context, topic string, qos byte, onMsg MessageCallback) error {
	s.log.Debugf("Subscribe topic=%s qos=%d", topic, qos)

	defer s.subscribeMap.Store(topic, true)

	return waitToken(ctx, s.client.Subscribe(topic, qos, s.wrapCallback(onMsg)))
}

// UnsubscribeAll unsubscribes from every topic subscribed through this adapter.
func (s *MQTTClientAdapterImpl) UnsubscribeAll(ctx context.Context) {
	topics := []string{}
	s.subscribeMap.Range(func(key interface{}, value interface{}) bool {
		topics = append(topics, key.(string))
		return true
	})
	if len(topics) == 0 {
		return
	}

	defer func() {
		for _, topic := range topics {
			s.subscribeMap.Delete(topic)
		}
	}()

	s.client.Unsubscribe(topics...)
}

// Unsubscribe unsubscribes from the specified MQTT topic.
func (s *MQTTClientAdapterImpl) Unsubscribe(ctx context.Context, topic string) {
	s.log.Debugf("Unsubscribe topic=%s", topic)

	defer s.subscribeMap.Delete(topic)

	s.client.Unsubscribe(topic)
}

// UnsubscribeWait unsubscribes from a topic and waits for the operation to complete or the context to be canceled.
func (s *MQTTClientAdapterImpl) UnsubscribeWait(ctx context.Context, topic string) error {
	defer s.subscribeMap.Delete(topic)

	return waitToken(ctx, s.client.Unsubscribe(topic))
}

// PublishBytes publishes the given data to the specified MQTT topic without waiting.
func (s *MQTTClientAdapterImpl) PublishBytes(ctx context.Context, topic string, qos byte, retained bool, data []byte) {
	s.client.Publish(topic, qos, retained, data)
}

// PublishBytesWait publishes the given data and waits for the operation to complete or ctx to be done.
func (s *MQTTClientAdapterImpl) PublishBytesWait(ctx context.Context, topic string, qos byte, retained bool, data []byte) error {
	return waitToken(ctx, s.client.Publish(topic, qos, retained, data))
}

// PublishObject publishes payload encoded as JSON without waiting.
func (s *MQTTClientAdapterImpl) PublishObject(ctx context.Context, topic string, qos byte, retained bool, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	s.client.Publish(topic, qos, retained, data)
	return nil
}

func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
		return token.Error()
	}
}
