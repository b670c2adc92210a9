package mqttjson

import (
	"context"
	"net/rpc"
	"path"

	"github.com/google/uuid"
	"github.com/xizhibei/go-arith/compressor"
	"github.com/xizhibei/go-arith/mqttadapter"
	"github.com/xizhibei/go-arith/rrpc"
	"github.com/xizhibei/go-arith/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type clientOptions struct {
	encoding  compressor.ContentEncoding
	qos       byte
	telemetry telemetry.Telemetry
}

// ClientOption configures a Client.
type ClientOption func(o *clientOptions)

// WithContentEncoding compresses request params with enc.
// Servers answer with the same encoding.
func WithContentEncoding(enc compressor.ContentEncoding) ClientOption {
	return func(o *clientOptions) {
		o.encoding = enc
	}
}

// WithQoS sets the QoS of request publications and response subscriptions.
func WithQoS(qos byte) ClientOption {
	return func(o *clientOptions) {
		o.qos = qos
	}
}

// WithTelemetry makes the client record a span for every call.
func WithTelemetry(tel telemetry.Telemetry) ClientOption {
	return func(o *clientOptions) {
		o.telemetry = tel
	}
}

// Client calls methods on remote MQTT JSON servers.
type Client struct {
	mqttClient  mqttadapter.MQTTClientAdapter
	log         *zap.SugaredLogger
	options     clientOptions
	topicPrefix string
}

// NewClient creates a client publishing under topicPrefix and asks the MQTT
// client to connect in the background.
func NewClient(client mqttadapter.MQTTClientAdapter, topicPrefix string, options ...ClientOption) *Client {
	o := clientOptions{
		encoding: compressor.ContentEncodingPlain,
		qos:      rrpc.DefaultQoS,
	}
	for _, option := range options {
		option(&o)
	}
	if o.telemetry == nil {
		o.telemetry, _ = telemetry.NewNoop()
	}

	s := Client{
		mqttClient:  client,
		topicPrefix: topicPrefix,
		options:     o,
		log:         zap.S().With("module", "rrpc.mqttjsonclient"),
	}

	client.EnsureConnected()

	return &s
}

func (s *Client) Client() mqttadapter.MQTTClientAdapter {
	return s.mqttClient
}

func (s *Client) OnConnect(cb func()) int {
	return s.mqttClient.OnConnect(cb)
}

func (s *Client) IsConnected() bool {
	return s.mqttClient.IsConnected()
}

func (s *Client) Close() error {
	s.mqttClient.Disconnect()
	return nil
}

// SetTelemetry replaces the telemetry of the client.
func (s *Client) SetTelemetry(tel telemetry.Telemetry) {
	s.options.telemetry = tel
}

func (s *Client) createRPCClient(ctx context.Context, targetID string) (*rpc.Client, error) {
	id := uuid.NewString()
	requestTopic := path.Join(s.topicPrefix, targetID, "request", id)
	responseTopic := path.Join(s.topicPrefix, targetID, "response", id)
	return Dial(ctx, requestTopic, responseTopic, s.mqttClient, s.options.qos, s.options.encoding)
}

// Call invokes serviceMethod on targetID and decodes the result into reply.
// It returns when the response arrives or ctx is done. Errors replied by the
// server are returned as rpc.ServerError holding the remote message.
func (s *Client) Call(ctx context.Context, targetID, serviceMethod string, args interface{}, reply interface{}) (err error) {
	var span trace.Span
	ctx, span = s.options.telemetry.StartSpan(ctx, "RRPC.Client.Call "+serviceMethod,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.method", serviceMethod),
			attribute.String("rpc.target", targetID),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rpcClient, err := s.createRPCClient(ctx, targetID)
	if err != nil {
		return err
	}
	defer rpcClient.Close()

	call := rpcClient.Go(serviceMethod, args, reply, make(chan *rpc.Call, 1))

	select {
	case <-call.Done:
		return call.Error
	case <-ctx.Done():
		return ctx.Err()
	}
}
