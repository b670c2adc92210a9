package mqttjson

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/xizhibei/go-arith/compressor"
	"github.com/xizhibei/go-arith/mqttadapter"
	"github.com/xizhibei/go-arith/rrpc"
	"go.uber.org/zap"
)

var (
	// ErrRetainedMessage is returned to callers that publish requests with the retain flag.
	ErrRetainedMessage = errors.New("[RRPC] retain message is not allowed, please set retained=false")
)

// Server answers reverse RPC requests arriving over MQTT.
type Server struct {
	*rrpc.Server
	iotClient  mqttadapter.MQTTClientAdapter
	log        *zap.SugaredLogger
	validator  *validator.Validate
	compressor *compressor.CompressorManager

	subscribeTopic string
	qos            byte
}

var _ rrpc.ReverseRPC = (*Server)(nil)

// NewServer creates a server for deviceID that listens on
// <topicPrefix>/<deviceID>/request/+. The subscription is made on every
// (re)connect, and the client is asked to connect in the background.
func NewServer(client mqttadapter.MQTTClientAdapter, topicPrefix, deviceID string, validator *validator.Validate, options ...rrpc.ServerOption) *Server {
	s := Server{
		Server:         rrpc.NewServer(options...),
		iotClient:      client,
		subscribeTopic: path.Join(topicPrefix, deviceID, "request", "+"),
		qos:            rrpc.DefaultQoS,
		log:            zap.S().With("module", "rrpc.mqttjsonserver"),
		validator:      validator,
		compressor:     compressor.NewCompressorManager(),
	}

	client.EnsureConnected()

	client.OnConnect(func() {
		s.initReceive()
	})
	return &s
}

// Close stops the worker pool and disconnects the MQTT client.
func (s *Server) Close() error {
	s.iotClient.Unsubscribe(context.Background(), s.subscribeTopic)
	s.iotClient.Disconnect()
	return s.Server.Close()
}

// IsConnected reports whether the MQTT client is connected to the broker.
func (s *Server) IsConnected() bool {
	return s.iotClient.IsConnected()
}

type request struct {
	Topic string
	Request
}

// ReplyTopic replaces the "request" segment of the request topic with "response".
func (r *request) ReplyTopic() string {
	return strings.Replace(r.Topic, "/request/", "/response/", 1)
}

func (r *request) newResponse() *response {
	return &response{
		Topic: r.ReplyTopic(),
		Response: Response{
			ID:     r.ID,
			Method: r.Method,
		},
	}
}

func (r *request) makeOKResponse(cm *compressor.CompressorManager, x interface{}) (*response, error) {
	data, err := encodeBody(cm, r.Encoding, x)
	if err != nil {
		return nil, err
	}

	res := r.newResponse()
	res.Status = rrpc.RPCStatusOK
	res.Encoding = r.Encoding
	res.Data = data
	return res, nil
}

func (r *request) makeErrResponse(status int, err error) *response {
	res := r.newResponse()
	res.Status = status
	res.Data, _ = json.Marshal(errorBody{Message: err.Error()})
	return res
}

type response struct {
	Topic string
	Response
}

func (s *Server) reply(res *response) {
	data, err := json.Marshal(res.Response)
	if err != nil {
		s.log.Errorf("Marshal response %v", err)
		return
	}
	s.log.Debugf("Response to topic %s, method %s size %d", res.Topic, res.Method, len(data))
	s.iotClient.PublishBytes(context.Background(), res.Topic, s.qos, false, data)
}

func (s *Server) initReceive() {
	s.iotClient.Subscribe(context.Background(), s.subscribeTopic, s.qos, func(client mqttadapter.MQTTClientAdapter, m mqttadapter.Message) {
		req := request{
			Topic: m.Topic(),
		}

		if m.Retained() {
			s.log.Errorf("Retained message from %s, ignore", m.Topic())
			s.reply(req.makeErrResponse(rrpc.RPCStatusClientError, ErrRetainedMessage))
			return
		}

		if err := json.Unmarshal(m.Payload(), &req.Request); err != nil {
			s.log.Errorf("Parse json %v", err)
			s.reply(req.makeErrResponse(rrpc.RPCStatusClientError, err))
			return
		}

		s.log.Debugf("Request from topic %s, method %s", m.Topic(), req.Method)

		mqttCtx := newMQTTContext(&req, s, s.validator)
		s.Server.Call(rrpc.NewRequestContext(mqttCtx.Ctx(), mqttCtx))
	})
}
