package mqttjson

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/xizhibei/go-arith/rrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// MQTTContext represents the context of an MQTT request.
type MQTTContext struct {
	req       *request
	service   *Server
	validator *validator.Validate
	ctx       context.Context
}

// newMQTTContext creates the channel context of req.
// Trace context found in the request metadata becomes the parent of the call.
func newMQTTContext(req *request, service *Server, validator *validator.Validate) *MQTTContext {
	ctx := context.Background()
	if req.Metadata != nil {
		propagator := otel.GetTextMapPropagator()
		ctx = propagator.Extract(ctx, propagation.MapCarrier(req.Metadata))
	}
	return &MQTTContext{
		req:       req,
		service:   service,
		validator: validator,
		ctx:       ctx,
	}
}

// ID returns the ID of the MQTTContext.
func (c *MQTTContext) ID() *rrpc.ID {
	return &rrpc.ID{Num: c.req.ID}
}

// ReplyDesc returns the reply topic for the MQTTContext.
func (c *MQTTContext) ReplyDesc() string {
	return c.req.ReplyTopic()
}

func (c *MQTTContext) Method() string {
	return c.req.Method
}

func (c *MQTTContext) Ctx() context.Context {
	return c.ctx
}

// Bind decodes the request params into request, uncompressing them first
// when needed, and validates the result.
func (c *MQTTContext) Bind(request interface{}) error {
	if err := decodeBody(c.service.compressor, c.req.Encoding, c.req.Params, request); err != nil {
		return err
	}
	return c.validator.Struct(request)
}

// Reply publishes res on the response topic.
func (c *MQTTContext) Reply(res *rrpc.Response) bool {
	if res.Error != nil {
		c.service.reply(c.req.makeErrResponse(res.Status, res.Error))
		return true
	}

	out, err := c.req.makeOKResponse(c.service.compressor, res.Result)
	if err != nil {
		c.service.log.Errorf("Encode response of %s: %v", c.req.Method, err)
		c.service.reply(c.req.makeErrResponse(rrpc.RPCStatusServerError, err))
		return true
	}
	c.service.reply(out)
	return true
}
