package wsjson

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/xizhibei/go-arith/rrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// WSContext is the channel context of a request read from a WebSocket connection.
// Replies go back on the connection the request came from.
type WSContext struct {
	req     *Request
	service *Server
	conn    *websocket.Conn
	ctx     context.Context
}

func newWSContext(req *Request, service *Server, conn *websocket.Conn) *WSContext {
	ctx := context.Background()
	if req.Metadata != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(req.Metadata))
	}
	return &WSContext{
		req:     req,
		service: service,
		conn:    conn,
		ctx:     ctx,
	}
}

func (c *WSContext) ID() *rrpc.ID {
	return &rrpc.ID{Num: c.req.ID}
}

func (c *WSContext) Method() string {
	return c.req.Method
}

func (c *WSContext) Ctx() context.Context {
	return c.ctx
}

func (c *WSContext) ReplyDesc() string {
	return c.service.host + " " + c.Method() + "#" + c.ID().String()
}

func (c *WSContext) Bind(request interface{}) error {
	if err := json.Unmarshal(c.req.Params, request); err != nil {
		return err
	}
	return c.service.validator.Struct(request)
}

func (c *WSContext) Reply(res *rrpc.Response) bool {
	if res.Error != nil {
		c.service.reply(c.conn, c.req.makeErrResponse(res.Status, res.Error))
		return true
	}
	c.service.reply(c.conn, c.req.makeOKResponse(res.Result))
	return true
}
