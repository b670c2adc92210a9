package rrpc

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

// ID represents an identifier with a numeric value and a string value.
type ID struct {
	Num uint64 // Num is the numeric value of the identifier.
	Str string // Str is the string value of the identifier.
}

// String returns the string representation of the ID.
// If the ID has a non-empty string representation, it returns the string representation.
// Otherwise, it returns the numeric representation of the ID as a decimal string.
func (id *ID) String() string {
	if id.Str != "" {
		return id.Str
	}
	return strconv.FormatUint(id.Num, 10)
}

// Response represents a response message.
// Result holds the response data.
// Error holds any error that occurred during the request.
// Status holds the status code of the response.
type Response struct {
	Result interface{}
	Error  error
	Status int
}

// ChannelContext is the part of a request context a transport has to provide.
type ChannelContext interface {
	// ID returns the unique identifier of the request.
	ID() *ID

	// Method returns the name of the RPC method.
	Method() string

	// Ctx returns the context.Context the request was received with.
	Ctx() context.Context

	// ReplyDesc returns a human readable description of where the reply goes.
	ReplyDesc() string

	// Bind decodes and validates the request params into request.
	Bind(request interface{}) error

	// Reply writes the response to the transport.
	Reply(res *Response) bool
}

// Context represents the context of a single reverse RPC request.
type Context interface {
	ChannelContext

	// ReplyOK sends a successful response message with the given data.
	// It returns true if the response was sent, false if a reply was already sent.
	ReplyOK(data interface{}) bool

	// ReplyError sends an error response message with the given status and error.
	// It returns true if the response was sent, false if a reply was already sent.
	ReplyError(status int, err error) bool

	// GetResponse returns the response that was sent, or nil.
	GetResponse() *Response

	// PrometheusLabels returns the Prometheus labels associated with the request.
	PrometheusLabels() prometheus.Labels
}

// RequestContext implements Context on top of a transport ChannelContext.
// Only the first reply reaches the transport.
type RequestContext struct {
	ChannelContext

	ctx     context.Context
	res     *Response
	resMu   sync.Mutex
	replied atomic.Bool
}

// NewRequestContext wraps cc. If ctx is nil, the context of cc is used.
func NewRequestContext(ctx context.Context, cc ChannelContext) *RequestContext {
	if ctx == nil {
		ctx = cc.Ctx()
	}
	return &RequestContext{
		ChannelContext: cc,
		ctx:            ctx,
	}
}

// Ctx returns the context associated with the request.
// If no context is set, it returns the background context.
func (c *RequestContext) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// ctxSetter is implemented by contexts whose request context can be replaced,
// so handlers see the span started by Server.Call.
type ctxSetter interface {
	setCtx(ctx context.Context)
}

func (c *RequestContext) setCtx(ctx context.Context) {
	c.ctx = ctx
}

// Reply sends a response to the client.
// If the reply has already been sent, it returns false.
func (c *RequestContext) Reply(res *Response) bool {
	if !c.replied.CompareAndSwap(false, true) {
		return false
	}

	c.resMu.Lock()
	c.res = res
	c.resMu.Unlock()

	return c.ChannelContext.Reply(res)
}

// ReplyOK sends a successful response with the given data.
func (c *RequestContext) ReplyOK(data interface{}) bool {
	return c.Reply(&Response{
		Status: RPCStatusOK,
		Result: data,
	})
}

// ReplyError sends an error response with the specified status code and error.
func (c *RequestContext) ReplyError(status int, err error) bool {
	return c.Reply(&Response{
		Status: status,
		Error:  err,
	})
}

// GetResponse returns the response associated with the context.
func (c *RequestContext) GetResponse() *Response {
	c.resMu.Lock()
	defer c.resMu.Unlock()
	return c.res
}

// PrometheusLabels returns a fresh label set for the request.
func (c *RequestContext) PrometheusLabels() prometheus.Labels {
	return prometheus.Labels{
		"method": c.Method(),
	}
}

// Handler represents a reverse RPC handler.
// Method is the function to be executed when handling the request.
// Timeout is the maximum duration allowed for the request to complete.
type Handler struct {
	Method  func(c Context)
	Timeout time.Duration
}
