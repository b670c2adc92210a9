// Package arithsvc serves the arithmetic operations as reverse RPC methods
// and calls them remotely.
package arithsvc

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	arith "github.com/xizhibei/go-arith"
	"github.com/xizhibei/go-arith/rrpc"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

var (
	// ErrNotFinite is replied when a result does not fit in a float64.
	ErrNotFinite = errors.New("result is not a finite number")

	// ErrOperandNotFinite is replied when a bound operand is NaN or infinite.
	ErrOperandNotFinite = errors.New("operand is not a finite number")
)

// Registrar is implemented by rrpc.Server and every transport server embedding it.
type Registrar interface {
	Register(method string, hdl *rrpc.Handler)
}

type options struct {
	timeout time.Duration
}

// Option configures Register.
type Option func(o *options)

// WithTimeout sets the handler timeout of every method. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Register registers sum, diff, mult and div on r.
func Register(r Registrar, opts ...Option) {
	o := options{
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r.Register(MethodSum, &rrpc.Handler{Method: binary(arith.Sum), Timeout: o.timeout})
	r.Register(MethodDiff, &rrpc.Handler{Method: binary(arith.Diff), Timeout: o.timeout})
	r.Register(MethodMult, &rrpc.Handler{Method: binary(arith.Mult), Timeout: o.timeout})
	r.Register(MethodDiv, &rrpc.Handler{Method: div, Timeout: o.timeout})

	zap.S().With("module", "arithsvc").Infow("Arithmetic methods registered",
		"name", arith.Name,
		"version", arith.Version,
		"methods", Methods,
	)
}

func binary(op func(a, b float64) float64) func(c rrpc.Context) {
	return func(c rrpc.Context) {
		var req Operands
		if err := c.Bind(&req); err != nil {
			c.ReplyError(rrpc.RPCStatusClientError, errors.Wrap(err, "invalid request"))
			return
		}

		if !finite(req.A, req.B) {
			c.ReplyError(rrpc.RPCStatusClientError, ErrOperandNotFinite)
			return
		}

		replyResult(c, op(req.A, req.B))
	}
}

func div(c rrpc.Context) {
	var req arith.DivInput
	if err := c.Bind(&req); err != nil {
		c.ReplyError(rrpc.RPCStatusClientError, errors.Wrap(err, "invalid request"))
		return
	}
	if !finite(req.Dividend, req.Divisor) {
		c.ReplyError(rrpc.RPCStatusClientError, ErrOperandNotFinite)
		return
	}

	q, err := arith.Div(req)
	if err != nil {
		c.ReplyError(rrpc.RPCStatusClientError, err)
		return
	}

	replyResult(c, q)
}

// finite reports whether none of xs is NaN or infinite. JSON cannot carry
// such values, but a transport binding another codec might.
func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return false
		}
	}
	return true
}

// replyResult replies 400 for overflowed results, which JSON cannot carry.
func replyResult(c rrpc.Context, x float64) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		c.ReplyError(rrpc.RPCStatusClientError, ErrNotFinite)
		return
	}
	c.ReplyOK(Result{Result: x})
}
