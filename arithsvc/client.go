package arithsvc

import (
	"context"
	"net/rpc"

	"github.com/cockroachdb/errors"
	arith "github.com/xizhibei/go-arith"
)

// Caller performs one remote call. mqttjson.Client implements it.
type Caller interface {
	Call(ctx context.Context, targetID, serviceMethod string, args interface{}, reply interface{}) error
}

// Client calls the arithmetic methods of one remote target.
type Client struct {
	caller   Caller
	targetID string
}

// NewClient returns a client calling targetID through caller.
func NewClient(caller Caller, targetID string) *Client {
	return &Client{
		caller:   caller,
		targetID: targetID,
	}
}

// Sum returns a + b computed by the target.
func (c *Client) Sum(ctx context.Context, a, b float64) (float64, error) {
	return c.call(ctx, MethodSum, Operands{A: a, B: b})
}

// Diff returns a - b computed by the target.
func (c *Client) Diff(ctx context.Context, a, b float64) (float64, error) {
	return c.call(ctx, MethodDiff, Operands{A: a, B: b})
}

// Mult returns a * b computed by the target.
func (c *Client) Mult(ctx context.Context, a, b float64) (float64, error) {
	return c.call(ctx, MethodMult, Operands{A: a, B: b})
}

// Div returns arith.ErrDivisionByZero when the remote side rejects a zero divisor.
func (c *Client) Div(ctx context.Context, in arith.DivInput) (float64, error) {
	return c.call(ctx, MethodDiv, in)
}

func (c *Client) call(ctx context.Context, method string, args interface{}) (float64, error) {
	var res Result
	if err := c.caller.Call(ctx, c.targetID, method, args, &res); err != nil {
		// Remote errors arrive as rpc.ServerError carrying only the message.
		var se rpc.ServerError
		if errors.As(err, &se) && string(se) == arith.ErrDivisionByZero.Error() {
			return 0, errors.WithStack(arith.ErrDivisionByZero)
		}
		return 0, errors.Wrapf(err, "call %s on %s", method, c.targetID)
	}
	return res.Result, nil
}
