package mqttjson

import (
	"context"
	"encoding/json"
	"io"
	"net/rpc"
	"sync"

	"github.com/xizhibei/go-arith/compressor"
	"github.com/xizhibei/go-arith/rrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type rpcClientCodec struct {
	dec *json.Decoder
	enc *json.Encoder
	c   io.ReadWriteCloser
	ctx context.Context

	encoding   compressor.ContentEncoding
	compressor *compressor.CompressorManager

	resp Response

	mutex   sync.Mutex
	pending map[uint64]string
}

func newClientCodec(ctx context.Context, conn io.ReadWriteCloser, encoding compressor.ContentEncoding) rpc.ClientCodec {
	return &rpcClientCodec{
		dec:        json.NewDecoder(conn),
		enc:        json.NewEncoder(conn),
		c:          conn,
		ctx:        ctx,
		encoding:   encoding,
		compressor: compressor.NewCompressorManager(),
		pending:    make(map[uint64]string),
	}
}

// WriteRequest encodes param with the codec's content encoding and injects
// the trace context of the codec into the request metadata.
func (c *rpcClientCodec) WriteRequest(r *rpc.Request, param interface{}) error {
	params, err := encodeBody(c.compressor, c.encoding, param)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	c.pending[r.Seq] = r.ServiceMethod
	c.mutex.Unlock()

	req := Request{
		ID:       r.Seq,
		Method:   r.ServiceMethod,
		Encoding: c.encoding,
		Params:   params,
	}

	if c.ctx != nil {
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(c.ctx, carrier)
		if len(carrier) > 0 {
			req.Metadata = carrier
		}
	}

	return c.enc.Encode(&req)
}

// ReadResponseHeader decodes the next response. A non 200 status becomes
// the rpc error, taken from the "message" field of the data.
func (c *rpcClientCodec) ReadResponseHeader(r *rpc.Response) error {
	c.resp = Response{}
	if err := c.dec.Decode(&c.resp); err != nil {
		return err
	}

	c.mutex.Lock()
	r.ServiceMethod = c.pending[c.resp.ID]
	delete(c.pending, c.resp.ID)
	c.mutex.Unlock()

	r.Error = ""
	r.Seq = c.resp.ID
	if c.resp.Data == nil {
		r.Error = "unspecified error"
		return nil
	}
	if c.resp.Status != rrpc.RPCStatusOK {
		var body errorBody
		if err := json.Unmarshal(c.resp.Data, &body); err != nil {
			return err
		}
		r.Error = body.Message
		if r.Error == "" {
			r.Error = "unspecified error"
		}
	}
	return nil
}

// ReadResponseBody decodes the response data into x.
func (c *rpcClientCodec) ReadResponseBody(x interface{}) error {
	if x == nil {
		return nil
	}
	return decodeBody(c.compressor, c.resp.Encoding, c.resp.Data, x)
}

func (c *rpcClientCodec) Close() error {
	return c.c.Close()
}

// NewRPCClient creates an RPC client speaking JSON over conn.
func NewRPCClient(ctx context.Context, conn io.ReadWriteCloser, encoding compressor.ContentEncoding) *rpc.Client {
	return rpc.NewClientWithCodec(newClientCodec(ctx, conn, encoding))
}
