package mqttjson

import (
	"bytes"
	"context"
	"io"
	"net/rpc"
	"sync"

	"github.com/xizhibei/go-arith/compressor"
	"github.com/xizhibei/go-arith/mqttadapter"
	"go.uber.org/zap"
)

// rpcConn turns a request/response topic pair into a byte stream.
// Every message received on the response topic is appended to the stream.
type rpcConn struct {
	msgs      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	reader    *bytes.Reader

	requestTopic  string
	responseTopic string
	c             mqttadapter.MQTTClientAdapter
	qos           byte

	log *zap.SugaredLogger
}

func newRPCConn(ctx context.Context, requestTopic, responseTopic string, c mqttadapter.MQTTClientAdapter, qos byte) (*rpcConn, error) {
	conn := &rpcConn{
		msgs:          make(chan []byte, 1),
		closed:        make(chan struct{}),
		reader:        bytes.NewReader(nil),
		requestTopic:  requestTopic,
		responseTopic: responseTopic,
		c:             c,
		qos:           qos,
		log:           zap.S().With("module", "rrpc.mqttjsonclient.conn"),
	}

	err := c.SubscribeWait(ctx, responseTopic, qos, func(_ mqttadapter.MQTTClientAdapter, m mqttadapter.Message) {
		conn.log.Debugf("Receive data from %s len=%d", m.Topic(), len(m.Payload()))
		select {
		case conn.msgs <- m.Payload():
		case <-conn.closed:
		}
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Read blocks until a response message arrives. It returns io.EOF once the
// connection is closed.
func (c *rpcConn) Read(data []byte) (int, error) {
	if c.reader.Len() > 0 {
		return c.reader.Read(data)
	}

	select {
	case payload := <-c.msgs:
		c.reader.Reset(payload)
		return c.reader.Read(data)
	case <-c.closed:
		return 0, io.EOF
	}
}

// Write publishes data on the request topic.
func (c *rpcConn) Write(data []byte) (int, error) {
	c.log.Debugf("Send data to %s len=%d", c.requestTopic, len(data))
	c.c.PublishBytes(context.Background(), c.requestTopic, c.qos, false, data)
	return len(data), nil
}

// Close unsubscribes from the response topic. It is safe to call more than once.
func (c *rpcConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.c.Unsubscribe(context.Background(), c.responseTopic)
	})
	return nil
}

// Dial subscribes to replyTopic and returns an RPC client whose requests are
// published on reqTopic. ctx bounds the subscription and is the parent of the
// trace context propagated with every request.
func Dial(ctx context.Context, reqTopic, replyTopic string, c mqttadapter.MQTTClientAdapter, qos byte, encoding compressor.ContentEncoding) (*rpc.Client, error) {
	conn, err := newRPCConn(ctx, reqTopic, replyTopic, c, qos)
	if err != nil {
		return nil, err
	}
	return NewRPCClient(ctx, conn, encoding), nil
}
