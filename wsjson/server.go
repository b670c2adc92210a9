// Package wsjson serves reverse RPC requests read from an outbound
// WebSocket connection. The server dials the given URI, answers every JSON
// request on the same connection and dials again when the connection drops.
package wsjson

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/xizhibei/go-arith/rrpc"
	"go.uber.org/zap"
)

const defaultReconnectDelay = 10 * time.Second

// Request is a JSON request read from the connection.
type Request struct {
	ID       uint64            `json:"id"`
	Method   string            `json:"method"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Params   json.RawMessage   `json:"params"`
}

// Response is the JSON reply written for a Request.
type Response struct {
	ID     uint64      `json:"id"`
	Method string      `json:"method"`
	Status int         `json:"status"`
	Data   interface{} `json:"data"`
}

func (r *Request) newResponse() *Response {
	return &Response{
		ID:     r.ID,
		Method: r.Method,
	}
}

func (r *Request) makeOKResponse(data interface{}) *Response {
	res := r.newResponse()
	res.Status = rrpc.RPCStatusOK
	res.Data = data
	return res
}

func (r *Request) makeErrResponse(status int, err error) *Response {
	res := r.newResponse()
	res.Status = status
	res.Data = map[string]string{
		"message": err.Error(),
	}
	return res
}

// Server answers reverse RPC requests over a WebSocket connection it dials itself.
type Server struct {
	*rrpc.Server
	log       *zap.SugaredLogger
	validator *validator.Validate
	dialer    *websocket.Dialer

	uri          string
	printableURL string
	host         string

	reconnectDelay time.Duration

	conn    *websocket.Conn
	connMu  sync.Mutex
	writeMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var _ rrpc.ReverseRPC = (*Server)(nil)

// New parses uri and starts connecting in the background.
func New(uri string, validator *validator.Validate, options ...rrpc.ServerOption) (*Server, error) {
	parsedURI, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrap(err, "parse websocket uri")
	}
	host := parsedURI.Host
	parsedURI.User = nil

	ctx, cancel := context.WithCancel(context.Background())
	s := Server{
		Server:         rrpc.NewServer(options...),
		log:            zap.S().With("module", "rrpc.wsjsonserver"),
		validator:      validator,
		dialer:         websocket.DefaultDialer,
		uri:            uri,
		printableURL:   parsedURI.String(),
		host:           host,
		reconnectDelay: defaultReconnectDelay,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}

	go s.run()

	return &s, nil
}

// SetReconnectDelay sets how long the server waits after a failed dial.
func (s *Server) SetReconnectDelay(d time.Duration) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.reconnectDelay = d
}

// Close stops reconnecting, closes the connection and waits for the
// receive loop to exit before stopping the worker pool.
func (s *Server) Close() error {
	s.cancel()

	s.connMu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.connMu.Unlock()

	<-s.done
	return s.Server.Close()
}

// IsConnected reports whether a connection is currently established.
func (s *Server) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	return s.conn != nil
}

func (s *Server) setConn(conn *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.conn = conn
}

func (s *Server) delay() time.Duration {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.reconnectDelay
}

func (s *Server) run() {
	defer close(s.done)

	for s.ctx.Err() == nil {
		conn, _, err := s.dialer.DialContext(s.ctx, s.uri, nil)
		if err != nil {
			s.log.Errorf("Connect %s failed %v", s.printableURL, err)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(s.delay()):
			}
			continue
		}

		s.log.Infof("Connected %s", s.printableURL)
		s.setConn(conn)
		s.serve(conn)
		s.setConn(nil)
	}
}

func (s *Server) serve(conn *websocket.Conn) {
	defer conn.Close()

	for {
		if s.ctx.Err() != nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			s.log.Errorf("Read %s: %v, reconnect", s.printableURL, err)
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			s.log.Errorf("Parse json %v", err)
			s.reply(conn, req.makeErrResponse(rrpc.RPCStatusClientError, err))
			continue
		}

		s.log.Debugf("Request from method %s", req.Method)

		wsCtx := newWSContext(&req, s, conn)
		s.Server.Call(rrpc.NewRequestContext(wsCtx.Ctx(), wsCtx))
	}
}

func (s *Server) reply(conn *websocket.Conn, res *Response) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := conn.WriteJSON(res); err != nil {
		s.log.Errorf("Write response of %s: %v", res.Method, err)
	}
}
