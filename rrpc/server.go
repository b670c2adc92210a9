package rrpc

import (
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Jeffail/tunny"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xizhibei/go-arith/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

var (
	// ErrNoReply is an error indicating an empty reply.
	ErrNoReply = errors.New("[RRPC] empty reply")

	// ErrTooFrequently is an error indicating that the request was made too frequently.
	ErrTooFrequently = errors.New("[RRPC] too frequently, try again later")

	// ErrTimeout is an error indicating a timeout occurred.
	ErrTimeout = errors.New("[RRPC] timeout")
)

// Server represents a reverse RPC server.
type Server struct {
	log        *zap.SugaredLogger  // Logger for server logs.
	handlerMap map[string]*Handler // Map of registered handlers.
	handlerMu  sync.RWMutex        // Mutex to synchronize access to handlerMap.

	cbList       []OnAfterResponseCallback // List of callbacks to be executed after each response.
	cbMu         sync.RWMutex
	afterResPool sync.Pool // Pool of resources for after-response processing.

	options    *serverOptions // Options for server configuration.
	workerPool *tunny.Pool    // Pool of worker goroutines for request processing.
	limiter    *rate.Limiter  // Rate limiter for controlling request rate.
	telemetry  telemetry.Telemetry
}

// NewServer creates a new instance of the Server struct with the provided options.
// It initializes the server with default values for the options that are not provided.
func NewServer(options ...ServerOption) *Server {
	o := serverOptions{
		name:            uuid.New().String(),
		logResponse:     false,
		workerNum:       runtime.NumCPU(),
		limiterDuration: time.Second,
		limiterCount:    5,
		limiterReject:   true,
	}

	for _, option := range options {
		option(&o)
	}

	if o.limiterCount <= 0 {
		o.limiterCount = 1
	}
	// Tokens refill evenly so that a full burst is available again after one window.
	rt := rate.Every(o.limiterDuration / time.Duration(o.limiterCount))
	limiter := rate.NewLimiter(rt, o.limiterCount)

	tel, _ := telemetry.NewNoop()

	server := Server{
		log:        zap.S().With("module", "rrpc.server"),
		handlerMap: make(map[string]*Handler),
		options:    &o,

		afterResPool: sync.Pool{
			New: func() interface{} {
				return new(AfterResponseEvent)
			},
		},
		workerPool: tunny.NewCallback(o.workerNum),
		limiter:    limiter,
		telemetry:  tel,
	}

	return &server
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.options.name
}

// SetTelemetry sets the telemetry used to trace and measure every call.
func (s *Server) SetTelemetry(tel telemetry.Telemetry) {
	s.telemetry = tel
}

// Register registers a method with its corresponding handler in the server.
// If the method is already registered, it will be overridden.
func (s *Server) Register(method string, hdl *Handler) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	if _, ok := s.handlerMap[method]; ok {
		s.log.Warnf("Method %s already registered, will override", method)
	}

	s.handlerMap[method] = hdl
	s.log.Debugf("Method %s registered", method)
}

func (s *Server) getHandler(method string) (*Handler, bool) {
	s.handlerMu.RLock()
	defer s.handlerMu.RUnlock()

	hdl, ok := s.handlerMap[method]
	return hdl, ok
}

// Call handles the RPC call by executing the specified method and processing the response.
// It measures the duration of the call, logs the response if enabled, and emits an event after the response.
// If the call exceeds the timeout or encounters an error, it replies with an appropriate error message.
func (s *Server) Call(c Context) {
	start := time.Now()

	ctx, span := s.telemetry.StartSpan(c.Ctx(), "RRPC.Server.Call "+c.Method(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("rpc.method", c.Method())),
	)
	if cs, ok := c.(ctxSetter); ok {
		cs.setCtx(ctx)
	}

	defer func() {
		duration := time.Since(start)

		res := c.GetResponse()
		status := 0
		var resErr error
		if res != nil {
			status = res.Status
			resErr = res.Error
		}

		span.SetAttributes(attribute.Int("rpc.status", status))
		if resErr != nil {
			span.RecordError(resErr)
			span.SetStatus(codes.Error, resErr.Error())
		}
		span.End()

		s.telemetry.RecordRequest(ctx, duration, c.Method(), strconv.Itoa(status), resErr)

		if s.options.logResponse {
			s.log.Infof("Response to %s [%d] (%v)", c.ReplyDesc(), status, duration.Round(time.Millisecond))
		}

		evt := s.afterResPool.Get().(*AfterResponseEvent)
		evt.Labels = c.PrometheusLabels()
		evt.Duration = duration
		evt.Res = res
		s.emitAfterResponse(evt)
	}()

	if s.options.limiterReject {
		if !s.limiter.Allow() {
			c.ReplyError(RPCStatusTooManyRequests, ErrTooFrequently)
			return
		}
	} else if err := s.limiter.Wait(ctx); err != nil {
		c.ReplyError(RPCStatusRequestTimeout, ErrTimeout)
		return
	}

	hdl, ok := s.getHandler(c.Method())
	if !ok {
		c.ReplyError(RPCStatusServerError, errors.Newf("unhandled method: %s", c.Method()))
		return
	}

	job := func() {
		defer func() {
			if i := recover(); i != nil {
				err := errors.Newf("panic in method %s %v", c.Method(), i)
				s.log.Desugar().WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)).Sugar().Error(err)
				c.ReplyError(RPCStatusServerError, err)
			}
		}()

		hdl.Method(c)

		// If the send is successful, it means that the method did not reply with any message.
		if c.ReplyError(RPCStatusServerError, ErrNoReply) {
			s.log.Warnf("Method %s no reply", c.Method())
		}
	}

	if hdl.Timeout <= 0 {
		s.workerPool.Process(job)
		return
	}

	if _, err := s.workerPool.ProcessTimed(job, hdl.Timeout); err != nil {
		c.ReplyError(RPCStatusServerError, err)
	}
}

// Close stops the worker pool. Calls made after Close panic.
func (s *Server) Close() error {
	s.workerPool.Close()
	return nil
}

// AfterResponseEvent carries the labels, duration and response of a finished call.
type AfterResponseEvent struct {
	Labels   prometheus.Labels
	Duration time.Duration
	Res      *Response
}

// OnAfterResponseCallback is a function type that represents a callback function
// to be executed after a response is sent.
// The event is recycled once all callbacks returned, so it must not be retained.
type OnAfterResponseCallback func(e *AfterResponseEvent)

// OnAfterResponse registers a callback function to be executed after each response is sent.
func (s *Server) OnAfterResponse(cb OnAfterResponseCallback) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	s.cbList = append(s.cbList, cb)
}

func (s *Server) emitAfterResponse(e *AfterResponseEvent) {
	s.cbMu.RLock()
	for _, cb := range s.cbList {
		cb(e)
	}
	s.cbMu.RUnlock()

	*e = AfterResponseEvent{}
	s.afterResPool.Put(e)
}

// RegisterMetrics registers metrics for monitoring the server's response time and error count.
// responseTime must be declared with the labels "method", "name" and "status",
// errorCount with the same labels plus "message".
func (s *Server) RegisterMetrics(responseTime *prometheus.HistogramVec, errorCount *prometheus.GaugeVec) {
	s.OnAfterResponse(func(e *AfterResponseEvent) {
		status := "0"
		if e.Res != nil {
			status = strconv.Itoa(e.Res.Status)
		}

		labels := e.Labels
		labels["name"] = s.options.name
		labels["status"] = status

		if responseTime != nil {
			responseTime.
				With(labels).
				Observe(e.Duration.Seconds())
		}

		if e.Res != nil && e.Res.Error != nil && errorCount != nil {
			labels["message"] = e.Res.Error.Error()
			errorCount.
				With(labels).
				Inc()
		}
	})
}
