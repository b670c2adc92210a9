// Package rrpc is the transport independent core of a reverse RPC server.
//
// A transport (MQTT, WebSocket) decodes an incoming request into a
// ChannelContext, wraps it with NewRequestContext and hands it to
// Server.Call, which takes care of rate limiting, worker scheduling,
// timeouts, panics and metrics.
package rrpc

import "github.com/prometheus/client_golang/prometheus"

// ReverseRPC is implemented by every transport server.
type ReverseRPC interface {
	Close() error
	IsConnected() bool
	Register(method string, hdl *Handler)
	RegisterMetrics(responseTime *prometheus.HistogramVec, errorCount *prometheus.GaugeVec)
}
