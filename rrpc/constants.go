package rrpc

const (
	RPCStatusOK              = 200
	RPCStatusClientError     = 400
	RPCStatusRequestTimeout  = 408
	RPCStatusTooManyRequests = 429
	RPCStatusServerError     = 500

	DefaultQoS = 0
)
