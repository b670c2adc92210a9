// Package mqttjson carries reverse RPC requests as JSON documents over MQTT.
//
// A server listens on <prefix>/<deviceID>/request/+ and answers on the
// matching response topic. A client opens one request/response topic pair
// per call.
package mqttjson

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/xizhibei/go-arith/compressor"
)

// Request represents a JSON-RPC request.
// When Encoding is not plain, Params is a base64 JSON string holding the
// compressed JSON params.
type Request struct {
	ID       uint64                     `json:"id"`
	Method   string                     `json:"method"`
	Metadata map[string]string          `json:"metadata,omitempty"`
	Encoding compressor.ContentEncoding `json:"encoding,omitempty"`
	Params   json.RawMessage            `json:"params"`
}

// Response represents a JSON-RPC response.
// Error responses are always plain, with Data holding {"message": "..."}.
type Response struct {
	ID       uint64                     `json:"id"`
	Method   string                     `json:"method"`
	Status   int                        `json:"status"`
	Metadata map[string]string          `json:"metadata,omitempty"`
	Encoding compressor.ContentEncoding `json:"encoding,omitempty"`
	Data     json.RawMessage            `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
}

func encodeBody(cm *compressor.CompressorManager, enc compressor.ContentEncoding, v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal body")
	}
	if enc == compressor.ContentEncodingPlain {
		return data, nil
	}

	compressed, err := cm.Compress(enc, data)
	if err != nil {
		return nil, errors.Wrapf(err, "compress body with %s", enc)
	}

	// []byte marshals to a base64 string.
	return json.Marshal(compressed)
}

func decodeBody(cm *compressor.CompressorManager, enc compressor.ContentEncoding, raw json.RawMessage, v interface{}) error {
	if enc == compressor.ContentEncodingPlain {
		return json.Unmarshal(raw, v)
	}

	var compressed []byte
	if err := json.Unmarshal(raw, &compressed); err != nil {
		return errors.Wrap(err, "decode compressed body")
	}

	data, err := cm.Uncompress(enc, compressed)
	if err != nil {
		return errors.Wrapf(err, "uncompress body with %s", enc)
	}
	return json.Unmarshal(data, v)
}
