// Package proto describes the GophInvoice gRPC service: request and
// response messages, client and server bindings and the wire codec.
//
// Messages are plain Go structs encoded as JSON. The codec is registered
// with gRPC under the "gophinvoice-json" content subtype, and the client
// below always selects it.
package proto

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Codec is the content subtype carried in the gRPC content-type header.
const Codec = "gophinvoice-json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return Codec
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
