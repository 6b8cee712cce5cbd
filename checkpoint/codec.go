package checkpoint

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec turns container state into snapshot bytes and back.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec encodes state with encoding/json. State types control their
// shape with json tags.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ProtoCodec stores state as a protobuf google.protobuf.Struct (or Value for
// non-object state). The state is first projected through its JSON form, so
// json tags apply and numbers round-trip as float64.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	value, err := structpb.NewValue(generic)
	if err != nil {
		return nil, fmt.Errorf("convert state to protobuf value: %w", err)
	}
	return proto.Marshal(value)
}

func (ProtoCodec) Decode(data []byte, v any) error {
	var value structpb.Value
	if err := proto.Unmarshal(data, &value); err != nil {
		return err
	}

	raw, err := json.Marshal(value.AsInterface())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// CodecByName resolves "json" (also the empty name) and "proto".
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "proto":
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
}
