package codec

import (
	"fmt"
	"reflect"

	"github.com/ugorji/go/codec"
	"github.com/yanun0323/errors"

	"tradecore/pkg/exception"
)

// handle is shared by every encoder and decoder and must not be modified
// after package initialization.
var handle = newHandle()

func newHandle() *codec.MsgpackHandle {
	var h codec.MsgpackHandle
	h.WriteExt = true
	h.Canonical = true
	h.RawToString = true
	h.SignedInteger = true
	h.MapType = reflect.TypeOf(map[string]any(nil))
	return &h
}

func pack(m map[string]any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, handle).Encode(m); err != nil {
		return nil, errors.Wrap(err, "msgpack encode")
	}
	return out, nil
}

// unpack decodes exactly one wire map. Empty input is rejected before any
// parsing; anything that is not a single map is malformed.
func unpack(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, exception.ErrCodecEmptyPayload
	}

	var m map[string]any
	dec := codec.NewDecoderBytes(data, handle)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", exception.ErrCodecMalformed, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil map", exception.ErrCodecMalformed)
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", exception.ErrCodecMalformed, len(data)-n)
	}
	return m, nil
}

// asMap normalizes a nested map value decoded without a static type.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}
