package codec

import (
	"fmt"
	"time"

	"tradecore/internal/model"
	"tradecore/pkg/exception"
)

// Header is the envelope every wire message carries.
type Header struct {
	Type      string
	Variant   string
	ID        model.GUID
	Timestamp time.Time
}

// PeekHeader reads the envelope of a command or event without decoding its
// body. The variant name is returned as written; it is not checked against
// the known variants.
func PeekHeader(data []byte) (Header, error) {
	m, err := unpack(data)
	if err != nil {
		return Header{}, err
	}

	r := newReader(m)
	h := Header{Type: r.string(keyType)}
	if r.err != nil {
		return Header{}, r.err
	}

	switch h.Type {
	case TypeCommand:
		h.Variant = r.string(keyCommand)
		h.ID = r.guid(keyCommandID)
		h.Timestamp = r.time(keyCommandTimestamp)
	case TypeEvent:
		h.Variant = r.string(keyEvent)
		h.ID = r.guid(keyEventID)
		h.Timestamp = r.time(keyEventTimestamp)
	default:
		return Header{}, fmt.Errorf("%w: %q", exception.ErrCodecUnknownType, h.Type)
	}
	if r.err != nil {
		return Header{}, r.err
	}
	return h, nil
}
