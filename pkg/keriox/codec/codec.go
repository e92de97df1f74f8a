// Package codec implements the message framer (§4.2): given a byte stream
// that begins with a KERI version string, it determines which of the three
// wire dialects (JSON, CBOR, MessagePack) the frame uses, decodes exactly
// the declared number of bytes, and returns what is left of the stream.
package codec

import (
	"github.com/cvsouth/keri-go/pkg/keriox/event"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
)

// Frame is one decoded message: the exact raw bytes of the frame (as they
// appeared on the wire, needed later to verify signatures and compute
// digests) and the event parsed out of it.
type Frame struct {
	Raw   []byte
	Event *event.Event
}

var dialects = []event.Dialect{event.DialectJSON, event.DialectCBOR, event.DialectMGPK}

// ParseFrame reads one frame from the front of stream, trying each known
// dialect in turn against the version string it finds. It returns the
// frame and the remainder of the stream.
func ParseFrame(stream []byte) (Frame, []byte, error) {
	var lastErr error
	for _, d := range dialects {
		ev, consumed, rest, err := event.Decode(d, stream)
		if err != nil {
			lastErr = err
			continue
		}
		return Frame{Raw: stream[:consumed], Event: ev}, rest, nil
	}
	if lastErr == nil {
		lastErr = kerr.Malformed("stream does not begin with a recognized version string")
	}
	return Frame{}, nil, lastErr
}

// ParseStream decodes every frame in stream in order, stopping at the
// first error or when the stream is exhausted.
func ParseStream(stream []byte) ([]Frame, error) {
	var frames []Frame
	for len(stream) > 0 {
		f, rest, err := ParseFrame(stream)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
		stream = rest
	}
	return frames, nil
}
