package gps

import (
	"encoding/binary"

	"github.com/Gabe-124/Baja-Data/internal/ubx"
)

// MessageKey identifies a UBX message type.
type MessageKey struct {
	Class byte
	ID    byte
}

// PayloadDecoder maps one message payload to a Fix. Returning false means the
// payload did not yield a usable fix (wrong shape, too short); that is a
// decline, not an error.
type PayloadDecoder func(payload []byte) (Fix, bool)

// DecoderSet routes validated frames to payload decoders by (class, id).
// Frames with no registered decoder are ignored, so new message types can be
// added without touching the frame assembler.
type DecoderSet struct {
	decoders map[MessageKey]PayloadDecoder
}

// NewDecoderSet returns a set with the NAV-POSLLH decoder pre-registered.
func NewDecoderSet() *DecoderSet {
	d := &DecoderSet{decoders: map[MessageKey]PayloadDecoder{}}
	d.Register(MessageKey{Class: 0x01, ID: 0x02}, decodeNavPosLLH)
	return d
}

func (d *DecoderSet) Register(key MessageKey, fn PayloadDecoder) {
	d.decoders[key] = fn
}

// Decode runs the registered decoder for the frame's message type, if any.
func (d *DecoderSet) Decode(frame ubx.Frame) (Fix, bool) {
	fn, ok := d.decoders[MessageKey{Class: frame.Class, ID: frame.ID}]
	if !ok {
		return Fix{}, false
	}
	return fn(frame.Payload)
}

// decodeNavPosLLH parses a UBX NAV-POSLLH payload:
//
//	iTOW(U4) lon(I4, 1e-7 deg) lat(I4, 1e-7 deg) height(I4, mm) hMSL(I4, mm) ...
//
// Accuracy fields past hMSL are ignored.
func decodeNavPosLLH(payload []byte) (Fix, bool) {
	if len(payload) < 28 {
		return Fix{}, false
	}
	lon := int32(binary.LittleEndian.Uint32(payload[4:8]))
	lat := int32(binary.LittleEndian.Uint32(payload[8:12]))
	height := int32(binary.LittleEndian.Uint32(payload[12:16]))

	return Fix{
		Lat: ptr(float64(lat) * 1e-7),
		Lon: ptr(float64(lon) * 1e-7),
		Alt: ptr(float64(height) / 1000.0),
	}, true
}
