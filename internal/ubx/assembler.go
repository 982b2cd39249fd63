package ubx

import (
	"bytes"
	"encoding/binary"
	"log/slog"

	"github.com/Gabe-124/Baja-Data/internal/observability"
)

var syncMarker = []byte{sync1, sync2}

// Assembler reassembles UBX frames from arbitrary byte chunks. It owns its
// receive buffer; bytes leave the buffer only when consumed into a validated
// frame or discarded as confirmed noise at a sync point.
type Assembler struct {
	buf []byte
	log *slog.Logger
}

func NewAssembler(log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{log: log}
}

// Feed appends a chunk to the receive buffer. It never truncates unread data.
func (a *Assembler) Feed(p []byte) {
	a.buf = append(a.buf, p...)
}

// TryExtract attempts to pull one validated frame from the buffer. Callers
// should call it repeatedly until it reports false, since a single Feed may
// hold several frames.
//
// A checksum mismatch drops exactly the two sync bytes at the match position,
// so repeated calls always make forward progress on garbage input.
func (a *Assembler) TryExtract() (Frame, bool) {
	idx := bytes.Index(a.buf, syncMarker)
	if idx == -1 {
		// No marker. Keep the trailing byte only if it could be the first
		// half of a marker split across feeds.
		if n := len(a.buf); n > 0 && a.buf[n-1] == sync1 {
			a.buf = append(a.buf[:0], sync1)
		} else {
			a.buf = a.buf[:0]
		}
		return Frame{}, false
	}
	// Bytes ahead of a located marker are confirmed noise.
	if idx > 0 {
		a.buf = append(a.buf[:0], a.buf[idx:]...)
	}

	if len(a.buf) < headerLen {
		return Frame{}, false
	}
	length := int(binary.LittleEndian.Uint16(a.buf[4:6]))
	total := headerLen + length + checksumLen
	if len(a.buf) < total {
		return Frame{}, false
	}

	ckA, ckB := Checksum(a.buf[2 : headerLen+length])
	if ckA != a.buf[total-2] || ckB != a.buf[total-1] {
		a.log.Debug("ubx checksum mismatch, resyncing",
			"class", a.buf[2], "id", a.buf[3], "len", length)
		observability.UBXChecksumErrors.Inc()
		// Drop only the sync bytes: the rest may contain the next real frame.
		a.buf = append(a.buf[:0], a.buf[2:]...)
		return Frame{}, false
	}

	frame := Frame{
		Class:   a.buf[2],
		ID:      a.buf[3],
		Payload: append([]byte(nil), a.buf[headerLen:headerLen+length]...),
	}
	a.buf = append(a.buf[:0], a.buf[total:]...)
	observability.UBXFrames.Inc()
	return frame, true
}
