package ubx

import "encoding/binary"

const (
	sync1 = 0xB5
	sync2 = 0x62

	// headerLen covers sync(2) + class(1) + id(1) + length(2).
	headerLen = 6
	// checksumLen is the trailing Fletcher pair.
	checksumLen = 2
)

// Frame is one validated UBX message. It is only ever constructed by
// Assembler.TryExtract after the checksum has been verified.
type Frame struct {
	Class   byte
	ID      byte
	Payload []byte
}

// Checksum computes the 8-bit Fletcher pair over data. For a well-formed
// frame, data covers class byte through end of payload (sync bytes excluded).
func Checksum(data []byte) (ckA, ckB byte) {
	for _, b := range data {
		ckA += b
		ckB += ckA
	}
	return ckA, ckB
}

// EncodeFrame builds a complete wire frame: sync, class, id, little-endian
// length, payload, checksum.
func EncodeFrame(class, id byte, payload []byte) []byte {
	buf := make([]byte, 0, headerLen+len(payload)+checksumLen)
	buf = append(buf, sync1, sync2, class, id)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, payload...)
	ckA, ckB := Checksum(buf[2:])
	return append(buf, ckA, ckB)
}
