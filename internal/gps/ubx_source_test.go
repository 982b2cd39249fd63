package gps

import (
	"errors"
	"testing"
	"time"

	"github.com/Gabe-124/Baja-Data/internal/ubx"
)

// scriptedBus replays canned chunks, then reports empty reads.
type scriptedBus struct {
	chunks [][]byte
	err    error
	closed bool
}

func (b *scriptedBus) ReadChunk(max int) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.chunks) == 0 {
		return nil, nil
	}
	chunk := b.chunks[0]
	b.chunks = b.chunks[1:]
	return chunk, nil
}

func (b *scriptedBus) Close() error {
	b.closed = true
	return nil
}

// fakeClock advances only when the source sleeps between empty polls.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time        { return c.t }
func (c *fakeClock) sleep(d time.Duration) { c.t = c.t.Add(d) }

func newTestUBXSource(bus ChunkReader) (*UBXSource, *fakeClock) {
	s := NewUBXSource(bus, nil)
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	s.timeNow = clk.now
	s.sleep = clk.sleep
	return s, clk
}

func TestUBXSource_FixFromChunkedFrames(t *testing.T) {
	frame := ubx.EncodeFrame(0x01, 0x02, navPosLLHPayload(-740251000, 407454000, 5000))

	// Frame delivered across several bus polls with noise in front.
	bus := &scriptedBus{chunks: [][]byte{
		{0xFF, 0xFF, 0xFF},
		frame[:7],
		frame[7:],
	}}
	s, _ := newTestUBXSource(bus)

	fix, err := s.GetFix(time.Second)
	if err != nil {
		t.Fatalf("GetFix() error: %v", err)
	}
	if fix == nil {
		t.Fatalf("expected a fix")
	}
	if !almostEq(*fix.Lat, 40.7454) || !almostEq(*fix.Lon, -74.0251) {
		t.Fatalf("lat/lon=%v/%v want 40.7454/-74.0251", *fix.Lat, *fix.Lon)
	}
}

func TestUBXSource_SkipsNonPositionFrames(t *testing.T) {
	ack := ubx.EncodeFrame(0x05, 0x01, []byte{0x06, 0x01})
	pos := ubx.EncodeFrame(0x01, 0x02, navPosLLHPayload(10, 20, 30))

	bus := &scriptedBus{chunks: [][]byte{append(ack, pos...)}}
	s, _ := newTestUBXSource(bus)

	fix, err := s.GetFix(time.Second)
	if err != nil {
		t.Fatalf("GetFix() error: %v", err)
	}
	if fix == nil {
		t.Fatalf("expected fix from the second frame in the chunk")
	}
}

func TestUBXSource_TimeoutReturnsAbsent(t *testing.T) {
	bus := &scriptedBus{}
	s, clk := newTestUBXSource(bus)
	start := clk.t

	fix, err := s.GetFix(500 * time.Millisecond)
	if err != nil {
		t.Fatalf("GetFix() error: %v", err)
	}
	if fix != nil {
		t.Fatalf("expected absence, got %+v", fix)
	}
	if clk.t.Sub(start) < 500*time.Millisecond {
		t.Fatalf("returned before the deadline: %s", clk.t.Sub(start))
	}
}

func TestUBXSource_BusErrorPropagates(t *testing.T) {
	busErr := errors.New("remote i/o error")
	s, _ := newTestUBXSource(&scriptedBus{err: busErr})

	_, err := s.GetFix(time.Second)
	if !errors.Is(err, busErr) {
		t.Fatalf("err=%v want wrapped bus error", err)
	}
}

func TestUBXSource_CloseReleasesBus(t *testing.T) {
	bus := &scriptedBus{}
	s, _ := newTestUBXSource(bus)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !bus.closed {
		t.Fatalf("bus not closed")
	}
}
