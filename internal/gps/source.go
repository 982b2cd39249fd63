package gps

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Gabe-124/Baja-Data/internal/ubx"
)

// Source produces position fixes on demand within a timeout budget.
// A (nil, nil) return means "no update this cycle" and is an expected
// outcome, not an error; the caller decides whether to skip the cycle.
type Source interface {
	GetFix(timeout time.Duration) (*Fix, error)
	Close() error
}

// ChunkReader is a byte-oriented bus handle with chunked read semantics, e.g.
// a u-blox receiver on I2C. A read may legitimately return zero bytes when
// the device has nothing buffered.
type ChunkReader interface {
	ReadChunk(max int) ([]byte, error)
	Close() error
}

const (
	busChunkSize = 64
	busPollPause = 10 * time.Millisecond
)

// UBXSource polls a byte bus, reassembles UBX frames with its own Assembler,
// and runs the decoder set after every chunk until a fix is produced or the
// timeout budget is spent.
type UBXSource struct {
	bus ChunkReader
	asm *ubx.Assembler
	dec *DecoderSet
	log *slog.Logger

	timeNow func() time.Time
	sleep   func(time.Duration)
}

func NewUBXSource(bus ChunkReader, log *slog.Logger) *UBXSource {
	if log == nil {
		log = slog.Default()
	}
	return &UBXSource{
		bus:     bus,
		asm:     ubx.NewAssembler(log),
		dec:     NewDecoderSet(),
		log:     log,
		timeNow: time.Now,
		sleep:   time.Sleep,
	}
}

// Decoders exposes the decoder set so additional message types can be
// registered before the acquisition loop starts.
func (s *UBXSource) Decoders() *DecoderSet { return s.dec }

func (s *UBXSource) GetFix(timeout time.Duration) (*Fix, error) {
	deadline := s.timeNow().Add(timeout)
	for s.timeNow().Before(deadline) {
		chunk, err := s.bus.ReadChunk(busChunkSize)
		if err != nil {
			return nil, fmt.Errorf("bus read: %w", err)
		}
		if len(chunk) > 0 {
			s.asm.Feed(chunk)
		}

		// One chunk may complete several frames; drain them all.
		for {
			frame, ok := s.asm.TryExtract()
			if !ok {
				break
			}
			if fix, ok := s.dec.Decode(frame); ok {
				return &fix, nil
			}
		}

		if len(chunk) == 0 {
			s.sleep(busPollPause)
		}
	}
	return nil, nil
}

func (s *UBXSource) Close() error {
	return s.bus.Close()
}
