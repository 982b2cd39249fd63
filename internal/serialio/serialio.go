// Package serialio wraps serial port access shared by the GPS and radio
// backends: opening a port with a read timeout, and deadline-bounded
// line-oriented reads on top of chunked port reads.
package serialio

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
)

type Config struct {
	Device      string
	Baud        uint
	ReadTimeout time.Duration
}

// Open opens a raw 8N1 serial port. Reads return after ReadTimeout of idle
// line time instead of blocking indefinitely.
func Open(cfg Config) (io.ReadWriteCloser, error) {
	timeoutMs := uint(cfg.ReadTimeout.Milliseconds())
	if timeoutMs < 100 {
		// go-serial's minimum granularity is 100ms.
		timeoutMs = 100
	}
	return serial.Open(serial.OpenOptions{
		PortName:              cfg.Device,
		BaudRate:              cfg.Baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: timeoutMs,
	})
}

// LineReader assembles CR/LF-terminated lines from chunked reads. The
// underlying reader is expected to time out on idle (returning io.EOF or a
// deadline error with no data), which LineReader treats as "nothing yet".
type LineReader struct {
	r       io.Reader
	pending []byte
	chunk   [256]byte

	timeNow func() time.Time
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r, timeNow: time.Now}
}

// ReadLine returns the next complete line with CR/LF and surrounding space
// trimmed. ok is false if no full line arrived before the deadline. Errors
// other than idle timeouts are returned as channel failures.
func (lr *LineReader) ReadLine(deadline time.Time) (line string, ok bool, err error) {
	for {
		if i := bytes.IndexByte(lr.pending, '\n'); i >= 0 {
			line = strings.TrimSpace(string(lr.pending[:i]))
			lr.pending = append(lr.pending[:0], lr.pending[i+1:]...)
			return line, true, nil
		}
		if !lr.timeNow().Before(deadline) {
			return "", false, nil
		}
		n, rerr := lr.r.Read(lr.chunk[:])
		if n > 0 {
			lr.pending = append(lr.pending, lr.chunk[:n]...)
			continue
		}
		if rerr != nil && !isIdle(rerr) {
			return "", false, rerr
		}
	}
}

// Drain discards buffered lines and whatever bytes the port currently holds.
// Best effort: it stops at the first idle read.
func (lr *LineReader) Drain() {
	lr.pending = lr.pending[:0]
	for {
		n, err := lr.r.Read(lr.chunk[:])
		if n == 0 || err != nil {
			return
		}
	}
}

func isIdle(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded)
}
