// Package lora drives the LoRa transceiver over its serial UART. The
// transceiver is used in exactly one of two modes, fixed when the link is
// built: transparent (raw bytes in, radio transmits them as-is, simplex) or
// AT command mode (each payload wrapped in AT+SEND with a response exchange).
package lora

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Gabe-124/Baja-Data/internal/serialio"
)

// Link transmits one opaque payload per Send call. A nil return means the
// transmission was handed to the radio; LoRa itself offers no delivery
// guarantee.
type Link interface {
	Send(payload []byte) error
	Close() error
}

// TransparentLink writes payloads straight to the radio UART. There is no
// acknowledgment in this mode, so a completed write counts as success. A
// short write is logged but still reported as success, matching the
// fire-and-forget contract.
type TransparentLink struct {
	port io.WriteCloser
	log  *slog.Logger
}

func NewTransparentLink(port io.WriteCloser, log *slog.Logger) *TransparentLink {
	if log == nil {
		log = slog.Default()
	}
	return &TransparentLink{port: port, log: log}
}

func (l *TransparentLink) Send(payload []byte) error {
	n, err := l.port.Write(payload)
	if err != nil {
		return fmt.Errorf("radio write: %w", err)
	}
	if n < len(payload) {
		l.log.Warn("short radio write", "wrote", n, "want", len(payload))
	}
	return nil
}

func (l *TransparentLink) Close() error {
	return l.port.Close()
}

// minResponseTimeout is the floor for waiting on an AT response. The radio
// needs air time to finish a transmission, so a short generic serial timeout
// must not cut the exchange off early.
const minResponseTimeout = 1 * time.Second

var terminalTokens = []string{"OK", "SEND", "ERROR", "FAIL"}

// ResponseError reports a command exchange that did not end in OK/SEND. It
// retains the collected response lines for diagnostics.
type ResponseError struct {
	Lines []string
}

func (e *ResponseError) Error() string {
	if len(e.Lines) == 0 {
		return "no radio response"
	}
	return fmt.Sprintf("unexpected radio response: %s", strings.Join(e.Lines, " / "))
}

// CommandLink wraps each payload in an AT+SEND command and classifies the
// radio's response lines.
type CommandLink struct {
	port        io.ReadWriteCloser
	lines       *serialio.LineReader
	log         *slog.Logger
	respTimeout time.Duration

	timeNow func() time.Time
}

func NewCommandLink(port io.ReadWriteCloser, timeout time.Duration, log *slog.Logger) *CommandLink {
	if log == nil {
		log = slog.Default()
	}
	if timeout < minResponseTimeout {
		timeout = minResponseTimeout
	}
	return &CommandLink{
		port:        port,
		lines:       serialio.NewLineReader(port),
		log:         log,
		respTimeout: timeout,
		timeNow:     time.Now,
	}
}

func (l *CommandLink) Send(payload []byte) error {
	cmd := fmt.Sprintf("AT+SEND=%d,%s\r\n", len(payload), sanitize(payload))

	// Reject stale bytes from a previous exchange before issuing the command.
	l.lines.Drain()

	if _, err := io.WriteString(l.port, cmd); err != nil {
		return fmt.Errorf("radio write: %w", err)
	}

	deadline := l.timeNow().Add(l.respTimeout)
	var collected []string
	for {
		line, ok, err := l.lines.ReadLine(deadline)
		if err != nil {
			return fmt.Errorf("radio read: %w", err)
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		collected = append(collected, line)
		l.log.Debug("radio response", "line", line)
		if containsAny(strings.ToUpper(line), terminalTokens) {
			break
		}
	}

	for _, line := range collected {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "OK") || strings.Contains(upper, "SEND") {
			return nil
		}
	}
	return &ResponseError{Lines: collected}
}

func (l *CommandLink) Close() error {
	return l.port.Close()
}

// sanitize renders the payload as text safe to embed in an AT command.
// Payloads are expected to be UTF-8 JSON; anything else is decoded
// byte-for-byte as latin-1 so no byte is lost. Embedded CR/LF would break
// command framing and is stripped, not escaped.
func sanitize(payload []byte) string {
	var text string
	if utf8.Valid(payload) {
		text = string(payload)
	} else {
		runes := make([]rune, len(payload))
		for i, b := range payload {
			runes[i] = rune(b)
		}
		text = string(runes)
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(text)
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
