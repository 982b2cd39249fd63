// Package app runs the acquisition loop: pull a fix from the selected source,
// encode it, hand the bytes to the radio link, and pace iterations to a fixed
// interval.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/Gabe-124/Baja-Data/internal/gps"
	"github.com/Gabe-124/Baja-Data/internal/lora"
	"github.com/Gabe-124/Baja-Data/internal/observability"
	"github.com/Gabe-124/Baja-Data/internal/packet"
	"github.com/Gabe-124/Baja-Data/internal/telemetry"
)

type Sender struct {
	Source     gps.Source
	Link       lora.Link
	Codec      *packet.Codec
	Interval   time.Duration
	FixTimeout time.Duration
	Log        *slog.Logger

	// Mirror is optional; when set, every transmitted packet is also
	// published over MQTT.
	Mirror *telemetry.Mirror

	timeNow func() time.Time
	after   func(time.Duration) <-chan time.Time
}

func NewSender(src gps.Source, link lora.Link, interval, fixTimeout time.Duration, log *slog.Logger) *Sender {
	if log == nil {
		log = slog.Default()
	}
	return &Sender{
		Source:     src,
		Link:       link,
		Codec:      packet.NewCodec(),
		Interval:   interval,
		FixTimeout: fixTimeout,
		Log:        log,
		timeNow:    time.Now,
		after:      time.After,
	}
}

// Run cycles until ctx is cancelled. Each cycle is independent and
// loss-tolerant: a cycle without a fix is skipped, a failed send is logged
// and the next cycle proceeds. Pacing sleeps whatever remains of Interval
// after processing, floored at zero, with no catch-up across cycles.
func (s *Sender) Run(ctx context.Context) error {
	for {
		start := s.timeNow()

		if err := s.cycle(); err != nil {
			s.Log.Error("telemetry cycle failed", "err", err)
		}

		elapsed := s.timeNow().Sub(start)
		wait := s.Interval - elapsed
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(wait):
		}
	}
}

func (s *Sender) cycle() error {
	fix, err := s.Source.GetFix(s.FixTimeout)
	if err != nil {
		return err
	}
	if fix == nil {
		observability.NoFixCycles.Inc()
		s.Log.Debug("no fix this cycle")
		return nil
	}
	observability.Fixes.Inc()

	payload, err := s.Codec.Encode(*fix)
	if err != nil {
		return err
	}

	if err := s.Link.Send(payload); err != nil {
		observability.SendErrors.Inc()
		s.Log.Warn("radio send failed", "bytes", len(payload), "err", err)
	} else {
		observability.PacketsSent.Inc()
		s.Log.Info("sent packet", "bytes", len(payload), "payload", string(payload))
	}

	if s.Mirror != nil {
		s.Mirror.Publish(payload)
	}
	return nil
}
