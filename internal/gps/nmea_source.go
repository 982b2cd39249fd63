package gps

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/Gabe-124/Baja-Data/internal/serialio"
)

// NMEASource reads text sentences from a serial GPS and extracts fixes from
// GGA (position, altitude, quality) and RMC (position, date) sentences.
// Sentence interpretation is delegated to the go-nmea parser; anything it
// rejects is receiver chatter and gets skipped.
type NMEASource struct {
	port  io.ReadCloser
	lines *serialio.LineReader
	log   *slog.Logger

	timeNow func() time.Time
}

func NewNMEASource(port io.ReadCloser, log *slog.Logger) *NMEASource {
	if log == nil {
		log = slog.Default()
	}
	return &NMEASource{
		port:    port,
		lines:   serialio.NewLineReader(port),
		log:     log,
		timeNow: time.Now,
	}
}

func (s *NMEASource) GetFix(timeout time.Duration) (*Fix, error) {
	deadline := s.timeNow().Add(timeout)
	for {
		line, ok, err := s.lines.ReadLine(deadline)
		if err != nil {
			return nil, fmt.Errorf("gps read: %w", err)
		}
		if !ok {
			return nil, nil
		}
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		switch m := sentence.(type) {
		case nmea.GGA:
			fix := Fix{
				Lat:  ptr(m.Latitude),
				Lon:  ptr(m.Longitude),
				Alt:  ptr(m.Altitude),
				HDOP: ptr(m.HDOP),
				Sats: ptr(int(m.NumSatellites)),
			}
			if q, err := strconv.Atoi(m.FixQuality); err == nil {
				fix.Quality = ptr(FixQuality(q))
			}
			if m.Time.Valid {
				fix.Stamp = ptr(timeOfDayUTC(s.timeNow().UTC(), m.Time))
			}
			return &fix, nil
		case nmea.RMC:
			fix := Fix{
				Lat: ptr(m.Latitude),
				Lon: ptr(m.Longitude),
			}
			if m.Date.Valid && m.Time.Valid {
				fix.Stamp = ptr(time.Date(2000+m.Date.YY, time.Month(m.Date.MM), m.Date.DD,
					m.Time.Hour, m.Time.Minute, m.Time.Second, m.Time.Millisecond*1e6, time.UTC))
			}
			return &fix, nil
		}
	}
}

func (s *NMEASource) Close() error {
	return s.port.Close()
}

// timeOfDayUTC combines a date-less NMEA time with today's UTC date. GGA only
// carries time of day.
func timeOfDayUTC(now time.Time, t nmea.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(),
		t.Hour, t.Minute, t.Second, t.Millisecond*1e6, time.UTC)
}
