package gps

import (
	"errors"
	"io"
	"testing"
	"time"
)

// scriptedPort hands out canned data once, then reads like an idle serial
// port (zero bytes, io.EOF).
type scriptedPort struct {
	data   []byte
	err    error
	closed bool
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if len(p.data) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.data)
	p.data = p.data[n:]
	return n, nil
}

func (p *scriptedPort) Close() error {
	p.closed = true
	return nil
}

const (
	ggaLine = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n"
	rmcLine = "$GPRMC,081836,A,3751.65,S,14507.36,E,000.0,360.0,130625,011.3,E*6B\r\n"
	txtLine = "$GPTXT,01,01,02,u-blox ag - www.u-blox.com*50\r\n"
)

func TestNMEASource_GGAFix(t *testing.T) {
	port := &scriptedPort{data: []byte(txtLine + "garbage\r\n" + ggaLine)}
	s := NewNMEASource(port, nil)

	fix, err := s.GetFix(500 * time.Millisecond)
	if err != nil {
		t.Fatalf("GetFix() error: %v", err)
	}
	if fix == nil {
		t.Fatalf("expected a fix")
	}
	if fix.Lat == nil || *fix.Lat < 48.117 || *fix.Lat > 48.118 {
		t.Fatalf("lat=%v want ~48.1173", fix.Lat)
	}
	if fix.Lon == nil || *fix.Lon < 11.51 || *fix.Lon > 11.52 {
		t.Fatalf("lon=%v want ~11.5167", fix.Lon)
	}
	if fix.Alt == nil || *fix.Alt != 545.4 {
		t.Fatalf("alt=%v want 545.4", fix.Alt)
	}
	if fix.Quality == nil || *fix.Quality != QualityGPS {
		t.Fatalf("quality=%v want GPS", fix.Quality)
	}
	if fix.Sats == nil || *fix.Sats != 8 {
		t.Fatalf("sats=%v want 8", fix.Sats)
	}
	if fix.HDOP == nil || *fix.HDOP != 0.9 {
		t.Fatalf("hdop=%v want 0.9", fix.HDOP)
	}
	if fix.Stamp == nil {
		t.Fatalf("expected a timestamp from the GGA time field")
	}
	if h, m, sec := fix.Stamp.Clock(); h != 12 || m != 35 || sec != 19 {
		t.Fatalf("stamp time=%02d:%02d:%02d want 12:35:19", h, m, sec)
	}
}

func TestNMEASource_RMCFix(t *testing.T) {
	port := &scriptedPort{data: []byte(rmcLine)}
	s := NewNMEASource(port, nil)

	fix, err := s.GetFix(500 * time.Millisecond)
	if err != nil {
		t.Fatalf("GetFix() error: %v", err)
	}
	if fix == nil {
		t.Fatalf("expected a fix")
	}
	if fix.Lat == nil || *fix.Lat > -37.86 || *fix.Lat < -37.87 {
		t.Fatalf("lat=%v want ~-37.8608", fix.Lat)
	}
	if fix.Stamp == nil {
		t.Fatalf("expected a timestamp")
	}
	if y, mo, d := fix.Stamp.Date(); y != 2025 || mo != time.June || d != 13 {
		t.Fatalf("stamp date=%04d-%02d-%02d want 2025-06-13", y, mo, d)
	}
	// RMC carries no altitude or quality data.
	if fix.Alt != nil || fix.Quality != nil || fix.Sats != nil || fix.HDOP != nil {
		t.Fatalf("RMC fix set fields it cannot know: %+v", fix)
	}
}

func TestNMEASource_TimeoutReturnsAbsent(t *testing.T) {
	s := NewNMEASource(&scriptedPort{}, nil)

	fix, err := s.GetFix(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("GetFix() error: %v", err)
	}
	if fix != nil {
		t.Fatalf("expected absence, got %+v", fix)
	}
}

func TestNMEASource_ReadErrorPropagates(t *testing.T) {
	portErr := errors.New("device unplugged")
	s := NewNMEASource(&scriptedPort{err: portErr}, nil)

	_, err := s.GetFix(50 * time.Millisecond)
	if !errors.Is(err, portErr) {
		t.Fatalf("err=%v want wrapped port error", err)
	}
}

func TestNMEASource_CloseReleasesPort(t *testing.T) {
	port := &scriptedPort{}
	s := NewNMEASource(port, nil)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !port.closed {
		t.Fatalf("port not closed")
	}
}
