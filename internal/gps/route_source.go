package gps

import (
	"math"
	"math/rand"
	"time"
)

// Waypoint is one corner of a demo route.
type Waypoint struct {
	Name string
	Lat  float64
	Lon  float64
	Alt  float64 // meters
}

// StevensWaypoints traces a loop around the Stevens Institute campus in
// Hoboken, NJ, the default demo route.
var StevensWaypoints = []Waypoint{
	{"Walker Gym", 40.744782, -74.027000, 26.0},
	{"Schaefer Center", 40.744255, -74.025195, 18.5},
	{"Babbio Center", 40.744948, -74.024621, 21.0},
	{"UCC", 40.745822, -74.024994, 19.0},
	{"Palmer Lawn", 40.746371, -74.026138, 15.5},
	{"Howe Center", 40.746028, -74.027139, 32.0},
}

// RouteSource produces smooth fixes that follow a waypoint loop, with gentle
// jitter so every lap differs slightly. It drives bench runs of the full
// encode/transmit path without GPS hardware.
type RouteSource struct {
	waypoints     []Waypoint
	samplesPerLeg int
	jitter        float64
	altVariation  float64

	leg     int
	sample  int
	rng     *rand.Rand
	timeNow func() time.Time
}

func NewRouteSource(waypoints []Waypoint, samplesPerLeg int) *RouteSource {
	if len(waypoints) == 0 {
		waypoints = StevensWaypoints
	}
	if samplesPerLeg < 2 {
		samplesPerLeg = 20
	}
	return &RouteSource{
		waypoints:     waypoints,
		samplesPerLeg: samplesPerLeg,
		jitter:        0.00002,
		altVariation:  1.5,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		timeNow:       time.Now,
	}
}

func (s *RouteSource) GetFix(timeout time.Duration) (*Fix, error) {
	start := s.waypoints[s.leg]
	end := s.waypoints[(s.leg+1)%len(s.waypoints)]
	frac := float64(s.sample) / float64(s.samplesPerLeg-1)

	lat := lerp(start.Lat, end.Lat, frac) + s.rng.Float64()*2*s.jitter - s.jitter
	lon := lerp(start.Lon, end.Lon, frac) + s.rng.Float64()*2*s.jitter - s.jitter
	now := s.timeNow()
	alt := lerp(start.Alt, end.Alt, frac) + math.Sin(float64(now.Unix())*0.2)*s.altVariation

	s.sample++
	if s.sample >= s.samplesPerLeg {
		s.sample = 0
		s.leg = (s.leg + 1) % len(s.waypoints)
	}

	return &Fix{
		Stamp:   ptr(now.UTC()),
		Lat:     ptr(lat),
		Lon:     ptr(lon),
		Alt:     ptr(alt),
		Quality: ptr(QualityGPS),
		Sats:    ptr(8 + s.rng.Intn(6)),
		HDOP:    ptr(0.6 + s.rng.Float64()*0.6),
		IMU: &IMUSample{
			Accel: [3]float64{
				s.rng.Float64()*0.6 - 0.3,
				s.rng.Float64()*0.6 - 0.3,
				-9.81 + s.rng.Float64()*0.2 - 0.1,
			},
			Gyro: [3]float64{
				s.rng.Float64()*0.1 - 0.05,
				s.rng.Float64()*0.1 - 0.05,
				s.rng.Float64()*0.1 - 0.05,
			},
		},
	}, nil
}

func (s *RouteSource) Close() error { return nil }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
