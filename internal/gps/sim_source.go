package gps

import "time"

// SimSource generates a deterministic moving fix for bench runs without
// hardware. Each call advances the position slightly along a straight track
// starting near the Stevens Institute campus in Hoboken.
type SimSource struct {
	BaseLat float64
	BaseLon float64

	t       int
	timeNow func() time.Time
}

func NewSimSource() *SimSource {
	return &SimSource{
		BaseLat: 40.7454,
		BaseLon: -74.0251,
		timeNow: time.Now,
	}
}

func (s *SimSource) GetFix(timeout time.Duration) (*Fix, error) {
	s.t++
	return &Fix{
		Stamp:   ptr(s.timeNow().UTC()),
		Lat:     ptr(s.BaseLat + float64(s.t)*0.00005),
		Lon:     ptr(s.BaseLon + float64(s.t)*0.00005),
		Alt:     ptr(5.0 + float64(s.t%10)),
		Quality: ptr(QualityGPS),
		Sats:    ptr(10),
		HDOP:    ptr(0.8),
		IMU: &IMUSample{
			Accel: [3]float64{0.1, -0.05, -9.81},
			Gyro:  [3]float64{0.01, 0.01, 0.05},
		},
	}, nil
}

func (s *SimSource) Close() error { return nil }
