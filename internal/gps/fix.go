package gps

import "time"

// FixQuality mirrors the NMEA GGA quality indicator.
type FixQuality int

const (
	QualityNoFix FixQuality = 0
	QualityGPS   FixQuality = 1
	QualityDGPS  FixQuality = 2
)

// IMUSample is one 3-axis accelerometer + gyroscope reading, in m/s^2 and
// rad/s respectively.
type IMUSample struct {
	Accel [3]float64 `json:"accel"`
	Gyro  [3]float64 `json:"gyro"`
}

// Fix is one position update. Every field is independently optional: a source
// fills in what it knows and leaves the rest nil. A Fix is built once per
// acquisition cycle and never mutated afterwards.
type Fix struct {
	Stamp   *time.Time
	Lat     *float64 // decimal degrees
	Lon     *float64 // decimal degrees
	Alt     *float64 // meters
	Quality *FixQuality
	Sats    *int
	HDOP    *float64
	IMU     *IMUSample
}

func ptr[T any](v T) *T { return &v }
