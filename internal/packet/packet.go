// Package packet builds the compact JSON wire packet transmitted over the
// radio link.
package packet

import (
	"encoding/json"
	"time"

	"github.com/Gabe-124/Baja-Data/internal/gps"
)

// wirePacket is the radio payload. Absent numeric fields serialize as null;
// the imu object is omitted entirely when the fix carries no inertial sample.
type wirePacket struct {
	TS   string         `json:"ts"`
	Lat  *float64       `json:"lat"`
	Lon  *float64       `json:"lon"`
	Alt  *float64       `json:"alt"`
	Fix  *int           `json:"fix"`
	Sats *int           `json:"sats"`
	HDOP *float64       `json:"hdop"`
	IMU  *gps.IMUSample `json:"imu,omitempty"`
}

// Codec serializes fixes for transmission.
type Codec struct {
	timeNow func() time.Time
}

func NewCodec() *Codec {
	return &Codec{timeNow: time.Now}
}

// Encode produces the UTF-8 wire bytes for one fix: a single compact JSON
// object with no embedded newline. The ts key is the fix's own timestamp when
// present, else the encode-time UTC timestamp.
func (c *Codec) Encode(fix gps.Fix) ([]byte, error) {
	ts := c.timeNow().UTC()
	if fix.Stamp != nil {
		ts = fix.Stamp.UTC()
	}

	p := wirePacket{
		TS:   ts.Format("2006-01-02T15:04:05Z"),
		Lat:  fix.Lat,
		Lon:  fix.Lon,
		Alt:  fix.Alt,
		Sats: fix.Sats,
		HDOP: fix.HDOP,
		IMU:  fix.IMU,
	}
	if fix.Quality != nil {
		q := int(*fix.Quality)
		p.Fix = &q
	}
	return json.Marshal(p)
}
