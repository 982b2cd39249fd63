// Package gps produces position fixes for the telemetry pipeline.
//
// Three fix sources share one contract:
//   - UBXSource polls the receiver's binary protocol over an I2C byte bus
//   - NMEASource reads text sentences from a serial UART
//   - SimSource / RouteSource generate synthetic fixes for bench runs
//
// A source either produces a Fix within its timeout budget or reports
// absence; absence is an expected per-cycle outcome, not an error.
package gps
