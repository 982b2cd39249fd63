package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UBXFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baja_ubx_frames_total",
		Help: "Validated UBX frames extracted from the bus",
	})
	UBXChecksumErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baja_ubx_checksum_errors_total",
		Help: "UBX frames dropped on checksum mismatch",
	})
	Fixes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baja_fixes_total",
		Help: "Cycles that produced a position fix",
	})
	NoFixCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baja_no_fix_cycles_total",
		Help: "Cycles skipped because no fix was available in time",
	})
	PacketsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baja_packets_sent_total",
		Help: "Telemetry packets accepted by the radio link",
	})
	SendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baja_send_errors_total",
		Help: "Radio link send failures",
	})
)

// ServeMetrics exposes /metrics on addr. It blocks, so callers run it in its
// own goroutine; errors are returned when the listener stops.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
