package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Defaults for ResponseTimeOptions.
const (
	DefaultResponseTimeHeader    = "X-Response-Time"
	DefaultResponseTimePrecision = 3
)

// ResponseTimeOptions configures ResponseTime.
type ResponseTimeOptions struct {
	// Header receives the elapsed time, e.g. "12.345ms".
	Header string
	// Precision is the number of decimals of the millisecond value.
	Precision int
	// Metrics, when set, also records each request's duration.
	Metrics *Metrics
}

// Metrics holds the request duration histogram.
type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics registers the request duration histogram with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) observe(r *http.Request, status int, elapsed time.Duration) {
	route := "unmatched"
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			route = pattern
		}
	}
	m.duration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ResponseTime measures how long the rest of the chain takes and reports it
// in a response header. The header is set just before the status line is
// written, so it covers everything up to the first byte of the response.
func ResponseTime(opts ResponseTimeOptions) func(http.Handler) http.Handler {
	if opts.Header == "" {
		opts.Header = DefaultResponseTimeHeader
	}
	if opts.Precision < 0 {
		opts.Precision = DefaultResponseTimePrecision
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &timingWriter{
				ResponseWriter: w,
				start:          time.Now(),
				header:         opts.Header,
				precision:      opts.Precision,
			}

			next.ServeHTTP(tw, r)

			// A handler that wrote nothing still gets its implicit 200.
			if !tw.wroteHeader {
				tw.WriteHeader(http.StatusOK)
			}

			if opts.Metrics != nil {
				opts.Metrics.observe(r, tw.status, time.Since(tw.start))
			}
		})
	}
}

// FormatDuration renders d as milliseconds with precision decimals and an
// "ms" suffix.
func FormatDuration(d time.Duration, precision int) string {
	ms := float64(d) / float64(time.Millisecond)
	return strconv.FormatFloat(ms, 'f', precision, 64) + "ms"
}

type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	header      string
	precision   int
	status      int
	wroteHeader bool
}

func (tw *timingWriter) WriteHeader(status int) {
	if tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	tw.status = status
	tw.Header().Set(tw.header, FormatDuration(time.Since(tw.start), tw.precision))
	tw.ResponseWriter.WriteHeader(status)
}

func (tw *timingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (tw *timingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
