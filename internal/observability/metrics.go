package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/instruction"
	"github.com/danmuck/txdecode/internal/protocol/txn"
	"github.com/prometheus/client_golang/prometheus"
)

const ResultOK = "ok"

var (
	registerOnce sync.Once

	decodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txdecode",
			Name:      "decode_total",
			Help:      "Transactions decoded, by format and result kind.",
		},
		[]string{"format", "result"},
	)
	instructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txdecode",
			Name:      "instructions_total",
			Help:      "Instructions in successfully decoded transactions.",
		},
		[]string{"format", "opcode"},
	)
	decodeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "txdecode",
			Name:      "decode_bytes",
			Help:      "Size of decoded transaction buffers.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"format"},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "txdecode",
			Name:      "decode_duration_seconds",
			Help:      "Transaction decode duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"format"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txdecode",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "txdecode",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeTotal, instructionsTotal, decodeBytes, decodeDuration, httpRequests, httpDuration)
	})
}

func RecordDecode(format protocol.Format, size int, duration time.Duration, err error) {
	RegisterMetrics()
	label := format.Version.String()
	result := ResultOK
	if err != nil {
		result = protocol.KindName(err)
	}
	decodeTotal.WithLabelValues(label, result).Inc()
	decodeBytes.WithLabelValues(label).Observe(float64(size))
	decodeDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func RecordInstruction(format protocol.Format, op instruction.Opcode) {
	RegisterMetrics()
	instructionsTotal.WithLabelValues(format.Version.String(), op.String()).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// DecodeObserver feeds transaction decoder outcomes into the package metrics.
type DecodeObserver struct{}

var _ txn.Observer = DecodeObserver{}

func (DecodeObserver) ObserveInstruction(format protocol.Format, op instruction.Opcode) {
	RecordInstruction(format, op)
}

func (DecodeObserver) ObserveDecode(format protocol.Format, size int, elapsed time.Duration, err error) {
	RecordDecode(format, size, elapsed, err)
}

// WriteMetrics dumps every registered metric to path in text exposition format.
func WriteMetrics(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
