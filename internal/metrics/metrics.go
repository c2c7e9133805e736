package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File results counted by FilesTotal.
const (
	FileAttached         = "attached"
	FileReplaced         = "replaced"
	FileDetached         = "detached"
	FileBlobDeleteFailed = "blob_delete_failed"
)

type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	FilesTotal    *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "school",
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"}),
		FilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "school",
				Name:      "files_total",
				Help:      "File association operations by result.",
			},
			[]string{"result"}),
	}
}

// File increments FilesTotal for result. Safe on a nil receiver.
func (m *Metrics) File(result string) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(result).Inc()
}
