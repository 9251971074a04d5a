package metrics

import (
	"errors"
	"net"
	"net/http"
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromRecorder exports backend call metrics to Prometheus.
type PromRecorder struct {
	calls   *prom.CounterVec
	seconds *prom.HistogramVec
	queries *prom.CounterVec
}

// NewPromRecorder creates the collectors and registers them on reg.
func NewPromRecorder(reg prom.Registerer) (*PromRecorder, error) {
	p := &PromRecorder{
		calls: prom.NewCounterVec(prom.CounterOpts{
			Name: "annotator_backend_calls_total",
			Help: "Total number of backend service calls",
		}, []string{"op", "success"}),
		seconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "annotator_backend_call_seconds",
			Help:    "Backend service call duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"op", "success"}),
		queries: prom.NewCounterVec(prom.CounterOpts{
			Name: "annotator_search_queries_total",
			Help: "External search queries submitted, by repository",
		}, []string{"repository"}),
	}
	for _, c := range []prom.Collector{p.calls, p.seconds, p.queries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *PromRecorder) IncBackendCall(op string, success bool) {
	p.calls.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

func (p *PromRecorder) ObserveBackendSeconds(op string, success bool, seconds float64) {
	p.seconds.WithLabelValues(op, strconv.FormatBool(success)).Observe(seconds)
}

func (p *PromRecorder) IncSearchQuery(repository string) {
	p.queries.WithLabelValues(repository).Inc()
}

// Enable installs a Prometheus recorder and serves /metrics and /healthz on addr.
// The listener is bound before returning so address errors surface to the caller.
func Enable(addr string) (*http.Server, error) {
	if addr == "" {
		return nil, errors.New("metrics address is empty")
	}
	registry := prom.NewRegistry()
	p, err := NewPromRecorder(registry)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: mux}
	go func() { _ = srv.Serve(ln) }()

	SetRecorder(p)
	return srv, nil
}
