package materializer

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics 生成过程的 prometheus 指标，registerer 为空时只计数不注册
type metrics struct {
	materializeCounter  *prometheus.CounterVec
	materializeDuration *prometheus.HistogramVec
	valueCounter        *prometheus.CounterVec
}

func newMetrics(name string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		materializeCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_materialize_total",
				Help: "Total number of materialized models",
			},
			[]string{"model", "status"},
		),
		materializeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_materialize_duration_seconds",
				Help:    "Duration of model materialization in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"model"},
		),
		valueCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_generated_values_total",
				Help: "Total number of generated column values",
			},
			[]string{"generator"},
		),
	}

	if registerer == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.materializeCounter, m.materializeDuration, m.valueCounter} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "prometheus register failed")
		}
	}

	return m, nil
}
