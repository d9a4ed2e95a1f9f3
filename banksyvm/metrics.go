// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	accepted *prometheus.CounterVec
	failed   *prometheus.CounterVec
	events   prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Name,
			Name:      "instructions_accepted",
			Help:      "number of committed instructions by operation",
		}, []string{"op"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Name,
			Name:      "instructions_failed",
			Help:      "number of instructions that failed to commit by operation",
		}, []string{"op"}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Name,
			Name:      "transfer_events",
			Help:      "number of committed transfer events",
		}),
	}

	if registerer == nil {
		return m, nil
	}
	for _, collector := range []prometheus.Collector{m.accepted, m.failed, m.events} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) instructionAccepted(op string, events int) {
	m.accepted.WithLabelValues(op).Inc()
	m.events.Add(float64(events))
}

func (m *metrics) instructionFailed(op string) {
	m.failed.WithLabelValues(op).Inc()
}
