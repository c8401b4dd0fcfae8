package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BridgeMetrics holds all Prometheus metrics for the bridge module
type BridgeMetrics struct {
	// Outbound
	PacketsSent *prometheus.CounterVec

	// Inbound
	PacketsReceived *prometheus.CounterVec
	ActionResults   *prometheus.CounterVec

	// Reconciliation
	Acknowledgements     *prometheus.CounterVec
	Timeouts             *prometheus.CounterVec
	Refunds              *prometheus.CounterVec
	AccountingViolations *prometheus.CounterVec
}

var (
	bridgeMetricsOnce sync.Once
	bridgeMetrics     *BridgeMetrics
)

// NewBridgeMetrics creates and registers bridge metrics (singleton pattern)
func NewBridgeMetrics() *BridgeMetrics {
	bridgeMetricsOnce.Do(func() {
		bridgeMetrics = &BridgeMetrics{
			PacketsSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "packets_sent_total",
					Help:      "Total number of packets sent, by channel and action",
				},
				[]string{"channel", "action"},
			),
			PacketsReceived: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "packets_received_total",
					Help:      "Total number of packets received, by channel, action and outcome",
				},
				[]string{"channel", "action", "status"},
			),
			ActionResults: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "action_results_total",
					Help:      "Outcome of actions executed on receipt",
				},
				[]string{"action", "status"},
			),
			Acknowledgements: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "acknowledgements_total",
					Help:      "Acknowledgements processed for sent packets",
				},
				[]string{"channel", "action", "status"},
			),
			Timeouts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "timeouts_total",
					Help:      "Sent packets that timed out",
				},
				[]string{"channel", "action"},
			),
			Refunds: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "refunds_total",
					Help:      "Escrow refunds issued after an error ack or timeout",
				},
				[]string{"channel", "denom"},
			),
			AccountingViolations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cwosmo",
					Subsystem: "bridge",
					Name:      "accounting_violations_total",
					Help:      "Reductions that would have driven an outstanding balance negative",
				},
				[]string{"channel", "denom"},
			),
		}
	})
	return bridgeMetrics
}
