package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payswitch_payments_created_total",
		Help: "Payments accepted and reserved, including idempotent replays",
	})

	paymentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payswitch_payments_resolved_total",
		Help: "Payments driven to a terminal state, labeled by outcome",
	}, []string{"status"})

	pspDispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payswitch_psp_dispatch_failures_total",
		Help: "PSP calls that failed at the transport level and were left for reconciliation",
	})
)
