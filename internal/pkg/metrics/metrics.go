package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "token_balance"

// Lookup outcomes recorded by BalanceLookups.
const (
	LookupResolved    = "resolved"
	LookupUnresolved  = "unresolved"
	LookupStoreMiss   = "store_miss"
	LookupConfigError = "config_error"
)

var (
	// BalanceLookups counts balance lookups by outcome.
	BalanceLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_lookups_total",
		Help:      "Balance lookups by outcome.",
	}, []string{"outcome"})

	// PriceUpdates counts USD price updates received from the price feed.
	PriceUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_updates_total",
		Help:      "USD unit price updates applied to catalog tokens.",
	})

	// StoredBalances reports the number of entries in the balance snapshot.
	StoredBalances = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_balances",
		Help:      "Raw balances currently held in the balance store.",
	})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with reg once.
func MustRegisterMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(BalanceLookups, PriceUpdates, StoredBalances)
	})
}
