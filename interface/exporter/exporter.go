package exporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT       = "error_count"
	METRIC_OPERATION_COUNT   = "operation_count"
	METRIC_INSTRUCTION_COUNT = "instruction_count"
	METRIC_RELAY_COUNT       = "relay_count"
)

var (
	once     sync.Once
	counters map[string]prometheus.Counter
	vectors  map[string]*prometheus.CounterVec
)

// Init registers the ledger metrics on the default registry. Until it is called every helper
// below is a no-op, which keeps tests free of global registrations.
func Init() {
	once.Do(func() {
		Register(prometheus.DefaultRegisterer)
	})
}

func Register(registerer prometheus.Registerer) {

	// Create metric spaces
	counters = make(map[string]prometheus.Counter)
	vectors = make(map[string]*prometheus.CounterVec)

	// Register metrics
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wefund",
		Subsystem: "ledger",
		Name:      METRIC_ERROR_COUNT,
		Help:      "Counts the number of failed operations and relays",
	})
	registerer.MustRegister(counter)
	counters[METRIC_ERROR_COUNT] = counter

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wefund",
		Subsystem: "ledger",
		Name:      METRIC_OPERATION_COUNT,
		Help:      "Counts the executed operations by kind and result",
	}, []string{"kind", "result"})
	registerer.MustRegister(operations)
	vectors[METRIC_OPERATION_COUNT] = operations

	instructions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wefund",
		Subsystem: "ledger",
		Name:      METRIC_INSTRUCTION_COUNT,
		Help:      "Counts the emitted transfer instructions by kind",
	}, []string{"kind"})
	registerer.MustRegister(instructions)
	vectors[METRIC_INSTRUCTION_COUNT] = instructions

	relays := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wefund",
		Subsystem: "relay",
		Name:      METRIC_RELAY_COUNT,
		Help:      "Counts the relayed instructions by resulting state",
	}, []string{"state"})
	registerer.MustRegister(relays)
	vectors[METRIC_RELAY_COUNT] = relays
}

func GetCounter(name string) prometheus.Counter {
	return counters[name]
}

func IncErrorCount() {
	if counter, ok := counters[METRIC_ERROR_COUNT]; ok {
		counter.Inc()
	}
}

func IncOperationCount(kind string, result string) {
	if vec, ok := vectors[METRIC_OPERATION_COUNT]; ok {
		vec.WithLabelValues(kind, result).Inc()
	}
}

func IncInstructionCount(kind string) {
	if vec, ok := vectors[METRIC_INSTRUCTION_COUNT]; ok {
		vec.WithLabelValues(kind).Inc()
	}
}

func IncRelayCount(state string) {
	if vec, ok := vectors[METRIC_RELAY_COUNT]; ok {
		vec.WithLabelValues(state).Inc()
	}
}
