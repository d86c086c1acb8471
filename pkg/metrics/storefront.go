package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// StorefrontMetrics records state machine activity and store health.
type StorefrontMetrics struct {
	storageOps   *prometheus.CounterVec
	mutations    *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	droppedEvent prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	storageOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_operations_total",
		Help: "Persistent store reads and writes by outcome.",
	}, []string{"op", "key", "result"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "state_mutations_total",
		Help: "Cart and wishlist mutations applied in memory.",
	}, []string{"collection", "op"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "form_submissions_total",
		Help: "Checkout and contact form submissions by outcome.",
	}, []string{"form", "result"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_events_dropped_total",
		Help: "Wishlist notifications replaced before a slow subscriber read them.",
	})
	reg.MustRegister(storageOps, mutations, submissions, dropped)
	return &StorefrontMetrics{
		storageOps:   storageOps,
		mutations:    mutations,
		submissions:  submissions,
		droppedEvent: dropped,
	}
}

// ObserveStorage counts a store read ("get") or write ("set").
func (m *StorefrontMetrics) ObserveStorage(op, key string, err error) {
	if m == nil || m.storageOps == nil {
		return
	}
	m.storageOps.WithLabelValues(normalizeLabel(op), normalizeLabel(key), resultLabel(err)).Inc()
}

// IncMutation counts an applied cart or wishlist operation.
func (m *StorefrontMetrics) IncMutation(collection, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(collection), normalizeLabel(op)).Inc()
}

// ObserveSubmission counts a form submission.
func (m *StorefrontMetrics) ObserveSubmission(form string, err error) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(form), resultLabel(err)).Inc()
}

// IncDroppedEvent counts a notification overwritten in a subscriber buffer.
func (m *StorefrontMetrics) IncDroppedEvent() {
	if m == nil || m.droppedEvent == nil {
		return
	}
	m.droppedEvent.Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
