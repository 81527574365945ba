// Package metrics holds Prometheus collectors for the order workflow.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics counts outcomes of order creation and attachment handling.
// A nil *OrderMetrics is valid and records nothing.
type OrderMetrics struct {
	ordersCreated        *prometheus.CounterVec
	attachmentUploads    *prometheus.CounterVec
	rollbacks            prometheus.Counter
	compensationFailures prometheus.Counter
	objectCleanupErrors  prometheus.Counter
}

// NewOrderMetrics registers the order collectors on registerer, reusing any
// that are already registered.
func NewOrderMetrics(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &OrderMetrics{
		ordersCreated: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "printshop_orders_created_total",
			Help: "Total number of orders created.",
		}, []string{"with_files"}),
		attachmentUploads: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "printshop_attachment_uploads_total",
			Help: "Total number of order attachment uploads by result.",
		}, []string{"result"}),
		rollbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "printshop_attachment_rollbacks_total",
			Help: "Total number of order creations rolled back after an upload or update failure.",
		}),
		compensationFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "printshop_compensation_failures_total",
			Help: "Total number of compensating object deletes that failed.",
		}),
		objectCleanupErrors: registerCounter(registerer, prometheus.CounterOpts{
			Name: "printshop_object_cleanup_errors_total",
			Help: "Total number of object deletes that failed while removing orders or banners.",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated counts a persisted order.
func (m *OrderMetrics) RecordOrderCreated(withFiles bool) {
	if m == nil {
		return
	}
	label := "false"
	if withFiles {
		label = "true"
	}
	m.ordersCreated.WithLabelValues(label).Inc()
}

// RecordUpload counts one attachment upload attempt.
func (m *OrderMetrics) RecordUpload(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.attachmentUploads.WithLabelValues(result).Inc()
}

// RecordRollback counts a create-with-files workflow that was compensated.
func (m *OrderMetrics) RecordRollback() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}

// RecordCompensationFailure counts a compensating delete that failed.
func (m *OrderMetrics) RecordCompensationFailure() {
	if m == nil {
		return
	}
	m.compensationFailures.Inc()
}

// RecordCleanupError counts a best-effort object delete that failed.
func (m *OrderMetrics) RecordCleanupError() {
	if m == nil {
		return
	}
	m.objectCleanupErrors.Inc()
}
