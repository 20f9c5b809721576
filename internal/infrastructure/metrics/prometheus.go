// Package metrics implementa ports.Metrics con contadores de Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/ports"
)

const namespace = "cms"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder contadores de consistencia de importación y facturación.
type Recorder struct {
	importRows     *prometheus.CounterVec
	compensations  *prometheus.CounterVec
	cleanupFails   prometheus.Counter
	updateFailures prometheus.Counter
}

// NewRecorder crea los contadores y los registra en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Filas de importación de clientes por resultado.",
		}, []string{"outcome"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_compensations_total",
			Help:      "Borrados compensatorios de cabeceras de factura por resultado.",
		}, []string{"outcome"}),
		cleanupFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_item_cleanup_failures_total",
			Help:      "Facturas eliminadas cuyas líneas no se pudieron marcar como borradas.",
		}),
		updateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_update_item_failures_total",
			Help:      "Facturas que quedaron sin líneas tras un update fallido.",
		}),
	}
	reg.MustRegister(r.importRows, r.compensations, r.cleanupFails, r.updateFailures)
	return r
}

func (r *Recorder) ObserveImportRow(outcome string) {
	r.importRows.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveCompensation(outcome string) {
	r.compensations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveItemCleanupFailure() { r.cleanupFails.Inc() }

func (r *Recorder) ObserveUpdateItemFailure() { r.updateFailures.Inc() }
