package ports

// Resultados de fila de importación y de compensación, usados como etiqueta de métrica.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Metrics puerto de salida para contadores de consistencia.
// El adaptador Prometheus vive en infrastructure/metrics; NopMetrics sirve para tests y CLI.
type Metrics interface {
	// ObserveImportRow cuenta una fila de importación por resultado (success | failed | skipped).
	ObserveImportRow(outcome string)
	// ObserveCompensation cuenta un borrado compensatorio de cabecera de factura (success | failed).
	ObserveCompensation(outcome string)
	// ObserveItemCleanupFailure cuenta fallos del borrado lógico de líneas al eliminar una factura.
	ObserveItemCleanupFailure()
	// ObserveUpdateItemFailure cuenta facturas que quedaron sin líneas tras un update fallido.
	ObserveUpdateItemFailure()
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) ObserveImportRow(string)    {}
func (NopMetrics) ObserveCompensation(string) {}
func (NopMetrics) ObserveItemCleanupFailure() {}
func (NopMetrics) ObserveUpdateItemFailure()  {}
