package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/ports"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
)

// ImportParser colaborador que lee el archivo y separa las filas repetidas.
type ImportParser interface {
	Parse(raw []byte, format string) ([]dto.ImportRow, []dto.ParseError, error)
	DetectDuplicates(rows []dto.ImportRow) ([]dto.ImportRow, []dto.DuplicateSkipped)
	Template() ([]byte, error)
	TemplateXLSX() ([]byte, error)
	// Decode pasa un CSV en la codificación indicada a UTF-8.
	Decode(raw []byte, encoding string) ([]byte, error)
}

// ImportUseCase importación masiva de clientes.
// Las filas se procesan en orden y de una en una: el fallo de una fila no afecta a las demás
// y no se deshacen sus efectos parciales (p. ej. cliente creado con el vínculo de etiquetas fallido).
type ImportUseCase struct {
	parser    ImportParser
	customers *UseCase
	metrics   ports.Metrics
	log       *logger.Logger
	maxBytes  int
}

// NewImportUseCase construye el caso de uso. maxBytes <= 0 desactiva el límite de tamaño.
func NewImportUseCase(parser ImportParser, customers *UseCase, metrics ports.Metrics, log *logger.Logger, maxBytes int) *ImportUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ImportUseCase{
		parser:    parser,
		customers: customers,
		metrics:   metrics,
		log:       log.Child("customer_import"),
		maxBytes:  maxBytes,
	}
}

// rowOutcome resultado de procesar una fila única. err nil = éxito.
type rowOutcome struct {
	line    int
	err     error
	payload map[string]string
}

// Import lee el archivo, descarta repetidos y crea un cliente por fila única.
// Solo un archivo estructuralmente inválido hace fallar la petición entera.
func (uc *ImportUseCase) Import(ctx context.Context, raw []byte, format string) (*dto.ImportSummary, error) {
	if uc.maxBytes > 0 && len(raw) > uc.maxBytes {
		return nil, domain.Validation(fmt.Sprintf("el archivo supera el máximo de %d bytes", uc.maxBytes))
	}
	rows, parseErrors, err := uc.parser.Parse(raw, format)
	if err != nil {
		return nil, err
	}
	unique, duplicates := uc.parser.DetectDuplicates(rows)
	uc.log.Info().
		Int("rows", len(rows)).
		Int("parse_errors", len(parseErrors)).
		Int("duplicates", len(duplicates)).
		Msg("importación iniciada")

	outcomes := make([]rowOutcome, 0, len(unique))
	for _, row := range unique {
		outcomes = append(outcomes, uc.importRow(ctx, row))
	}

	summary := buildSummary(len(rows), parseErrors, duplicates, outcomes)
	for range duplicates {
		uc.metrics.ObserveImportRow(ports.OutcomeSkipped)
	}
	uc.log.Info().
		Int("total", summary.Total).
		Int("success", summary.Success).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("importación terminada")
	return summary, nil
}

// ImportEncoded como Import, pero antes convierte un CSV desde encoding (utf8, sjis) a UTF-8.
func (uc *ImportUseCase) ImportEncoded(ctx context.Context, raw []byte, format, encoding string) (*dto.ImportSummary, error) {
	if strings.EqualFold(format, "csv") && encoding != "" {
		decoded, err := uc.parser.Decode(raw, encoding)
		if err != nil {
			return nil, domain.Validation(err.Error())
		}
		raw = decoded
	}
	return uc.Import(ctx, raw, format)
}

// Template plantilla del archivo de importación en el formato pedido.
func (uc *ImportUseCase) Template(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return uc.parser.Template()
	case "xlsx":
		return uc.parser.TemplateXLSX()
	default:
		return nil, domain.Validation(fmt.Sprintf("formato de plantilla no admitido: %q", format))
	}
}

func (uc *ImportUseCase) importRow(ctx context.Context, row dto.ImportRow) rowOutcome {
	in := dto.CustomerRequest{
		CustomerType: row.CustomerType,
		Name:         row.Name,
		NameKana:     row.NameKana,
		CompanyName:  row.CompanyName,
		Email:        row.Email,
		Phone:        row.Phone,
		PostalCode:   row.PostalCode,
		Address:      row.Address,
		Class:        row.Class,
		Notes:        row.Notes,
		Tags:         tag.SplitNames(row.Tags),
	}
	_, err := uc.customers.create(ctx, in)
	if err != nil {
		uc.log.Debug().Err(err).Int("row", row.Line).Msg("fila de importación fallida")
		uc.metrics.ObserveImportRow(ports.OutcomeFailed)
		return rowOutcome{line: row.Line, err: err, payload: row.Raw}
	}
	uc.metrics.ObserveImportRow(ports.OutcomeSuccess)
	return rowOutcome{line: row.Line}
}

// summary acumulador inmutable: add devuelve un valor nuevo.
type summary struct {
	success   int
	rowErrors []dto.ImportRowError
}

func (s summary) add(o rowOutcome) summary {
	if o.err == nil {
		s.success++
		return s
	}
	errs := make([]dto.ImportRowError, len(s.rowErrors), len(s.rowErrors)+1)
	copy(errs, s.rowErrors)
	s.rowErrors = append(errs, dto.ImportRowError{
		Kind:    dto.ImportErrorRow,
		Row:     o.line,
		Message: errorMessage(o.err),
		Data:    o.payload,
	})
	return s
}

// buildSummary: total = filas leídas + errores de lectura; failed = filas fallidas + errores de lectura.
// Errores: primero los de lectura y después los de escritura, cada grupo por línea.
func buildSummary(parsed int, parseErrors []dto.ParseError, duplicates []dto.DuplicateSkipped, outcomes []rowOutcome) *dto.ImportSummary {
	acc := summary{}
	for _, o := range outcomes {
		acc = acc.add(o)
	}

	errs := make([]dto.ImportRowError, 0, len(parseErrors)+len(acc.rowErrors))
	for _, pe := range parseErrors {
		errs = append(errs, dto.ImportRowError{Kind: dto.ImportErrorParse, Row: pe.Line, Message: pe.Message})
	}
	errs = append(errs, acc.rowErrors...)

	dups := make([]dto.DuplicateSkipped, len(duplicates))
	copy(dups, duplicates)

	return &dto.ImportSummary{
		Total:      parsed + len(parseErrors),
		Success:    acc.success,
		Failed:     len(acc.rowErrors) + len(parseErrors),
		Skipped:    len(duplicates),
		Errors:     errs,
		Duplicates: dups,
	}
}

// errorMessage mensaje legible de un fallo de fila, con el detalle por campo si lo hay.
func errorMessage(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return err.Error()
	}
	if len(de.Fields) == 0 {
		return de.Message
	}
	parts := make([]string, 0, len(de.Fields))
	for _, f := range de.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return de.Message + ": " + strings.Join(parts, ", ")
}
