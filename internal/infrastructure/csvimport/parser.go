// Package csvimport lee archivos de importación de clientes (CSV o XLSX), detecta filas repetidas
// dentro del mismo archivo y genera la plantilla de importación.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

// Formatos de archivo admitidos.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Columns columnas reconocidas, en el orden de la plantilla.
var Columns = []string{
	"customer_type", "name", "name_kana", "company_name", "email",
	"phone", "postal_code", "address", "class", "notes", "tags",
}

// Cabeceras en japonés aceptadas como alias.
var headerAliases = map[string]string{
	"顧客種別":    "customer_type",
	"氏名":      "name",
	"名前":      "name",
	"フリガナ":    "name_kana",
	"会社名":     "company_name",
	"メールアドレス": "email",
	"電話番号":    "phone",
	"郵便番号":    "postal_code",
	"住所":      "address",
	"クラス":     "class",
	"備考":      "notes",
	"タグ":      "tags",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser colaborador de lectura. Sin estado; seguro para uso concurrente.
type Parser struct{}

// NewParser construye el parser.
func NewParser() *Parser { return &Parser{} }

type record struct {
	line   int
	fields []string
}

// Parse lee raw según format y devuelve las filas válidas y los errores por fila.
// Un archivo sin cabecera, sin columna name o con formato desconocido falla entero (KindValidation).
func (p *Parser) Parse(raw []byte, format string) ([]dto.ImportRow, []dto.ParseError, error) {
	var (
		header      []string
		records     []record
		parseErrors []dto.ParseError
		err         error
	)
	switch strings.ToLower(format) {
	case "", FormatCSV:
		header, records, parseErrors, err = readCSV(raw)
	case FormatXLSX:
		header, records, err = readXLSX(raw)
	default:
		return nil, nil, domain.Validation(fmt.Sprintf("formato de archivo no admitido: %q", format))
	}
	if err != nil {
		return nil, nil, err
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]dto.ImportRow, 0, len(records))
	for _, rec := range records {
		row, msg := toRow(index, header, rec)
		if msg != "" {
			parseErrors = append(parseErrors, dto.ParseError{Line: rec.line, Message: msg})
			continue
		}
		rows = append(rows, row)
	}
	return rows, sortParseErrors(parseErrors), nil
}

func readCSV(raw []byte) ([]string, []record, []dto.ParseError, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil, domain.Validation("el archivo está vacío")
	}
	if err != nil {
		return nil, nil, nil, domain.Validation("no se pudo leer la cabecera del CSV", domain.FieldError{Field: "file", Message: err.Error()})
	}

	var (
		records     []record
		parseErrors []dto.ParseError
	)
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				parseErrors = append(parseErrors, dto.ParseError{Line: pe.StartLine, Message: pe.Err.Error()})
				continue
			}
			return nil, nil, nil, domain.Internal("IMPORT_READ", "error leyendo el CSV", err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
	return header, records, parseErrors, nil
}

func readXLSX(raw []byte) ([]string, []record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, domain.Validation("no se pudo abrir el archivo XLSX", domain.FieldError{Field: "file", Message: err.Error()})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, domain.Validation("el archivo está vacío")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, domain.Validation("no se pudo leer la hoja", domain.FieldError{Field: "file", Message: err.Error()})
	}
	if len(rows) == 0 {
		return nil, nil, domain.Validation("el archivo está vacío")
	}

	records := make([]record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		records = append(records, record{line: i + 1, fields: rows[i]})
	}
	return rows[0], records, nil
}

func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := headerAliases[strings.TrimSpace(h)]; ok {
			key = alias
		}
		if _, dup := index[key]; !dup && key != "" {
			index[key] = i
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, domain.Validation("falta la columna obligatoria", domain.FieldError{Field: "name", Message: "columna obligatoria"})
	}
	return index, nil
}

// toRow devuelve la fila o un mensaje de error de lectura.
func toRow(index map[string]int, header []string, rec record) (dto.ImportRow, string) {
	if len(rec.fields) > len(header) {
		return dto.ImportRow{}, fmt.Sprintf("la fila tiene %d columnas y la cabecera %d", len(rec.fields), len(header))
	}
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec.fields) {
			return ""
		}
		return strings.TrimSpace(rec.fields[i])
	}

	raw := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(rec.fields) {
			raw[strings.TrimSpace(h)] = rec.fields[i]
		}
	}

	row := dto.ImportRow{
		Line:         rec.line,
		CustomerType: strings.ToLower(get("customer_type")),
		Name:         get("name"),
		NameKana:     get("name_kana"),
		CompanyName:  get("company_name"),
		Email:        get("email"),
		Phone:        get("phone"),
		PostalCode:   get("postal_code"),
		Address:      get("address"),
		Class:        get("class"),
		Notes:        get("notes"),
		Tags:         get("tags"),
		Raw:          raw,
	}
	if row.Name == "" {
		return dto.ImportRow{}, "name es obligatorio"
	}
	switch row.CustomerType {
	case "":
		row.CustomerType = entity.CustomerTypePersonal
	case entity.CustomerTypePersonal, entity.CustomerTypeCompany:
	default:
		return dto.ImportRow{}, fmt.Sprintf("customer_type inválido: %q", row.CustomerType)
	}
	return row, ""
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// sortParseErrors ordena por línea conservando el orden de detección en la misma línea.
func sortParseErrors(errs []dto.ParseError) []dto.ParseError {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
	return errs
}
