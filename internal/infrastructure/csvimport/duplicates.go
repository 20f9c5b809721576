package csvimport

import (
	"strings"
	"unicode"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/search"
)

// IdentityKey clave de identidad de una fila: email en minúsculas si lo hay; si no,
// nombre normalizado + dígitos del teléfono.
func IdentityKey(row dto.ImportRow) string {
	if email := strings.ToLower(strings.TrimSpace(row.Email)); email != "" {
		return "email:" + email
	}
	name := strings.ToLower(search.NormalizeSearchQuery(row.Name))
	return "name:" + name + "|" + digits(search.NormalizeSearchQuery(row.Phone))
}

// DetectDuplicates separa las filas cuya clave ya apareció antes en el mismo archivo.
// No consulta el almacén: reimportar el mismo archivo crea clientes repetidos.
func (p *Parser) DetectDuplicates(rows []dto.ImportRow) ([]dto.ImportRow, []dto.DuplicateSkipped) {
	unique := make([]dto.ImportRow, 0, len(rows))
	duplicates := make([]dto.DuplicateSkipped, 0)
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		key := IdentityKey(row)
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, dto.DuplicateSkipped{Row: row.Line, Key: key})
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, row)
	}
	return unique, duplicates
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
