package csvimport

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Codificaciones de entrada admitidas para CSV.
const (
	EncodingUTF8     = "utf8"
	EncodingShiftJIS = "sjis"
)

// Decode convierte raw a UTF-8 (método para cumplir la interfaz del importador).
func (p *Parser) Decode(raw []byte, encoding string) ([]byte, error) { return Decode(raw, encoding) }

// Decode convierte raw a UTF-8. Excel en japonés suele exportar CSV en Shift_JIS.
// XLSX siempre es UTF-8 internamente y no debe pasar por aquí.
func Decode(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "", EncodingUTF8:
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("el archivo no es UTF-8 válido (¿Shift_JIS?)")
		}
		return raw, nil
	case EncodingShiftJIS, "shiftjis", "shift_jis", "cp932":
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), japanese.ShiftJIS.NewDecoder()))
		if err != nil {
			return nil, fmt.Errorf("decodificar Shift_JIS: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codificación no admitida: %q", encoding)
	}
}
