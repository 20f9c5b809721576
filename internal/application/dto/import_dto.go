package dto

// Tipos de entrada en ImportSummary.Errors.
const (
	ImportErrorParse = "parse" // la fila no se pudo leer
	ImportErrorRow   = "row"   // la fila se leyó pero su escritura falló
)

// ImportRowError error atribuido a una fila del archivo. Row es la línea del archivo (cabecera = 1).
type ImportRowError struct {
	Kind    string            `json:"kind"`
	Row     int               `json:"row"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// DuplicateSkipped fila omitida por repetir la clave de identidad de una fila anterior del mismo archivo.
type DuplicateSkipped struct {
	Row int    `json:"row"`
	Key string `json:"key"`
}

// ImportSummary resultado de POST /api/customers/import.
// Total = filas leídas + errores de lectura; Failed incluye los errores de lectura.
type ImportSummary struct {
	Total      int                `json:"total"`
	Success    int                `json:"success"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
	Errors     []ImportRowError   `json:"errors"`
	Duplicates []DuplicateSkipped `json:"duplicates"`
}

// ImportRow fila leída del archivo de importación. Line es la línea del archivo (cabecera = 1).
// Raw conserva los valores originales por columna para informar errores.
type ImportRow struct {
	Line         int
	CustomerType string
	Name         string
	NameKana     string
	CompanyName  string
	Email        string
	Phone        string
	PostalCode   string
	Address      string
	Class        string
	Notes        string
	Tags         string // separadas por comas
	Raw          map[string]string
}

// ParseError fila que no se pudo leer. No aborta la importación.
type ParseError struct {
	Line    int
	Message string
}
