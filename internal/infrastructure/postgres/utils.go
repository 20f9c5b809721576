package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPatterns convierte cada texto en un patrón ILIKE de subcadena con los comodines escapados.
func containsPatterns(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, "%"+likeEscaper.Replace(v)+"%")
	}
	return out
}

// nullIfEmpty convierte "" en NULL para columnas opcionales (uuid, texto).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
