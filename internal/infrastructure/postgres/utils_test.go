package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestContainsPatterns_EscapesWildcards(t *testing.T) {
	got := containsPatterns([]string{"さとう", "50%_off", `a\b`})
	assert.Equal(t, []string{"%さとう%", `%50\%\_off%`, `%a\\b%`}, got)
}

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert tag: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert items: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	if p := nullIfEmpty("x"); assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
	}
}
