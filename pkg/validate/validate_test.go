package validate_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/validate"
)

type line struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type sample struct {
	Kind    string `json:"kind" validate:"required,oneof=personal company"`
	Company string `json:"company" validate:"required_if=Kind company"`
	Email   string `json:"email" validate:"omitempty,email"`
	Lines   []line `json:"lines" validate:"min=1,dive"`
}

func TestStruct_OK(t *testing.T) {
	err := validate.Struct(sample{Kind: "personal", Lines: []line{{Quantity: decimal.RequireFromString("0.5")}}})
	assert.NoError(t, err)
}

func TestStruct_FieldErrors(t *testing.T) {
	err := validate.Struct(sample{
		Kind:  "company",
		Email: "no-es-email",
		Lines: []line{{Quantity: decimal.Zero}},
	})
	require.Error(t, err)

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.KindValidation, de.Kind)

	fields := map[string]string{}
	for _, f := range de.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "company")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "lines[0].quantity")
	assert.Len(t, de.Fields, 3)
}

func TestStruct_OneOf(t *testing.T) {
	err := validate.Struct(sample{Kind: "otro", Lines: []line{{Quantity: decimal.NewFromInt(1)}}})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
