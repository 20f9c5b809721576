package csvimport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/csvimport"
)

// ─── Parse CSV ─────────────────────────────────────────────────────────────────

func TestParse_CSV(t *testing.T) {
	raw := "\ufeffName,Email,Tags,customer_type\n" +
		"Yamada,a@a.com,\"VIP,New\",\n" +
		"\n" +
		",b@b.com,,\n" +
		"Suzuki,c@c.com,,vendor\n" +
		"Sato,d@d.com,,company\n"

	rows, parseErrors, err := csvimport.NewParser().Parse([]byte(raw), csvimport.FormatCSV)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Yamada", rows[0].Name)
	assert.Equal(t, "VIP,New", rows[0].Tags)
	assert.Equal(t, "personal", rows[0].CustomerType, "tipo por defecto")
	assert.Equal(t, "a@a.com", rows[0].Raw["Email"])
	assert.Equal(t, 6, rows[1].Line, "la línea en blanco cuenta")
	assert.Equal(t, "company", rows[1].CustomerType)

	require.Len(t, parseErrors, 2)
	assert.Equal(t, 4, parseErrors[0].Line)
	assert.Equal(t, 5, parseErrors[1].Line)
}

func TestParse_CSVMalformedRowDoesNotAbort(t *testing.T) {
	raw := "name,email\n" +
		"Yamada,a@a.com\n" +
		"Ta\"naka,b@b.com\n" +
		"Sato,c@c.com,extra\n" +
		"Suzuki,d@d.com\n"

	rows, parseErrors, err := csvimport.NewParser().Parse([]byte(raw), "")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Yamada", rows[0].Name)
	assert.Equal(t, "Suzuki", rows[1].Name)
	require.Len(t, parseErrors, 2)
	assert.Equal(t, 3, parseErrors[0].Line)
	assert.Equal(t, 4, parseErrors[1].Line)
}

func TestParse_ParseErrorsOrderedByLine(t *testing.T) {
	// la fila sin nombre se detecta después que la comilla suelta, pero va antes en el archivo
	raw := "name,email\n" +
		",a@a.com\n" +
		"Yamada,b@b.com\n" +
		"Ta\"naka,c@c.com\n" +
		",d@d.com\n"

	rows, parseErrors, err := csvimport.NewParser().Parse([]byte(raw), "csv")
	require.NoError(t, err)

	require.Len(t, rows, 1)
	lines := make([]int, 0, len(parseErrors))
	for _, pe := range parseErrors {
		lines = append(lines, pe.Line)
	}
	assert.Equal(t, []int{2, 4, 5}, lines)
}

func TestParse_JapaneseHeaders(t *testing.T) {
	raw := "氏名,メールアドレス,タグ\n山田,a@a.com,VIP\n"
	rows, _, err := csvimport.NewParser().Parse([]byte(raw), "csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "山田", rows[0].Name)
	assert.Equal(t, "a@a.com", rows[0].Email)
	assert.Equal(t, "VIP", rows[0].Tags)
}

func TestParse_StructuralFailures(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format string
	}{
		{"vacío", "", "csv"},
		{"sin columna name", "email,phone\na@a.com,1\n", "csv"},
		{"formato desconocido", "name\nx\n", "json"},
		{"xlsx inválido", "no es un zip", "xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := csvimport.NewParser().Parse([]byte(tt.raw), tt.format)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

// ─── Parse XLSX ────────────────────────────────────────────────────────────────

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"name", "email", "tags"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Yamada", "a@a.com", "VIP"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]string{"Sato"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, parseErrors, err := csvimport.NewParser().Parse(buf.Bytes(), csvimport.FormatXLSX)
	require.NoError(t, err)
	assert.Empty(t, parseErrors)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "VIP", rows[0].Tags)
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "", rows[1].Email)
}

// ─── DetectDuplicates ──────────────────────────────────────────────────────────

func TestDetectDuplicates(t *testing.T) {
	rows := []dto.ImportRow{
		{Line: 2, Name: "Yamada", Email: "a@a.com"},
		{Line: 3, Name: "Yamada2", Email: " A@A.com "},
		{Line: 4, Name: "Sato", Phone: "090-1111-2222"},
		{Line: 5, Name: "ｓａｔｏ", Phone: "09011112222"},
		{Line: 6, Name: "Sato", Phone: "080"},
	}
	unique, duplicates := csvimport.NewParser().DetectDuplicates(rows)

	require.Len(t, unique, 3)
	assert.Equal(t, []int{2, 4, 6}, []int{unique[0].Line, unique[1].Line, unique[2].Line})
	require.Len(t, duplicates, 2)
	assert.Equal(t, 3, duplicates[0].Row)
	assert.Equal(t, "email:a@a.com", duplicates[0].Key)
	assert.Equal(t, 5, duplicates[1].Row)
}

// ─── Template ──────────────────────────────────────────────────────────────────

func TestTemplate_RoundTrips(t *testing.T) {
	p := csvimport.NewParser()

	csvTpl, err := p.Template()
	require.NoError(t, err)
	rows, parseErrors, err := p.Parse(csvTpl, csvimport.FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, parseErrors)
	require.Len(t, rows, 1)
	assert.Equal(t, "VIP,New", rows[0].Tags)

	xlsxTpl, err := p.TemplateXLSX()
	require.NoError(t, err)
	rows, _, err = p.Parse(xlsxTpl, csvimport.FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "山田 太郎", rows[0].Name)
}
