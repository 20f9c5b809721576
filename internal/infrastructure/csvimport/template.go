package csvimport

import (
	"bytes"
	"encoding/csv"

	"github.com/xuri/excelize/v2"
)

var templateExample = []string{
	"personal", "山田 太郎", "ヤマダ タロウ", "", "yamada@example.com",
	"090-1234-5678", "100-0001", "東京都千代田区千代田1-1", "月曜10時", "", "VIP,New",
}

// Template plantilla CSV (con BOM para Excel): cabecera y una fila de ejemplo.
func (p *Parser) Template() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{Columns, templateExample}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TemplateXLSX la misma plantilla como libro XLSX.
func (p *Parser) TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &Columns); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A2", &templateExample); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
