package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const quotationSheet = "Quotation"

// GenerateQuotationExcel renders the quotation lines and totals as an xlsx
// workbook and returns the file contents.
func GenerateQuotationExcel(q Quotation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), quotationSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]
	widths := []float64{10, 48, 8, 16, 18, 14}
	for i, col := range columns {
		if err := f.SetColWidth(quotationSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newQuotationStyles(f)
	if err != nil {
		return nil, err
	}

	title := "Quotation"
	if q.Number != "" {
		title += " " + q.Number
	}
	if err := f.MergeCell(quotationSheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(quotationSheet, "A1", title)
	f.SetCellStyle(quotationSheet, "A1", lastCol+"1", styles.title)

	f.SetCellValue(quotationSheet, "A2", "Date: "+q.Date)
	f.SetCellValue(quotationSheet, "D2", "Valid Till: "+q.ValidTill)
	if q.Customer.Name != "" {
		f.SetCellValue(quotationSheet, "A3", "Customer: "+sanitizeExcelCell(q.Customer.Name))
	}

	headers := []string{"#", "Guideline / Study", "Qty", "Unit Price", "Line Total", "Days"}
	for i, h := range headers {
		f.SetCellValue(quotationSheet, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(quotationSheet, "A5", lastCol+"5", styles.header)

	row := 6
	for i, p := range q.Products {
		r := fmt.Sprint(row)
		number := p.Number
		if number == "" {
			number = fmt.Sprint(i + 1)
		}
		f.SetCellValue(quotationSheet, "A"+r, number)
		f.SetCellValue(quotationSheet, "B"+r, sanitizeExcelCell(p.Title))
		f.SetCellStyle(quotationSheet, "A"+r, lastCol+r, styles.product)
		row++

		if len(p.Details) > 0 {
			r = fmt.Sprint(row)
			f.SetCellValue(quotationSheet, "B"+r, sanitizeExcelCell(strings.Join(p.Details, "; ")))
			f.SetCellStyle(quotationSheet, "A"+r, lastCol+r, styles.detail)
			row++
		}

		for _, g := range p.Guidelines {
			r = fmt.Sprint(row)
			f.SetCellValue(quotationSheet, "B"+r, sanitizeExcelCell(g.Name))
			f.SetCellValue(quotationSheet, "C"+r, g.Qty)
			f.SetCellValue(quotationSheet, "D"+r, g.UnitPrice)
			f.SetCellValue(quotationSheet, "E"+r, g.LineTotal)
			f.SetCellValue(quotationSheet, "F"+r, g.DurationDays)
			f.SetCellStyle(quotationSheet, "A"+r, lastCol+r, styles.line)
			f.SetCellStyle(quotationSheet, "D"+r, "E"+r, styles.money)
			row++
		}
	}

	row++
	summary := []struct {
		label string
		value float64
	}{
		{"Sub Total:", q.Summary.SubTotal},
		{fmt.Sprintf("GST (%.0f%%):", q.Summary.GSTPercent), q.Summary.GSTAmount},
		{"Grand Total:", q.Summary.GrandTotal},
	}
	for _, s := range summary {
		r := fmt.Sprint(row)
		f.SetCellValue(quotationSheet, "D"+r, s.label)
		f.SetCellStyle(quotationSheet, "D"+r, "D"+r, styles.summaryLabel)
		f.SetCellValue(quotationSheet, "E"+r, s.value)
		f.SetCellStyle(quotationSheet, "E"+r, "E"+r, styles.summaryValue)
		row++
	}
	f.SetCellValue(quotationSheet, "A"+fmt.Sprint(row+1), AmountToWords(q.Summary.GrandTotal))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type quotationStyles struct {
	title, header, product, detail, line, money, summaryLabel, summaryValue int
}

func newQuotationStyles(f *excelize.File) (quotationStyles, error) {
	var s quotationStyles
	moneyFmt := "#,##0.00"
	defs := []struct {
		dst   *int
		name  string
		style *excelize.Style
	}{
		{&s.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&s.product, "product", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: thinBorders()}},
		{&s.detail, "detail", &excelize.Style{
			Font:      &excelize.Font{Italic: true, Size: 9, Color: "#555555"},
			Alignment: &excelize.Alignment{WrapText: true},
			Border:    thinBorders(),
		}},
		{&s.line, "line", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&s.money, "money", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{&s.summaryLabel, "summary label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&s.summaryValue, "summary value", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &moneyFmt}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.dst = id
	}
	return s, nil
}

// sanitizeExcelCell prefixes a leading formula character with a quote so
// user text is never evaluated as a formula.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
