package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const priceListSheet = "Price List"

// GeneratePriceListTemplate creates an empty .xlsx price list with the
// expected headers, a table dropdown and a hidden Instructions sheet.
func GeneratePriceListTemplate() ([]byte, error) {
	fields := PriceListFields()

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, priceListSheet)

	if err := writePriceListHeader(f, fields); err != nil {
		return nil, err
	}

	for i, field := range fields {
		if field.Key != "table_key" {
			continue
		}
		col := columnLetters(len(fields))[i]
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", col, col)
		dv.SetDropList(AllTableKeys)
		f.AddDataValidation(priceListSheet, dv)
	}

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write price list template: %w", err)
	}
	return buf.Bytes(), nil
}

// writePriceListHeader writes row 1 and freezes it. Required columns get a
// trailing " *" and a blue fill.
func writePriceListHeader(f *excelize.File, fields []PriceListField) error {
	requiredHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	optionalHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"
		header := field.Label
		style := optionalHeaderStyle
		if field.Required {
			header += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(priceListSheet, cell, header)
		f.SetCellStyle(priceListSheet, cell, cell, style)
		f.SetColWidth(priceListSheet, columns[i], columns[i], field.Width)
	}

	f.SetPanes(priceListSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

// addInstructionsSheet creates a hidden sheet describing every column.
func addInstructionsSheet(f *excelize.File, fields []PriceListField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Price List Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)
	f.SetCellValue(instSheet, "A2", "Each import replaces every study of the tables it mentions.")

	cols := columnLetters(5)
	for i, h := range []string{"Field Name", "Required?", "Format Rule", "Description", "Example"} {
		cell := cols[i] + "4"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+5)
		reqLabel := "Optional"
		if field.Required {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	for i, w := range []float64{20, 12, 30, 50, 30} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
