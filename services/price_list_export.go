package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GeneratePriceListExcel writes the live reference tables in the same layout
// the importer reads, so an exported file can be edited and uploaded back.
func GeneratePriceListExcel(tableKeys ...string) ([]byte, error) {
	if len(tableKeys) == 0 {
		tableKeys = AllTableKeys
	}
	fields := PriceListFields()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), priceListSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if err := writePriceListHeader(f, fields); err != nil {
		return nil, err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	columns := columnLetters(len(fields))
	row := 2
	for _, key := range tableKeys {
		for _, rec := range LoadTable(key) {
			values := map[string]any{
				"table_key":        key,
				"product_type":     sanitizeExcelCell(rec.ProductType),
				"product_form":     sanitizeExcelCell(rec.ProductForm),
				"product_solvent":  sanitizeExcelCell(rec.ProductSolvent),
				"therapeutic_area": sanitizeExcelCell(rec.TherapeuticArea),
				"study_name":       sanitizeExcelCell(rec.StudyName),
				"price":            rec.Price,
				"duration":         rec.Duration,
				"discount":         rec.Discount,
			}
			for i, field := range fields {
				f.SetCellValue(priceListSheet, fmt.Sprintf("%s%d", columns[i], row), values[field.Key])
			}
			row++
		}
	}
	if row > 2 {
		last := fmt.Sprintf("%s%d", columns[len(columns)-1], row-1)
		f.SetCellStyle(priceListSheet, "A2", last, cellStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write price list: %w", err)
	}
	return buf.Bytes(), nil
}
