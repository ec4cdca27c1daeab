package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var percentPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?\s*%?$`)

// RowError is a field-level problem on one row of an uploaded price list.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PriceListValidation is returned after parsing and validating an upload.
type PriceListValidation struct {
	TotalRows int        `json:"total_rows"`
	ValidRows int        `json:"valid_rows"`
	ErrorRows int        `json:"error_rows"`
	Tables    []string   `json:"tables"`
	Errors    []RowError `json:"errors"`

	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// OK reports whether the upload can be committed.
func (v *PriceListValidation) OK() bool {
	return v.TotalRows > 0 && v.ErrorRows == 0
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the
// price list sheet, or the first sheet when it is missing.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := priceListSheet
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to field keys. Returns the
// key per column ("" for unrecognized columns) and the unrecognized headers.
func mapHeadersToFields(headers []string, fields []PriceListField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip the trailing " *" the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidatePriceListFile parses an uploaded .csv or .xlsx price list and
// validates every row.
func ValidatePriceListFile(file io.Reader, fileName string) (*PriceListValidation, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := PriceListFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)
	for _, f := range fields {
		if f.Required && !slices.Contains(columnKeys, f.Key) {
			return nil, fmt.Errorf("missing required column %q", f.Label)
		}
	}

	rows := make([]map[string]string, 0, len(dataRows))
	for _, row := range dataRows {
		rowData := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
			if rowData[key] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, rowData)
	}

	result := validatePriceListRows(rows)
	result.FileName = fileName
	return result, nil
}

// validatePriceListRows checks required values, number formats, table keys
// and duplicate (table, area, study) triples.
func validatePriceListRows(rows []map[string]string) *PriceListValidation {
	fields := PriceListFields()
	result := &PriceListValidation{
		TotalRows:  len(rows),
		ParsedRows: rows,
	}

	seen := make(map[string]int)
	tables := make(map[string]bool)
	errorRowSet := make(map[int]bool)
	add := func(e RowError) {
		result.Errors = append(result.Errors, e)
		errorRowSet[e.Row] = true
	}

	for i, rowData := range rows {
		rowNum := i + 2 // 1-indexed, +1 for header row

		for _, f := range fields {
			if f.Required && rowData[f.Key] == "" {
				add(RowError{Row: rowNum, Field: f.Label, Message: fmt.Sprintf("%s is required", f.Label)})
			}
		}

		key := rowData["table_key"]
		if key != "" {
			if !slices.Contains(AllTableKeys, key) {
				add(RowError{Row: rowNum, Field: "Table", Message: fmt.Sprintf("Unknown table %q", key)})
			} else {
				tables[key] = true
			}
		}
		if v := rowData["price"]; v != "" {
			if n, err := cast.ToIntE(v); err != nil || n < 0 {
				add(RowError{Row: rowNum, Field: "Price", Message: "Price must be a whole number, 0 or more"})
			}
		}
		if v := rowData["duration"]; v != "" {
			if n, err := cast.ToIntE(v); err != nil || n < 1 {
				add(RowError{Row: rowNum, Field: "Duration", Message: "Duration must be a whole number of days"})
			}
		}
		if v := rowData["discount"]; v != "" && !percentPattern.MatchString(v) {
			add(RowError{Row: rowNum, Field: "Duration Buffer", Message: "Duration buffer must be a percentage such as 5%"})
		}

		if rowData["therapeutic_area"] != "" && rowData["study_name"] != "" {
			dupKey := key + "\x00" + rowData["therapeutic_area"] + "\x00" + rowData["study_name"]
			if first, ok := seen[dupKey]; ok {
				add(RowError{Row: rowNum, Field: "Study Name", Message: fmt.Sprintf("Duplicate of row %d", first)})
			} else {
				seen[dupKey] = rowNum
			}
		}
	}

	for _, key := range AllTableKeys {
		if tables[key] {
			result.Tables = append(result.Tables, key)
		}
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result
}

// PriceListRecords converts validated rows into reference tables keyed by
// table key. A blank product type takes the table's label. Rows must have
// passed validatePriceListRows.
func PriceListRecords(rows []map[string]string) map[string][]ReferenceRecord {
	tables := make(map[string][]ReferenceRecord)
	for _, row := range rows {
		key := row["table_key"]
		discount := strings.ReplaceAll(row["discount"], " ", "")
		if discount != "" && !strings.HasSuffix(discount, "%") {
			discount += "%"
		}
		productType := row["product_type"]
		if productType == "" {
			productType = ProductTypeLabels[key]
		}
		tables[key] = append(tables[key], ReferenceRecord{
			ProductType:     productType,
			ProductForm:     row["product_form"],
			ProductSolvent:  row["product_solvent"],
			TherapeuticArea: row["therapeutic_area"],
			StudyName:       row["study_name"],
			Price:           cast.ToInt(row["price"]),
			Duration:        cast.ToInt(row["duration"]),
			Discount:        discount,
		})
	}
	return tables
}

// GenerateErrorReport creates a downloadable .xlsx file from row errors.
func GenerateErrorReport(errors []RowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
