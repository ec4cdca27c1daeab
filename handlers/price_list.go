package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

const maxPriceListUpload = 10 << 20

// validationResponse carries the parsed rows back to the client so the
// commit step can post them without re-uploading the file.
type validationResponse struct {
	*services.PriceListValidation
	FileName   string              `json:"fileName"`
	ParsedRows []map[string]string `json:"parsedRows,omitempty"`
}

// HandlePriceListTemplate downloads an empty price list workbook.
func HandlePriceListTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GeneratePriceListTemplate()
		if err != nil {
			return respondError(e, "price_list_template", err)
		}
		return writeExcel(e, "Price_List_Template.xlsx", data)
	}
}

// HandlePriceListExport downloads the live reference tables. An optional
// "table" query parameter limits the export to one table.
func HandlePriceListExport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var keys []string
		if table := e.Request.URL.Query().Get("table"); table != "" {
			if !slices.Contains(services.AllTableKeys, table) {
				return ErrorToast(e, http.StatusBadRequest, fmt.Sprintf("Unknown table %q", table))
			}
			keys = []string{table}
		}

		data, err := services.GeneratePriceListExcel(keys...)
		if err != nil {
			return respondError(e, "price_list_export", err)
		}
		filename := fmt.Sprintf("Price_List_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeExcel(e, filename, data)
	}
}

// HandlePriceListValidate receives an uploaded price list and returns the
// row-level validation results.
func HandlePriceListValidate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxPriceListUpload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidatePriceListFile(file, header.Filename)
		if err != nil {
			log.Printf("price_list_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		resp := validationResponse{PriceListValidation: result, FileName: result.FileName}
		if result.OK() {
			resp.ParsedRows = result.ParsedRows
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandlePriceListErrorReport turns posted row errors into a spreadsheet.
func HandlePriceListErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrors []services.RowError
		if err := json.NewDecoder(e.Request.Body).Decode(&rowErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		data, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			return respondError(e, "price_list_errors", err)
		}
		filename := fmt.Sprintf("Price_List_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeExcel(e, filename, data)
	}
}

type priceListCommitRequest struct {
	ParsedRows []map[string]string `json:"parsedRows"`
}

// HandlePriceListCommit re-validates the posted rows and replaces the
// tables they mention.
func HandlePriceListCommit(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req priceListCommitRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid parsed data")
		}
		if len(req.ParsedRows) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}

		result, err := services.CommitPriceListImport(app, req.ParsedRows)
		if err != nil {
			return respondError(e, "price_list_commit", err)
		}
		if result.RolledBack {
			SetToast(e, "error", "Price list was not imported")
			return e.JSON(http.StatusUnprocessableEntity, result)
		}

		SetToast(e, "success", fmt.Sprintf("%d studies imported", result.Imported))
		return e.JSON(http.StatusOK, result)
	}
}
