package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleCartExportExcel exports the caller's cart as a draft quotation
// spreadsheet. Nothing is stored.
func HandleCartExportExcel(registry *services.CartRegistry, generator *services.QuotationGenerator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items := cartFor(e, registry).Items()
		if len(items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Your cart is empty")
		}

		q := generator.Build(items, services.CustomerDetails{Name: "Draft"})
		data, err := services.GenerateQuotationExcel(q)
		if err != nil {
			return respondError(e, "cart_export_excel", err)
		}

		filename := fmt.Sprintf("Cart_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeExcel(e, filename, data)
	}
}

// HandleQuotationExcel exports one of the caller's stored quotations as a
// spreadsheet.
func HandleQuotationExcel(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner := GetCartOwner(e.Request).Key()
		q, err := services.FindQuotationForOwner(app, e.Request.PathValue("number"), owner)
		if err != nil {
			return respondError(e, "quotation_excel", err)
		}
		data, err := services.GenerateQuotationExcel(q)
		if err != nil {
			return respondError(e, "quotation_excel", err)
		}
		filename := strings.TrimSuffix(services.QuotationFilename(q.Number), ".pdf") + ".xlsx"
		return writeExcel(e, filename, data)
	}
}

func writeExcel(e *core.RequestEvent, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", xlsxContentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(data)
	return err
}
