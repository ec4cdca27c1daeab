package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

// HandleQuotationCreate checks out the caller's cart: it builds, stores and
// renders a quotation and optionally emails it. The response carries the
// quotation and the cart that remains.
func HandleQuotationCreate(registry *services.CartRegistry, generator *services.QuotationGenerator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.QuotationRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid quotation request")
		}

		req.Owner = GetCartOwner(e.Request).Key()
		store := cartFor(e, registry)
		res, err := generator.Generate(e.Request.Context(), store, req)
		if err != nil {
			return respondError(e, "quotation_create", err)
		}

		switch {
		case res.EmailError != "":
			SetToast(e, "warning", res.EmailError)
		case res.Email != nil:
			SetToast(e, "success", fmt.Sprintf("Quotation %s sent to %s", res.Quotation.Number, res.Quotation.Customer.Email))
		default:
			SetToast(e, "success", fmt.Sprintf("Quotation %s created", res.Quotation.Number))
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"quotation":  res.Quotation,
			"recordId":   res.RecordID,
			"email":      res.Email,
			"emailError": res.EmailError,
			"pdfUrl":     fmt.Sprintf("/api/quotations/%s/pdf", res.Quotation.Number),
			"cart":       newCartView(store, res.Cart),
		})
	}
}

// HandleQuotationPDF renders the latest revision of one of the caller's
// stored quotations. Other owners' quotations are a 404.
func HandleQuotationPDF(app core.App, cfg services.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		number := e.Request.PathValue("number")
		if number == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing quotation number")
		}

		q, err := services.FindQuotationForOwner(app, number, GetCartOwner(e.Request).Key())
		if err != nil {
			return respondError(e, "quotation_pdf", err)
		}

		pdf, err := services.GenerateQuotationPDFContext(e.Request.Context(), q, cfg.Company(), cfg.DocumentTimeout)
		if err != nil {
			return respondError(e, "quotation_pdf", err)
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.QuotationFilename(q.Number)))
		_, err = e.Response.Write(pdf)
		return err
	}
}
