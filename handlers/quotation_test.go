package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/tools/mailer"
	"github.com/xuri/excelize/v2"

	"studyquote/services"
	"studyquote/testhelpers"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []*mailer.Message
	err  error
}

func (m *fakeMailer) Send(msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testConfig() services.Config {
	cfg := services.DefaultConfig()
	cfg.SenderAddress = "quotes@lab.example.com"
	cfg.DocumentTimeout = 20 * time.Second
	return cfg
}

func TestHandleQuotationCreate_EmailsAndClearsCart(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	registry := services.NewCartRegistry(nil)
	mail := &fakeMailer{}
	generator := services.NewQuotationGenerator(app, testConfig()).WithMailer(mail)
	addItem(t, registry, guestOwner)

	body := services.QuotationRequest{
		Customer:  services.CustomerDetails{Name: "Asha Rao", Email: "Asha@Example.com"},
		SendEmail: true,
	}
	rec := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/quotations", body, guestOwner)
	if err := HandleQuotationCreate(registry, generator)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Quotation services.Quotation     `json:"quotation"`
		Email     *services.EmailResult `json:"email"`
		Cart      cartView              `json:"cart"`
	}
	decodeBody(t, rec, &resp)
	if resp.Quotation.Summary.GrandTotal != 21240 {
		t.Errorf("expected grand total 21240, got %v", resp.Quotation.Summary.GrandTotal)
	}
	if resp.Email == nil || !resp.Email.AttachmentIncluded {
		t.Errorf("expected an email with attachment, got %+v", resp.Email)
	}
	if resp.Cart.Count != 0 {
		t.Errorf("expected the cart to be emptied, %d items left", resp.Cart.Count)
	}
	if len(mail.sent) != 1 || mail.sent[0].To[0].Address != "asha@example.com" {
		t.Errorf("expected one email to asha@example.com, got %+v", mail.sent)
	}

	n := testhelpers.CountRecords(t, app, services.QuotationsCollection, "number = {:n}", map[string]any{"n": resp.Quotation.Number})
	if n != 1 {
		t.Errorf("expected one stored quotation, found %d", n)
	}
}

func TestHandleQuotationCreate_EmailFailureStillSucceeds(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	registry := services.NewCartRegistry(nil)
	generator := services.NewQuotationGenerator(app, testConfig()).WithMailer(&fakeMailer{err: errors.New("smtp down")})
	addItem(t, registry, guestOwner)

	body := services.QuotationRequest{
		Customer:  services.CustomerDetails{Name: "Asha Rao", Email: "asha@example.com"},
		SendEmail: true,
	}
	rec := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/quotations", body, guestOwner)
	HandleQuotationCreate(registry, generator)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["emailError"] == "" || resp["emailError"] == nil {
		t.Error("expected emailError to be reported")
	}
	if toast := parseToast(t, rec); toast["type"] != "warning" {
		t.Errorf("expected a warning toast, got %q", toast["type"])
	}
}

func TestHandleQuotationCreate_BadInput(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	generator := services.NewQuotationGenerator(app, testConfig()).WithMailer(&fakeMailer{})

	tests := []struct {
		name     string
		fill     bool
		customer services.CustomerDetails
	}{
		{"empty cart", false, services.CustomerDetails{Name: "Asha", Email: "asha@example.com"}},
		{"missing email", true, services.CustomerDetails{Name: "Asha"}},
		{"bad email", true, services.CustomerDetails{Name: "Asha", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := services.NewCartRegistry(nil)
			if tt.fill {
				addItem(t, registry, guestOwner)
			}
			rec := httptest.NewRecorder()
			req := jsonRequest(t, http.MethodPost, "/api/quotations", services.QuotationRequest{Customer: tt.customer}, guestOwner)
			HandleQuotationCreate(registry, generator)(newTestRequestEvent(app, req, rec))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleQuotationPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuotationFor(t, app, "RR555001", guestOwner.Key())
	testhelpers.CreateTestQuotation(t, app, "RR555003")

	otherGuest := services.CartOwner{SessionID: "9a7c1e52-4f0d-4c8e-b1a2-6d3f5e7a9b10"}
	tests := []struct {
		name     string
		number   string
		owner    services.CartOwner
		wantCode int
	}{
		{"own quotation", "RR555001", guestOwner, http.StatusOK},
		{"unknown quotation", "RR000000", guestOwner, http.StatusNotFound},
		{"another guest's quotation", "RR555001", otherGuest, http.StatusNotFound},
		{"signed-in user with the same number", "RR555001", services.CartOwner{UserID: "user-b"}, http.StatusNotFound},
		{"ownerless quotation", "RR555003", services.CartOwner{}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withCartOwner(httptest.NewRequest(http.MethodGet, "/api/quotations/"+tt.number+"/pdf", nil), tt.owner)
			req.SetPathValue("number", tt.number)
			if err := HandleQuotationPDF(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				if bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
					t.Error("a PDF was returned to the wrong owner")
				}
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
				t.Errorf("expected application/pdf, got %q", ct)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
				t.Error("expected body to be a PDF")
			}
		})
	}
}

func TestHandleQuotationPDF_AfterCheckout(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	registry := services.NewCartRegistry(nil)
	generator := services.NewQuotationGenerator(app, testConfig()).WithMailer(&fakeMailer{})
	addItem(t, registry, guestOwner)

	rec := httptest.NewRecorder()
	body := services.QuotationRequest{Customer: services.CustomerDetails{Name: "Asha Rao", Email: "asha@example.com"}}
	req := jsonRequest(t, http.MethodPost, "/api/quotations", body, guestOwner)
	if err := HandleQuotationCreate(registry, generator)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Quotation services.Quotation `json:"quotation"`
	}
	decodeBody(t, rec, &resp)

	download := func(owner services.CartOwner) int {
		rec := httptest.NewRecorder()
		req := withCartOwner(httptest.NewRequest(http.MethodGet, "/api/quotations/"+resp.Quotation.Number+"/pdf", nil), owner)
		req.SetPathValue("number", resp.Quotation.Number)
		if err := HandleQuotationPDF(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return rec.Code
	}
	if code := download(guestOwner); code != http.StatusOK {
		t.Errorf("owner download = %d, want 200", code)
	}
	if code := download(services.CartOwner{UserID: "someone-else"}); code != http.StatusNotFound {
		t.Errorf("foreign download = %d, want 404", code)
	}
}

func TestHandleQuotationExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuotationFor(t, app, "RR555002", guestOwner.Key())

	rec := httptest.NewRecorder()
	req := withCartOwner(httptest.NewRequest(http.MethodGet, "/api/quotations/RR555002/excel", nil), guestOwner)
	req.SetPathValue("number", "RR555002")
	if err := HandleQuotationExcel(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Quotation-RR555002.xlsx"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	title, _ := f.GetCellValue("Quotation", "A1")
	if title != "Quotation RR555002" {
		t.Errorf("expected title, got %q", title)
	}

	rec = httptest.NewRecorder()
	req = withCartOwner(httptest.NewRequest(http.MethodGet, "/api/quotations/RR555002/excel", nil), services.CartOwner{UserID: "user-b"})
	req.SetPathValue("number", "RR555002")
	if err := HandleQuotationExcel(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("another owner got %d, want 404", rec.Code)
	}
}

func TestHandleCartExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	generator := services.NewQuotationGenerator(app, testConfig())

	t.Run("empty cart", func(t *testing.T) {
		registry := services.NewCartRegistry(nil)
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodGet, "/api/cart/export/excel", nil, guestOwner)
		HandleCartExportExcel(registry, generator)(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("with items", func(t *testing.T) {
		registry := services.NewCartRegistry(nil)
		addItem(t, registry, guestOwner)
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodGet, "/api/cart/export/excel", nil, guestOwner)
		if err := HandleCartExportExcel(registry, generator)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Errorf("unexpected content type %q", ct)
		}
		if rec.Body.Len() == 0 {
			t.Error("expected a workbook body")
		}
	})
}
