package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/pocketbase/pocketbase/tools/mailer"
)

// EmailResult reports the outcome of SendQuotationEmail.
type EmailResult struct {
	Success            bool `json:"success"`
	AttachmentIncluded bool `json:"attachmentIncluded"`
}

// Helpers for QuotationEmailBody in quotation_email_body.templ.

func emailLineNumber(i int, p QuotationProduct) string {
	if p.Number != "" {
		return p.Number
	}
	return fmt.Sprint(i + 1)
}

func productTotal(p QuotationProduct) float64 {
	var total float64
	for _, g := range p.Guidelines {
		total += g.LineTotal
	}
	return total
}

func gstLabel(percent float64) string {
	return fmt.Sprintf("GST %.0f%%", percent)
}

// SendQuotationEmail mails q to its customer with pdf attached. A nil or
// empty pdf sends the email without an attachment. The send is abandoned
// when ctx is done or timeout elapses.
func SendQuotationEmail(ctx context.Context, client mailer.Mailer, from mail.Address, company CompanyInfo, q Quotation, pdf []byte, timeout time.Duration) (EmailResult, error) {
	if err := q.Customer.Validate(); err != nil {
		return EmailResult{}, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body bytes.Buffer
	if err := QuotationEmailBody(q, company).Render(ctx, &body); err != nil {
		return EmailResult{}, fmt.Errorf("render quotation email: %w", err)
	}

	msg := &mailer.Message{
		From:    from,
		To:      []mail.Address{{Name: q.Customer.Name, Address: q.Customer.Email}},
		Subject: fmt.Sprintf("Quotation %s from %s", q.Number, company.Name),
		HTML:    body.String(),
	}
	attached := len(pdf) > 0
	if attached {
		msg.Attachments = map[string]io.Reader{
			QuotationFilename(q.Number): bytes.NewReader(pdf),
		}
	}

	done := make(chan error, 1)
	go func() { done <- client.Send(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return EmailResult{}, fmt.Errorf("send quotation %s: %w", q.Number, err)
		}
		return EmailResult{Success: true, AttachmentIncluded: attached}, nil
	case <-ctx.Done():
		return EmailResult{}, fmt.Errorf("send quotation %s: %w", q.Number, ctx.Err())
	}
}
