package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfDark  = &props.Color{Red: 31, Green: 78, Blue: 121}
	pdfGrey  = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfWhite = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfAlt   = &props.Color{Red: 246, Green: 248, Blue: 250}
)

// GenerateQuotationPDF renders q on company's letterhead and returns the
// PDF bytes.
func GenerateQuotationPDF(q Quotation, company CompanyInfo) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfGrey,
		}).
		Build()

	m := maroto.New(cfg)

	addQuotationHeader(m, q, company)
	addQuotationCustomer(m, q)
	for i, p := range q.Products {
		addQuotationProduct(m, i, p)
	}
	addQuotationTotals(m, q.Summary)
	addQuotationFooter(m, q)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateQuotationPDFContext runs GenerateQuotationPDF and gives up when
// ctx is done or timeout elapses. A timeout of 0 means no extra limit.
func GenerateQuotationPDFContext(ctx context.Context, q Quotation, company CompanyInfo, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		pdf []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		pdf, err := GenerateQuotationPDF(q, company)
		done <- result{pdf, err}
	}()

	select {
	case r := <-done:
		return r.pdf, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("quotation %s PDF: %w", q.Number, ctx.Err())
	}
}

func addQuotationHeader(m core.Maroto, q Quotation, company CompanyInfo) {
	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(text.New(company.Name, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(5).Add(text.New("QUOTATION", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: pdfDark,
			})),
		),
	)

	var contact []string
	for _, s := range []string{company.Address, company.Email, company.Phone} {
		if s != "" {
			contact = append(contact, s)
		}
	}
	if company.GSTIN != "" {
		contact = append(contact, "GSTIN: "+company.GSTIN)
	}
	m.AddRows(
		row.New(8).Add(
			col.New(7).Add(text.New(strings.Join(contact, " | "), props.Text{
				Size:  8,
				Align: align.Left,
				Color: pdfGrey,
			})),
			col.New(5).Add(text.New("Quotation #: "+q.Number, props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(7),
			col.New(5).Add(text.New(fmt.Sprintf("Date: %s   Valid Till: %s", q.Date, q.ValidTill), props.Text{
				Size:  8,
				Align: align.Right,
			})),
		),
	)
	m.AddRows(row.New(3))
}

func addQuotationCustomer(m core.Maroto, q Quotation) {
	label := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: pdfWhite}
	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New("QUOTATION FOR", label)).WithStyle(&props.Cell{BackgroundColor: pdfDark}),
	))

	c := q.Customer
	lines := []string{c.Name}
	if c.Company != "" {
		lines = append(lines, c.Company)
	}
	if c.Address != "" {
		lines = append(lines, c.Address)
	}
	contact := c.Email
	if c.Phone != "" {
		contact += " | " + c.Phone
	}
	lines = append(lines, contact)

	for _, l := range lines {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(text.New(l, props.Text{Size: 8, Align: align.Left})),
		))
	}
	m.AddRows(row.New(4))
}

func addQuotationProduct(m core.Maroto, index int, p QuotationProduct) {
	number := p.Number
	if number == "" {
		number = fmt.Sprint(index + 1)
	}
	m.AddRows(row.New(7).Add(
		col.New(12).Add(text.New(fmt.Sprintf("%s  %s", number, p.Title), props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Align: align.Left,
		})),
	))
	for _, d := range p.Details {
		m.AddRows(row.New(4).Add(
			col.New(12).Add(text.New(d, props.Text{Size: 7, Align: align.Left, Color: pdfGrey})),
		))
	}

	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	headerLeft := headerText
	headerLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: pdfDark}
	m.AddRows(row.New(7).Add(
		col.New(5).Add(text.New("Guideline / Study", headerLeft)).WithStyle(headerCell),
		col.New(1).Add(text.New("Qty", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Amount", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Days", headerText)).WithStyle(headerCell),
	))

	for i, g := range p.Guidelines {
		cells := []core.Col{
			col.New(5).Add(text.New(g.Name, props.Text{Size: 7, Align: align.Left})),
			col.New(1).Add(text.New(fmt.Sprint(g.Qty), props.Text{Size: 7, Align: align.Center})),
			col.New(2).Add(text.New(FormatINR(g.UnitPrice), props.Text{Size: 7, Align: align.Right})),
			col.New(2).Add(text.New(FormatINR(g.LineTotal), props.Text{Size: 7, Align: align.Right})),
			col.New(2).Add(text.New(fmt.Sprint(g.DurationDays), props.Text{Size: 7, Align: align.Center})),
		}
		if i%2 == 1 {
			for j := range cells {
				cells[j] = cells[j].WithStyle(&props.Cell{BackgroundColor: pdfAlt})
			}
		}
		m.AddRows(row.New(6).Add(cells...))
	}

	if p.EstimatedDays > 0 {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Estimated turnaround: %d days", p.EstimatedDays), props.Text{
				Size:  7,
				Style: fontstyle.Italic,
				Align: align.Right,
			})),
		))
	}
	m.AddRows(row.New(3))
}

func addQuotationTotals(m core.Maroto, s QuotationSummary) {
	summaryCell := &props.Cell{BackgroundColor: pdfAlt}
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(7).Add(
			col.New(9).Add(text.New("Sub Total", label)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatINR(s.SubTotal), value)).WithStyle(summaryCell),
		),
		row.New(7).Add(
			col.New(9).Add(text.New(fmt.Sprintf("GST %.0f%%", s.GSTPercent), label)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatINR(s.GSTAmount), value)).WithStyle(summaryCell),
		),
	)

	grandCell := &props.Cell{BackgroundColor: pdfDark}
	grand := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: pdfWhite}
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("Grand Total", grand)).WithStyle(grandCell),
		col.New(3).Add(text.New(FormatINR(s.GrandTotal), grand)).WithStyle(grandCell),
	))

	m.AddRows(row.New(8).Add(
		col.New(12).Add(text.New("Amount in Words: "+AmountToWords(s.GrandTotal), props.Text{
			Size:  8,
			Style: fontstyle.BoldItalic,
			Align: align.Left,
		})),
	))
	m.AddRows(row.New(3))
}

func addQuotationFooter(m core.Maroto, q Quotation) {
	terms := []string{
		fmt.Sprintf("This quotation is valid till %s.", q.ValidTill),
		"Turnaround times start on receipt of samples and advance payment.",
		"Prices are per sample per guideline; GST is charged extra as shown.",
	}
	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New("TERMS", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: pdfGrey})),
	))
	for _, t := range terms {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(text.New(t, props.Text{Size: 7, Align: align.Left})),
		))
	}
}
