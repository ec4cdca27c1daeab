package services

import (
	"context"
	"log"
	"math/rand"
	"net/mail"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/mailer"
)

// QuotationRequest is the checkout form: who the quotation is for, which
// cart items it covers (all when empty) and whether to email it.
type QuotationRequest struct {
	Customer  CustomerDetails `json:"customer"`
	ItemIDs   []string        `json:"itemIds"`
	SendEmail bool            `json:"sendEmail"`

	// Owner is the CartOwner key stored with the quotation. It is set by the
	// server, never read from the request body.
	Owner string `json:"-"`
}

// QuotationResult is what a checkout produced.
type QuotationResult struct {
	Quotation  Quotation    `json:"quotation"`
	RecordID   string       `json:"recordId"`
	Email      *EmailResult `json:"email,omitempty"`
	EmailError string       `json:"emailError,omitempty"`
	Cart       SyncResult   `json:"cart"`
	PDF        []byte       `json:"-"`
}

// QuotationGenerator turns cart items into a stored, rendered and
// optionally emailed quotation.
type QuotationGenerator struct {
	app    core.App
	cfg    Config
	mailer mailer.Mailer
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuotationGenerator returns a generator using app's mail client.
func NewQuotationGenerator(app core.App, cfg Config) *QuotationGenerator {
	return &QuotationGenerator{
		app:    app,
		cfg:    cfg,
		mailer: app.NewMailClient(),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithMailer replaces the mail client.
func (g *QuotationGenerator) WithMailer(m mailer.Mailer) *QuotationGenerator {
	g.mailer = m
	return g
}

// WithClock replaces the time source.
func (g *QuotationGenerator) WithClock(now func() time.Time) *QuotationGenerator {
	g.now = now
	return g
}

// Build assembles the quotation for items without side effects.
func (g *QuotationGenerator) Build(items []CartItem, customer CustomerDetails) Quotation {
	g.mu.Lock()
	number, itemNumbers := AssignQuotationNumbers(items, g.rng)
	g.mu.Unlock()

	now := g.now()
	q := BuildQuotation(number, itemNumbers, items, customer, now)
	if days := g.cfg.QuoteValidityDays; days > 0 {
		q.ValidTill = FormatDate(now.AddDate(0, 0, days))
	}
	return q
}

// Generate runs a checkout against store. The PDF and the stored record are
// required; the email is best effort and its failure is reported in the
// result, not as an error. The quoted items leave the cart afterwards.
func (g *QuotationGenerator) Generate(ctx context.Context, store *CartStore, req QuotationRequest) (QuotationResult, error) {
	customer := req.Customer.Normalize()
	if err := customer.Validate(); err != nil {
		return QuotationResult{}, err
	}

	items, err := selectCartItems(store.Items(), req.ItemIDs)
	if err != nil {
		return QuotationResult{}, err
	}

	q := g.Build(items, customer)
	pdf, err := GenerateQuotationPDFContext(ctx, q, g.cfg.Company(), g.cfg.DocumentTimeout)
	if err != nil {
		log.Printf("quotation: PDF for %s failed: %v", q.Number, err)
		return QuotationResult{}, err
	}

	owner := req.Owner
	if owner == "" {
		owner = CartOwner{UserID: store.userID}.Key()
	}
	rec, err := SaveQuotationRecord(g.app, q, owner, false, g.now())
	if err != nil {
		log.Printf("quotation: %v", err)
		return QuotationResult{}, err
	}

	res := QuotationResult{Quotation: q, RecordID: rec.Id, PDF: pdf}
	if req.SendEmail {
		email, err := SendQuotationEmail(ctx, g.mailer, g.sender(), g.cfg.Company(), q, pdf, g.cfg.DocumentTimeout)
		if err != nil {
			log.Printf("quotation: email for %s failed: %v", q.Number, err)
			res.EmailError = "The quotation was saved but the email could not be sent"
		} else {
			res.Email = &email
			if err := MarkQuotationEmailed(g.app, rec); err != nil {
				log.Printf("quotation: %v", err)
			}
		}
	}

	res.Cart = removeQuoted(ctx, store, items)
	return res, nil
}

func (g *QuotationGenerator) sender() mail.Address {
	from := mail.Address{Name: g.cfg.SenderName, Address: g.cfg.SenderAddress}
	if from.Address == "" {
		meta := g.app.Settings().Meta
		from.Address = meta.SenderAddress
		if from.Name == "" {
			from.Name = meta.SenderName
		}
	}
	return from
}

// selectCartItems returns the cart items with ids, in cart order, or the
// whole cart when ids is empty.
func selectCartItems(cart []CartItem, ids []string) ([]CartItem, error) {
	if len(ids) == 0 {
		if len(cart) == 0 {
			return nil, &ValidationError{Field: "itemIds", Message: "Your cart is empty"}
		}
		return cart, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var selected []CartItem
	for _, item := range cart {
		if want[item.ID] {
			selected = append(selected, item)
			delete(want, item.ID)
		}
	}
	if len(want) > 0 {
		return nil, &ValidationError{Field: "itemIds", Message: "Some selected items are no longer in your cart"}
	}
	return selected, nil
}

// removeQuoted clears the cart when every item was quoted, otherwise it
// deletes only the quoted ones and leaves the rest untouched remotely.
func removeQuoted(ctx context.Context, store *CartStore, quoted []CartItem) SyncResult {
	remaining := store.Items()
	for _, q := range quoted {
		remaining = removeByID(remaining, q.ID)
	}
	if len(remaining) == 0 {
		return store.ClearCart(ctx)
	}

	res := SyncResult{State: SyncLocal}
	if store.Persistent() {
		res.State = SyncSynced
	}
	for _, q := range quoted {
		if r := store.RemoveFromCart(ctx, q.ID); r.State == SyncFailed && res.State != SyncFailed {
			res = r
		}
	}
	return res
}
