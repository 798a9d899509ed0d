package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nectarbooks/backend/internal/records"
	"github.com/nectarbooks/backend/pkg/db/models"
	"github.com/nectarbooks/backend/pkg/enums"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
	"github.com/nectarbooks/backend/pkg/logger"
	"github.com/nectarbooks/backend/pkg/validate"
)

// Service exposes invoicing and payment operations.
type Service interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, invoiceID string, input UpdateInvoiceInput) (*models.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
	RecordPayment(ctx context.Context, invoiceID string, input RecordPaymentInput) (*models.Invoice, error)
	MarkOverdue(ctx context.Context, invoiceID string) (*models.Invoice, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// CreateInvoiceInput holds the validated payload to create an invoice with
// its line items.
type CreateInvoiceInput struct {
	CustomerID string             `json:"customerId" validate:"required"`
	Date       string             `json:"date"`
	Notes      string             `json:"notes"`
	Items      []InvoiceItemInput `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemInput defines one line on a new invoice. Amount is always
// derived from quantity and unit price, never accepted from the caller.
type InvoiceItemInput struct {
	ProductID   string          `json:"productId"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// UpdateInvoiceInput holds optional mutation values for an invoice. Setting
// Items replaces every line and recomputes the totals.
type UpdateInvoiceInput struct {
	Date  *string
	Notes *string
	Items *[]InvoiceItemInput
}

// RecordPaymentInput holds the payload to apply a payment to an invoice.
type RecordPaymentInput struct {
	Amount decimal.Decimal     `json:"amount"`
	Method enums.PaymentMethod `json:"method"`
	PaidAt string              `json:"paidAt"`
}

type service struct {
	store *records.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewService constructs an invoice service instance.
func NewService(store *records.Store, log *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, log: log, now: time.Now}, nil
}

// CreateInvoice writes the invoice and its line items. The store has no
// multi-table transaction, so a failed item write rolls the earlier writes
// back by hand before returning.
func (s *service) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*models.Invoice, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	if _, err := s.store.Customers.Get(ctx, input.CustomerID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer does not exist")
		}
		return nil, err
	}

	now := models.TimeString(s.now())
	date := input.Date
	if date == "" {
		date = now
	}

	number, err := s.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoiceID := uuid.NewString()
	items, subtotal, err := s.buildItems(ctx, invoiceID, now, input.Items)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ID:            invoiceID,
		InvoiceNumber: number,
		CustomerID:    input.CustomerID,
		Date:          date,
		Status:        enums.InvoiceStatusPending,
		Subtotal:      subtotal,
		TotalAmount:   subtotal,
		PaidAmount:    decimal.Zero,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.store.Invoices.Set(ctx, invoice); err != nil {
		return nil, err
	}
	for i := range items {
		if _, err := s.store.InvoiceItems.Set(ctx, &items[i]); err != nil {
			s.cleanupPartialInvoice(ctx, invoiceID, items[:i])
			return nil, err
		}
	}

	invoice.Items = items
	return invoice, nil
}

// buildItems turns line inputs into persisted item rows, deriving the amount
// of every line and the running subtotal.
func (s *service) buildItems(ctx context.Context, invoiceID, now string, inputs []InvoiceItemInput) ([]models.InvoiceItem, decimal.Decimal, error) {
	subtotal := decimal.Zero
	items := make([]models.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		if in.UnitPrice.IsNegative() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		description := in.Description
		if in.ProductID != "" {
			product, err := s.store.Products.Get(ctx, in.ProductID)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product does not exist")
				}
				return nil, decimal.Zero, err
			}
			if description == "" {
				description = product.Name
			}
		}
		amount := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		subtotal = subtotal.Add(amount)
		items = append(items, models.InvoiceItem{
			ID:          uuid.NewString(),
			InvoiceID:   invoiceID,
			ProductID:   in.ProductID,
			Description: description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amount,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return items, subtotal, nil
}

// UpdateInvoice mutates the header fields and, when Items is set, replaces
// every line and recomputes the totals. The status is re-derived against the
// new total so an invoice cannot end up paid-but-owing.
func (s *service) UpdateInvoice(ctx context.Context, invoiceID string, input UpdateInvoiceInput) (*models.Invoice, error) {
	invoice, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	now := models.TimeString(s.now())

	if input.Date != nil {
		invoice.Date = *input.Date
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	var items []models.InvoiceItem
	if input.Items != nil {
		if len(*input.Items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "an invoice needs at least one item")
		}
		for _, in := range *input.Items {
			if in.Quantity <= 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
			}
		}

		var subtotal decimal.Decimal
		items, subtotal, err = s.buildItems(ctx, invoiceID, now, *input.Items)
		if err != nil {
			return nil, err
		}

		old, err := s.itemsFor(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
		for _, item := range old {
			if err := s.store.InvoiceItems.Remove(ctx, item.ID); err != nil {
				return nil, err
			}
		}
		for i := range items {
			if _, err := s.store.InvoiceItems.Set(ctx, &items[i]); err != nil {
				return nil, err
			}
		}

		invoice.Subtotal = subtotal
		invoice.TotalAmount = subtotal
		invoice.Status = paymentStatus(invoice.Status, invoice.PaidAmount, invoice.TotalAmount)
	}

	invoice.UpdatedAt = now
	updated, err := s.store.Invoices.Set(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if items != nil {
		updated.Items = items
	}
	return updated, nil
}

// cleanupPartialInvoice removes writes left behind by a failed create.
// Cleanup failures are logged and swallowed; the original error matters more.
func (s *service) cleanupPartialInvoice(ctx context.Context, invoiceID string, written []models.InvoiceItem) {
	for _, item := range written {
		if err := s.store.InvoiceItems.Remove(ctx, item.ID); err != nil {
			s.log.Error(s.log.WithRecordID(ctx, item.ID), "cleanup of partial invoice item failed", err)
		}
	}
	if err := s.store.Invoices.Remove(ctx, invoiceID); err != nil {
		s.log.Error(s.log.WithRecordID(ctx, invoiceID), "cleanup of partial invoice failed", err)
	}
}

func (s *service) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemsFor(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

func (s *service) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.store.Invoices.GetAll(ctx)
}

// DeleteInvoice removes the invoice together with its items and payments.
func (s *service) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if _, err := s.store.Invoices.Get(ctx, invoiceID); err != nil {
		return err
	}

	items, err := s.itemsFor(ctx, invoiceID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.store.InvoiceItems.Remove(ctx, item.ID); err != nil {
			return err
		}
	}

	payments, err := s.store.Payments.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, payment := range payments {
		if payment.InvoiceID != invoiceID {
			continue
		}
		if err := s.store.Payments.Remove(ctx, payment.ID); err != nil {
			return err
		}
	}

	return s.store.Invoices.Remove(ctx, invoiceID)
}

// RecordPayment appends a payment and rolls the invoice's paid amount and
// status forward. Overpaying an invoice is rejected.
func (s *service) RecordPayment(ctx context.Context, invoiceID string, input RecordPaymentInput) (*models.Invoice, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	invoice, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	outstanding := invoice.TotalAmount.Sub(invoice.PaidAmount)
	if input.Amount.GreaterThan(outstanding) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment exceeds the outstanding balance")
	}

	now := models.TimeString(s.now())
	paidAt := input.PaidAt
	if paidAt == "" {
		paidAt = now
	}

	payment := &models.Payment{
		ID:        uuid.NewString(),
		InvoiceID: invoiceID,
		Amount:    input.Amount,
		Method:    input.Method,
		PaidAt:    paidAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.store.Payments.Set(ctx, payment); err != nil {
		return nil, err
	}

	invoice.PaidAmount = invoice.PaidAmount.Add(input.Amount)
	invoice.Status = paymentStatus(invoice.Status, invoice.PaidAmount, invoice.TotalAmount)
	invoice.UpdatedAt = now

	updated, err := s.store.Invoices.Set(ctx, invoice)
	if err != nil {
		// The payment row landed but the invoice rollup did not; take the
		// payment back out so the books stay consistent.
		if removeErr := s.store.Payments.Remove(ctx, payment.ID); removeErr != nil {
			s.log.Error(s.log.WithRecordID(ctx, payment.ID), "cleanup of orphaned payment failed", removeErr)
		}
		return nil, err
	}
	return updated, nil
}

// MarkOverdue flags an unpaid invoice as overdue. Fully paid invoices
// cannot go overdue.
func (s *service) MarkOverdue(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == enums.InvoiceStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a paid invoice cannot be overdue")
	}

	invoice.Status = enums.InvoiceStatusOverdue
	invoice.UpdatedAt = models.TimeString(s.now())
	return s.store.Invoices.Set(ctx, invoice)
}

// NextInvoiceNumber returns the next number in the INV-0001 sequence.
func (s *service) NextInvoiceNumber(ctx context.Context) (string, error) {
	invoices, err := s.store.Invoices.GetAll(ctx)
	if err != nil {
		return "", err
	}
	highest := 0
	for _, inv := range invoices {
		var n int
		if _, err := fmt.Sscanf(inv.InvoiceNumber, "INV-%d", &n); err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("INV-%04d", highest+1), nil
}

func (s *service) itemsFor(ctx context.Context, invoiceID string) ([]models.InvoiceItem, error) {
	all, err := s.store.InvoiceItems.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var items []models.InvoiceItem
	for _, item := range all {
		if item.InvoiceID == invoiceID {
			items = append(items, item)
		}
	}
	return items, nil
}

// paymentStatus derives the invoice status after a payment. An overdue
// invoice stays overdue until it is fully settled.
func paymentStatus(current enums.InvoiceStatus, paid, total decimal.Decimal) enums.InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return enums.InvoiceStatusPaid
	case current == enums.InvoiceStatusOverdue:
		return enums.InvoiceStatusOverdue
	case paid.IsPositive():
		return enums.InvoiceStatusPartial
	default:
		return enums.InvoiceStatusPending
	}
}
