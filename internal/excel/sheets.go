package excel

import (
	"github.com/shopspring/decimal"

	"github.com/nectarbooks/backend/pkg/db/models"
	"github.com/nectarbooks/backend/pkg/enums"
)

// Sheet names are fixed; column order within a sheet carries no meaning
// because parsing matches columns by header name.
const (
	SheetProducts     = "products"
	SheetCustomers    = "customers"
	SheetInvoices     = "invoices"
	SheetInvoiceItems = "invoiceItems"
	SheetPayments     = "payments"
)

var productHeader = []string{"id", "name", "description", "category", "price", "stock", "status", "createdAt", "updatedAt"}

func productRow(p models.Product) []any {
	return []any{p.ID, p.Name, p.Description, p.Category, p.Price.String(), p.Stock, p.Status.String(), p.CreatedAt, p.UpdatedAt}
}

func parseProductRow(r *rowReader) models.Product {
	p := models.Product{
		ID:          r.required("id"),
		Name:        r.str("name"),
		Description: r.str("description"),
		Category:    r.str("category"),
		Price:       r.decimalCell("price"),
		Stock:       r.intCell("stock"),
		CreatedAt:   r.optionalTimestamp("createdAt"),
		UpdatedAt:   r.timestamp("updatedAt"),
	}
	if p.Stock < 0 {
		r.fail("stock", "must not be negative")
	}
	if p.Price.IsNegative() {
		r.fail("price", "must not be negative")
	}
	switch status := r.str("status"); status {
	case "":
		p.Status = enums.ProductStatusActive
	default:
		parsed, err := enums.ParseProductStatus(status)
		if err != nil {
			r.fail("status", "is not a known product status")
		}
		p.Status = parsed
	}
	return p
}

var customerHeader = []string{"id", "name", "email", "phone", "address", "createdAt", "updatedAt"}

func customerRow(c models.Customer) []any {
	return []any{c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt}
}

func parseCustomerRow(r *rowReader) models.Customer {
	return models.Customer{
		ID:        r.required("id"),
		Name:      r.str("name"),
		Email:     r.str("email"),
		Phone:     r.str("phone"),
		Address:   r.str("address"),
		CreatedAt: r.optionalTimestamp("createdAt"),
		UpdatedAt: r.timestamp("updatedAt"),
	}
}

var invoiceHeader = []string{"id", "invoiceNumber", "customerId", "date", "subtotal", "totalAmount", "paidAmount", "status", "notes", "createdAt", "updatedAt"}

func invoiceRow(i models.Invoice) []any {
	return []any{i.ID, i.InvoiceNumber, i.CustomerID, i.Date, i.Subtotal.String(), i.TotalAmount.String(), i.PaidAmount.String(), i.Status.String(), i.Notes, i.CreatedAt, i.UpdatedAt}
}

func parseInvoiceRow(r *rowReader) models.Invoice {
	inv := models.Invoice{
		ID:            r.required("id"),
		InvoiceNumber: r.str("invoiceNumber"),
		CustomerID:    r.str("customerId"),
		Date:          r.str("date"),
		Subtotal:      r.decimalCell("subtotal"),
		TotalAmount:   r.decimalCell("totalAmount"),
		PaidAmount:    r.decimalCell("paidAmount"),
		Notes:         r.str("notes"),
		CreatedAt:     r.optionalTimestamp("createdAt"),
		UpdatedAt:     r.timestamp("updatedAt"),
	}
	switch status := r.str("status"); status {
	case "":
		inv.Status = enums.InvoiceStatusPending
	default:
		parsed, err := enums.ParseInvoiceStatus(status)
		if err != nil {
			r.fail("status", "is not a known invoice status")
		}
		inv.Status = parsed
	}
	return inv
}

var invoiceItemHeader = []string{"id", "invoiceId", "productId", "description", "quantity", "unitPrice", "amount", "createdAt", "updatedAt"}

func invoiceItemRow(i models.InvoiceItem) []any {
	return []any{i.ID, i.InvoiceID, i.ProductID, i.Description, i.Quantity, i.UnitPrice.String(), i.Amount.String(), i.CreatedAt, i.UpdatedAt}
}

// parseInvoiceItemRow recomputes amount from quantity and unit price; the
// amount column is informational on the way in, derived on the way out.
func parseInvoiceItemRow(r *rowReader) models.InvoiceItem {
	item := models.InvoiceItem{
		ID:          r.required("id"),
		InvoiceID:   r.str("invoiceId"),
		ProductID:   r.str("productId"),
		Description: r.str("description"),
		Quantity:    r.intCell("quantity"),
		UnitPrice:   r.decimalCell("unitPrice"),
		CreatedAt:   r.optionalTimestamp("createdAt"),
		UpdatedAt:   r.timestamp("updatedAt"),
	}
	if item.Quantity <= 0 {
		r.fail("quantity", "must be a positive integer")
	}
	item.Amount = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return item
}

var paymentHeader = []string{"id", "invoiceId", "amount", "method", "paidAt", "createdAt", "updatedAt"}

func paymentRow(p models.Payment) []any {
	return []any{p.ID, p.InvoiceID, p.Amount.String(), p.Method.String(), p.PaidAt, p.CreatedAt, p.UpdatedAt}
}

func parsePaymentRow(r *rowReader) models.Payment {
	p := models.Payment{
		ID:        r.required("id"),
		InvoiceID: r.str("invoiceId"),
		Amount:    r.decimalCell("amount"),
		PaidAt:    r.optionalTimestamp("paidAt"),
		CreatedAt: r.optionalTimestamp("createdAt"),
		UpdatedAt: r.timestamp("updatedAt"),
	}
	switch method := r.str("method"); method {
	case "":
		p.Method = enums.PaymentMethodCash
	default:
		parsed, err := enums.ParsePaymentMethod(method)
		if err != nil {
			r.fail("method", "is not a known payment method")
		}
		p.Method = parsed
	}
	return p
}
