package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	invoice "github.com/nectarbooks/backend/internal/invoices"
	"github.com/nectarbooks/backend/pkg/enums"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage invoices and payments",
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		invoices, err := runtime.invoices.ListInvoices(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNUMBER\tCUSTOMER\tTOTAL\tPAID\tSTATUS")
		for _, inv := range invoices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				inv.ID, inv.InvoiceNumber, inv.CustomerID,
				inv.TotalAmount.StringFixed(2), inv.PaidAmount.StringFixed(2), inv.Status)
		}
		return w.Flush()
	},
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one invoice with its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := runtime.invoices.GetInvoice(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  customer=%s  status=%s\n", inv.InvoiceNumber, inv.CustomerID, inv.Status)
		fmt.Printf("subtotal=%s  total=%s  paid=%s\n",
			inv.Subtotal.StringFixed(2), inv.TotalAmount.StringFixed(2), inv.PaidAmount.StringFixed(2))
		if inv.Notes != "" {
			fmt.Printf("notes: %s\n", inv.Notes)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DESCRIPTION\tQTY\tUNIT PRICE\tAMOUNT")
		for _, item := range inv.Items {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				item.Description, item.Quantity, item.UnitPrice.StringFixed(2), item.Amount.StringFixed(2))
		}
		return w.Flush()
	},
}

var (
	invoiceCustomerID string
	invoiceNotes      string
	invoiceItems      []string
)

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice from --item DESCRIPTION:QTY:UNIT_PRICE flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		items := make([]invoice.InvoiceItemInput, 0, len(invoiceItems))
		for _, raw := range invoiceItems {
			item, err := parseItemFlag(raw)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		created, err := runtime.invoices.CreateInvoice(cmd.Context(), invoice.CreateInvoiceInput{
			CustomerID: invoiceCustomerID,
			Notes:      invoiceNotes,
			Items:      items,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created invoice %s (%s) total %s\n",
			created.InvoiceNumber, created.ID, created.TotalAmount.StringFixed(2))
		return nil
	},
}

var (
	payAmount string
	payMethod string
)

var invoicePayCmd = &cobra.Command{
	Use:   "pay ID",
	Short: "Record a payment against an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(payAmount)
		if err != nil {
			return fmt.Errorf("invalid --amount %q: %w", payAmount, err)
		}
		method, err := enums.ParsePaymentMethod(payMethod)
		if err != nil {
			return err
		}

		updated, err := runtime.invoices.RecordPayment(cmd.Context(), args[0], invoice.RecordPaymentInput{
			Amount: amount,
			Method: method,
		})
		if err != nil {
			return err
		}
		fmt.Printf("invoice %s is now %s (paid %s of %s)\n",
			updated.InvoiceNumber, updated.Status,
			updated.PaidAmount.StringFixed(2), updated.TotalAmount.StringFixed(2))
		return nil
	},
}

// parseItemFlag splits DESCRIPTION:QTY:UNIT_PRICE. Descriptions may not
// contain colons; quantities and prices never do.
func parseItemFlag(raw string) (invoice.InvoiceItemInput, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return invoice.InvoiceItemInput{}, fmt.Errorf("invalid --item %q, want DESCRIPTION:QTY:UNIT_PRICE", raw)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil {
		return invoice.InvoiceItemInput{}, fmt.Errorf("invalid quantity in --item %q: %w", raw, err)
	}
	price, err := decimal.NewFromString(parts[2])
	if err != nil {
		return invoice.InvoiceItemInput{}, fmt.Errorf("invalid unit price in --item %q: %w", raw, err)
	}
	return invoice.InvoiceItemInput{Description: parts[0], Quantity: qty, UnitPrice: price}, nil
}

func init() {
	invoiceCreateCmd.Flags().StringVar(&invoiceCustomerID, "customer", "", "customer id (required)")
	invoiceCreateCmd.Flags().StringVar(&invoiceNotes, "notes", "", "free-form notes")
	invoiceCreateCmd.Flags().StringArrayVar(&invoiceItems, "item", nil, "line item as DESCRIPTION:QTY:UNIT_PRICE (repeatable)")
	invoiceCreateCmd.MarkFlagRequired("customer")

	invoicePayCmd.Flags().StringVar(&payAmount, "amount", "", "payment amount (required)")
	invoicePayCmd.Flags().StringVar(&payMethod, "method", "cash", "payment method: cash, card, or transfer")
	invoicePayCmd.MarkFlagRequired("amount")

	invoiceCmd.AddCommand(invoiceListCmd, invoiceShowCmd, invoiceCreateCmd, invoicePayCmd)
	rootCmd.AddCommand(invoiceCmd)
}
