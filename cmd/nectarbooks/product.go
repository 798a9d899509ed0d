package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	product "github.com/nectarbooks/backend/internal/products"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalog",
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := runtime.products.ListProducts(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSTATUS")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Stock, p.Status)
		}
		return w.Flush()
	},
}

var (
	productName        string
	productDescription string
	productCategory    string
	productPrice       string
	productStock       int
)

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := decimal.NewFromString(productPrice)
		if err != nil {
			return fmt.Errorf("invalid --price %q: %w", productPrice, err)
		}

		created, err := runtime.products.CreateProduct(cmd.Context(), product.CreateProductInput{
			Name:        productName,
			Description: productDescription,
			Category:    productCategory,
			Price:       price,
			Stock:       productStock,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created product %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var productRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runtime.products.DeleteProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("removed product %s\n", args[0])
		return nil
	},
}

func init() {
	productAddCmd.Flags().StringVar(&productName, "name", "", "product name (required)")
	productAddCmd.Flags().StringVar(&productDescription, "description", "", "product description")
	productAddCmd.Flags().StringVar(&productCategory, "category", "", "product category")
	productAddCmd.Flags().StringVar(&productPrice, "price", "0", "unit price")
	productAddCmd.Flags().IntVar(&productStock, "stock", 0, "stock on hand")
	productAddCmd.MarkFlagRequired("name")

	productCmd.AddCommand(productListCmd, productAddCmd, productRemoveCmd)
	rootCmd.AddCommand(productCmd)
}
