package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	customer "github.com/nectarbooks/backend/internal/customers"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage the customer directory",
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		customers, err := runtime.customers.ListCustomers(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
		for _, c := range customers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
		}
		return w.Flush()
	},
}

var (
	customerName    string
	customerEmail   string
	customerPhone   string
	customerAddress string
)

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := runtime.customers.CreateCustomer(cmd.Context(), customer.CreateCustomerInput{
			Name:    customerName,
			Email:   customerEmail,
			Phone:   customerPhone,
			Address: customerAddress,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created customer %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var customerRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runtime.customers.DeleteCustomer(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("removed customer %s\n", args[0])
		return nil
	},
}

func init() {
	customerAddCmd.Flags().StringVar(&customerName, "name", "", "customer name (required)")
	customerAddCmd.Flags().StringVar(&customerEmail, "email", "", "contact email")
	customerAddCmd.Flags().StringVar(&customerPhone, "phone", "", "contact phone")
	customerAddCmd.Flags().StringVar(&customerAddress, "address", "", "postal address")
	customerAddCmd.MarkFlagRequired("name")

	customerCmd.AddCommand(customerListCmd, customerAddCmd, customerRemoveCmd)
	rootCmd.AddCommand(customerCmd)
}
