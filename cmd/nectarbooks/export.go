package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every record to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := runtime.engine.ExportToExcel(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		fmt.Printf("exported workbook to %s (%d bytes)\n", exportOut, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "nectarbooks.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
