package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge an xlsx workbook into the local records (newer updatedAt wins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		res, err := runtime.engine.ImportFromExcel(cmd.Context(), data)
		if err != nil {
			return err
		}

		fmt.Printf("created %d, updated %d, skipped %d, failed %d\n",
			res.Created, res.Updated, res.Skipped, res.Failed)
		for _, row := range res.Malformed {
			fmt.Printf("  skipped malformed row: %s\n", row.Error())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
