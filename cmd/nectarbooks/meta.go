package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nectarbooks/backend/pkg/db/models"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show import history metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := runtime.store.Metadata.Get(cmd.Context(), models.ImportMetadataID)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			fmt.Println("no imports recorded yet")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("imports: %d\nlast imported: %s\n", meta.ImportCount, meta.LastImported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
}
