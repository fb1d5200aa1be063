package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	batchesJSON   bool
	batchesDelete string
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List or delete imported account batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		out := cmd.OutOrStdout()
		if batchesDelete != "" {
			if err := d.DeleteBatch(batchesDelete); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted batch %s\n", batchesDelete)
			return nil
		}

		batches, err := d.Batches()
		if err != nil {
			return fmt.Errorf("listing batches: %w", err)
		}

		if batchesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(batches)
		}

		if len(batches) == 0 {
			fmt.Fprintln(out, "No batches imported")
			return nil
		}
		for _, b := range batches {
			imported := time.UnixMilli(b.ImportedAt).Format(time.RFC3339)
			fmt.Fprintf(out, "  %s  %s  %4d account(s)  %s\n", b.ID, imported, b.AccountCount, b.Source)
		}
		return nil
	},
}

func init() {
	batchesCmd.Flags().BoolVar(&batchesJSON, "json", false, "Output as JSON")
	batchesCmd.Flags().StringVar(&batchesDelete, "delete", "", "Delete the batch with this ID")
	rootCmd.AddCommand(batchesCmd)
}
