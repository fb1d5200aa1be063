package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"personmerge/internal/apperror"
)

var (
	importStdin bool
	importJSON  bool
)

var importCmd = &cobra.Command{
	Use:   "import [source]",
	Short: "Store an account list in the database as a new batch",
	Long: `Validates an account list and stores it as a batch. Merging with --from-db
reads every batch in import order; --batch reads one.

The database is created when it does not exist yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := "stdin"
		if !importStdin {
			source = defaultSource
			if len(args) == 1 {
				source = args[0]
			}
		}

		list, err := loadAccounts(cmd.Context(), cmd, []string{source}, sourceFlags{stdin: importStdin})
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return apperror.EmptyInput()
		}

		d, err := OpenDatabase(true)
		if err != nil {
			return err
		}
		defer d.Close()

		id, err := d.ImportAccounts(list, source)
		if err != nil {
			return err
		}

		if importJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				BatchID  string `json:"batch_id"`
				Source   string `json:"source"`
				Accounts int    `json:"accounts"`
				Database string `json:"database"`
			}{id, source, len(list), d.Path})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d account(s) from %s as batch %s\n", len(list), source, id)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importStdin, "stdin", false, "Read the account list from stdin")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(importCmd)
}
