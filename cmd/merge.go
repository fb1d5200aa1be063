package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"personmerge/internal/accounts"
	"personmerge/internal/merge"
)

var (
	mergeJSON     bool
	mergeName     string
	mergeFoldCase bool
	mergeSource   sourceFlags
)

var mergeCmd = &cobra.Command{
	Use:   "merge [source...]",
	Short: "Merge accounts sharing an email into persons",
	Long: `Loads account lists (JSON arrays of {application, emails, name}) and merges
every group of accounts linked by shared emails into one person.

Sources are file paths or afs URLs and are concatenated in argument order.
Without a source, ./accounts.json is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := mergeOptions(cmd, mergeName, mergeFoldCase)
		if err != nil {
			return err
		}

		list, err := loadAccounts(cmd.Context(), cmd, args, mergeSource)
		if err != nil {
			return err
		}

		persons, err := merge.Merge(list, opts...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if mergeJSON {
			body, err := accounts.Encode(persons)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(body))
			return err
		}

		printPersons(out, len(list), persons)
		return nil
	},
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeJSON, "json", false, "Output as JSON")
	mergeCmd.Flags().StringVar(&mergeName, "name", "", "Which account names the person: first or last (default last)")
	mergeCmd.Flags().BoolVar(&mergeFoldCase, "fold-case", false, "Match emails ignoring case and surrounding whitespace")
	mergeSource.register(mergeCmd)
	rootCmd.AddCommand(mergeCmd)
}

func printPersons(w io.Writer, accountCount int, persons []accounts.Person) {
	fmt.Fprintf(w, "\n  PERSONS  (%d accounts -> %d persons)\n", accountCount, len(persons))
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	for i, p := range persons {
		apps := make([]string, len(p.Applications))
		for j, app := range p.Applications {
			apps[j] = app.String()
		}
		emails := "(none)"
		if len(p.Emails) > 0 {
			emails = strings.Join(p.Emails, ", ")
		}
		fmt.Fprintf(w, "  %2d. %s\n", i+1, p.Name)
		fmt.Fprintf(w, "      applications: %s\n", strings.Join(apps, ", "))
		fmt.Fprintf(w, "      emails:       %s\n", emails)
	}
	fmt.Fprintln(w)
}
