package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"personmerge/internal/apperror"
	"personmerge/internal/merge"
	"personmerge/internal/report"
)

var (
	analyzeJSON     bool
	analyzeTopN     int
	analyzeName     string
	analyzeFoldCase bool
	analyzeSource   sourceFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [source...]",
	Short: "Merge accounts and report group statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeTopN < 0 {
			return apperror.InvalidOption("top-n", fmt.Sprintf("top-n must not be negative, got %d", analyzeTopN))
		}
		opts, err := mergeOptions(cmd, analyzeName, analyzeFoldCase)
		if err != nil {
			return err
		}

		list, err := loadAccounts(cmd.Context(), cmd, args, analyzeSource)
		if err != nil {
			return err
		}

		persons, err := merge.Merge(list, opts...)
		if err != nil {
			return err
		}

		rep, err := report.Compute(persons, analyzeTopN)
		if err != nil {
			return fmt.Errorf("computing report: %w", err)
		}
		rep.Linchpins, err = report.Linchpins(list, persons, merge.EmailKey(opts...))
		if err != nil {
			return fmt.Errorf("finding linchpins: %w", err)
		}

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		printReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of largest persons to list")
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "Which account names the person: first or last (default last)")
	analyzeCmd.Flags().BoolVar(&analyzeFoldCase, "fold-case", false, "Match emails ignoring case and surrounding whitespace")
	analyzeSource.register(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func printReport(w io.Writer, r *report.Report) {
	barLen := int(r.MergeRatio * 20)
	if barLen > 20 {
		barLen = 20
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Fprintf(w, "\n  Merged: %.0f%%  [%s]\n", r.MergeRatio*100, bar)
	fmt.Fprintf(w, "  accounts=%d persons=%d merged=%d\n\n", r.TotalAccounts, r.TotalPersons, r.MergedAccounts)

	fmt.Fprintln(w, "  GROUPS")
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Largest: %d  Smallest: %d  Singletons: %d  Without email: %d\n",
		r.LargestGroup, r.SmallestGroup, r.Singletons, r.NoEmail)

	fmt.Fprintln(w, "\n  Group sizes:")
	for _, b := range r.SizeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	if len(r.Largest) > 0 {
		fmt.Fprintln(w, "\n  Largest persons:")
		for _, p := range r.Largest {
			fmt.Fprintf(w, "    %s accounts=%d apps=%d emails=%d  %s\n",
				p.Fingerprint[:8], p.Accounts, p.Applications, p.Emails, truncName(p.Name, 40))
		}
	}

	if len(r.Linchpins) > 0 {
		fmt.Fprintf(w, "\n  Linchpin accounts (%d):\n", len(r.Linchpins))
		for _, l := range r.Linchpins {
			fmt.Fprintf(w, "    #%-5d %s splits into %d  %s\n",
				l.Account, l.Person[:8], l.Fragments, truncName(l.Name, 40))
		}
	}
	fmt.Fprintln(w)
}

func truncName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	truncated := s[:max]
	for len(truncated) > 0 && !utf8.ValidString(truncated) {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
