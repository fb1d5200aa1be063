package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"personmerge/internal/accounts"
	"personmerge/internal/apperror"
)

// defaultSource is read when no source is given.
const defaultSource = "accounts.json"

// sourceFlags selects where a command reads its accounts from.
type sourceFlags struct {
	stdin  bool
	fromDB bool
	batch  string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.stdin, "stdin", false, "Read the account list from stdin")
	cmd.Flags().BoolVar(&s.fromDB, "from-db", false, "Read every imported account from the database")
	cmd.Flags().StringVar(&s.batch, "batch", "", "Read one imported batch from the database")
}

// loadAccounts resolves the account list from the database, stdin or the
// given sources (default ./accounts.json), in that priority.
func loadAccounts(ctx context.Context, cmd *cobra.Command, args []string, src sourceFlags) ([]accounts.Account, error) {
	switch {
	case src.fromDB || src.batch != "":
		d, err := OpenDatabase(false)
		if err != nil {
			return nil, apperror.InputUnavailable("database", err)
		}
		defer d.Close()
		if src.batch != "" {
			list, err := d.BatchAccounts(src.batch)
			if err != nil {
				return nil, apperror.InputUnavailable("batch "+src.batch, err)
			}
			return list, nil
		}
		return d.AllAccounts()

	case src.stdin:
		return accounts.Read(cmd.InOrStdin(), "stdin")
	}

	if len(args) == 0 {
		args = []string{defaultSource}
	}
	return accounts.NewLoader(logger).LoadAll(ctx, args...)
}
