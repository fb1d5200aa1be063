package accounts

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"

	"personmerge/internal/apperror"
)

// maxParallelLoads caps concurrent source downloads in LoadAll.
const maxParallelLoads = 4

// Loader reads account lists from any afs URL: plain paths, file://, mem://
// and the other schemes afs registers.
type Loader struct {
	fs     afs.Service
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{fs: afs.New(), logger: logger}
}

// Load downloads and decodes one account source.
func (l *Loader) Load(ctx context.Context, URL string) ([]Account, error) {
	exists, err := l.fs.Exists(ctx, URL)
	if err != nil {
		return nil, apperror.InputUnavailable(URL, err)
	}
	if !exists {
		return nil, apperror.InputUnavailable(URL, fs.ErrNotExist)
	}

	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, apperror.InputUnavailable(URL, err)
	}

	accounts, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	l.logger.Debug("loaded accounts", slog.String("source", URL), slog.Int("count", len(accounts)))
	return accounts, nil
}

// LoadAll loads several sources concurrently and concatenates them in
// argument order, so input positions stay deterministic.
func (l *Loader) LoadAll(ctx context.Context, URLs ...string) ([]Account, error) {
	batches := make([][]Account, len(URLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, URL := range URLs {
		g.Go(func() error {
			accounts, err := l.Load(ctx, URL)
			if err != nil {
				return err
			}
			batches[i] = accounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, batch := range batches {
		total += len(batch)
	}
	all := make([]Account, 0, total)
	for _, batch := range batches {
		all = append(all, batch...)
	}
	return all, nil
}

// Read decodes an account list from r, e.g. stdin.
func Read(r io.Reader, source string) ([]Account, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperror.InputUnavailable(source, err)
	}
	return Decode(data)
}
