// Package batch imports journal entries from CSV and exports stored entries
// back to CSV.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"fjacquet/mood-journal/internal/journal"
	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Journal is the subset of the journal service used by batch operations.
type Journal interface {
	Submit(ctx context.Context, sub journal.Submission) (models.Entry, error)
	Entries(ctx context.Context, alias string) ([]models.Entry, error)
}

// ImportRow maps one line of an import file.
type ImportRow struct {
	Alias     string `csv:"alias"`
	Entry     string `csv:"entry"`
	Anonymous string `csv:"anonymous"`
}

// ExportRow maps one line of an export file.
type ExportRow struct {
	ID         string `csv:"id"`
	Alias      string `csv:"alias"`
	Entry      string `csv:"entry"`
	Label      string `csv:"label"`
	Confidence string `csv:"confidence"`
	Scores     string `csv:"scores"`
	CreatedAt  string `csv:"created_at"`
}

// RowFailure records why a row could not be imported. Line is the 1-based
// line number in the input, counting the header.
type RowFailure struct {
	Line int
	Err  error
}

// Summary reports the outcome of an import.
type Summary struct {
	Total    int
	Imported int
	Skipped  int
	Failed   int
	Failures []RowFailure
}

// Processor runs imports and exports against a journal.
type Processor struct {
	journal Journal
	logger  logging.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(j Journal, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{journal: j, logger: logger}
}

// Import submits every row of r as an independent entry, running at most
// concurrency submissions at a time. Rows with an empty entry are skipped and
// rows that fail are counted; neither stops the import. Only a malformed file
// or a cancelled context returns an error.
func (p *Processor) Import(ctx context.Context, r io.Reader, concurrency int) (Summary, error) {
	var rows []ImportRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Summary{}, fmt.Errorf("error parsing CSV input: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	p.logger.Info("Importing journal entries",
		logging.F(logging.FieldOperation, "import"),
		logging.F(logging.FieldCount, len(rows)))

	summary := Summary{Total: len(rows)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, row := range rows {
		line := i + 2
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := p.journal.Submit(gctx, journal.Submission{
				Alias:     row.Alias,
				Text:      row.Entry,
				Anonymous: parseFlag(row.Anonymous),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				summary.Imported++
			case errors.Is(err, journal.ErrEmptyEntry):
				summary.Skipped++
			default:
				summary.Failed++
				summary.Failures = append(summary.Failures, RowFailure{Line: line, Err: err})
				p.logger.WithError(err).Warn("Failed to import row", logging.F("line", line))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("import interrupted: %w", err)
	}

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Line < summary.Failures[j].Line
	})

	p.logger.Info("Import finished",
		logging.F(logging.FieldOperation, "import"),
		logging.F("imported", summary.Imported),
		logging.F("skipped", summary.Skipped),
		logging.F("failed", summary.Failed))
	return summary, nil
}

// Export writes stored entries, optionally for a single alias, to w and
// returns how many rows were written.
func (p *Processor) Export(ctx context.Context, w io.Writer, alias string) (int, error) {
	entries, err := p.journal.Entries(ctx, alias)
	if err != nil {
		return 0, fmt.Errorf("error loading entries: %w", err)
	}

	rows := make([]ExportRow, 0, len(entries))
	for _, e := range entries {
		row, err := toExportRow(e)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return 0, fmt.Errorf("error writing CSV output: %w", err)
	}

	p.logger.Info("Exported journal entries",
		logging.F(logging.FieldOperation, "export"),
		logging.F(logging.FieldAlias, alias),
		logging.F(logging.FieldCount, len(rows)))
	return len(rows), nil
}

func toExportRow(e models.Entry) (ExportRow, error) {
	result := models.EmotionResult{Label: e.Label, Scores: e.Scores}
	scores, err := result.ScoresJSON()
	if err != nil {
		return ExportRow{}, err
	}
	return ExportRow{
		ID:         e.ID,
		Alias:      e.Alias,
		Entry:      e.Text,
		Label:      e.Label,
		Confidence: decimal.NewFromFloat(result.Confidence()).Round(4).String(),
		Scores:     scores,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}
