package analytics

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/exporter"
	"stocklens/internal/infrastructure"
	"stocklens/pkg/contracts/domain"
)

// Engine runs every derivation over a shared read-only view of the cleaned
// table. Sub-computations are independent and run concurrently; a failed
// artifact is recorded and never aborts its siblings.
type Engine struct {
	paths     *config.Paths
	csvWriter *exporter.CSVWriter
	logger    *slog.Logger
}

// NewEngine creates a derivation engine.
func NewEngine(paths *config.Paths, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		paths:     paths,
		csvWriter: exporter.NewCSVWriter(),
		logger:    logger.With(slog.String("component", "derivation_engine")),
	}
}

// Result reports the outcome of one engine run, per artifact.
type Result struct {
	mu     sync.Mutex
	Errors map[string]error
}

// Failed returns the names of artifacts that produced no output.
func (r *Result) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.Errors))
	for name, err := range r.Errors {
		if err != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Result) record(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors[name] = err
}

// Run loads the cleaned table and derives every artifact. It returns an
// error only when the cleaned table itself is unusable; individual artifact
// failures live in the Result.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	table, err := dataset.ReadTable(e.paths.CleanedCSV)
	if err != nil {
		return nil, apperrors.NewMissingInput(e.paths.CleanedCSV, "cleaned table not found")
	}
	if missing := table.MissingColumns(domain.CleanedColumns); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(e.paths.CleanedCSV, missing)
	}
	rows := table.CleanRows()
	infrastructure.RowsRead.WithLabelValues("derive").Add(float64(len(rows)))

	// The cleaner writes (ticker, date)-sorted output; re-sorting here keeps
	// the derivations correct for hand-edited tables too.
	sortCleanRows(rows)

	result := &Result{Errors: make(map[string]error)}
	g, ctx := errgroup.WithContext(ctx)

	run := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			ctx, span := infrastructure.StartStageSpan(ctx, "derive."+name)
			err := fn(ctx)
			infrastructure.EndStageSpan(span, err)
			result.record(name, err)
			if err != nil {
				e.logger.Error("artifact derivation failed",
					slog.String("artifact", name),
					slog.String("error", err.Error()))
			}
			// Sub-computation failures are isolated per artifact.
			return nil
		})
	}

	run(domain.ArtifactYearlyReturns, func(context.Context) error { return e.deriveReturns(rows) })
	run(domain.ArtifactVolatility, func(context.Context) error { return e.deriveVolatility(rows) })
	run(domain.ArtifactCumulative, func(context.Context) error { return e.deriveCumulative(rows) })
	run(domain.ArtifactSector, func(context.Context) error { return e.deriveSector(rows) })
	run(domain.ArtifactCorrelation, func(context.Context) error { return e.deriveCorrelation(rows) })
	run(domain.ArtifactGainers, func(context.Context) error { return e.deriveMonthly(rows) })
	run(domain.ArtifactMarketSummary, func(context.Context) error { return e.deriveSummary(rows) })

	if err := g.Wait(); err != nil {
		return result, err
	}

	if failed := result.Failed(); len(failed) > 0 {
		e.logger.Warn("derivation completed with failed artifacts",
			slog.Any("failed", failed))
	} else {
		e.logger.Info("derivation completed", slog.Int("artifacts", len(result.Errors)))
	}
	return result, nil
}

func (e *Engine) write(name string, headers []string, records [][]string) error {
	if err := e.csvWriter.WriteSimpleCSV(e.paths.ArtifactPath(name), headers, records); err != nil {
		return err
	}
	infrastructure.RowsWritten.WithLabelValues("derive").Add(float64(len(records)))
	return nil
}

func (e *Engine) deriveReturns(rows []domain.CleanRow) error {
	yearly := YearlyReturns(rows)

	records := make([][]string, len(yearly))
	for i, r := range yearly {
		records[i] = []string{r.Ticker, dataset.FormatFloat(r.Return)}
	}
	if err := e.write(domain.ArtifactYearlyReturns, domain.Artifacts[domain.ArtifactYearlyReturns].Columns, records); err != nil {
		return err
	}

	toRecords := func(rs []YearlyReturn) [][]string {
		out := make([][]string, len(rs))
		for i, r := range rs {
			out[i] = []string{r.Ticker, dataset.FormatFloat(r.Return)}
		}
		return out
	}
	if err := e.write(domain.ArtifactTopGreen, domain.Artifacts[domain.ArtifactTopGreen].Columns, toRecords(TopReturns(yearly, 10, true))); err != nil {
		return err
	}
	return e.write(domain.ArtifactTopLoss, domain.Artifacts[domain.ArtifactTopLoss].Columns, toRecords(TopReturns(yearly, 10, false)))
}

func (e *Engine) deriveVolatility(rows []domain.CleanRow) error {
	vol := Volatility(rows)

	records := make([][]string, len(vol))
	for i, r := range vol {
		records[i] = []string{r.Ticker, dataset.FormatFloat(r.Volatility)}
	}
	if err := e.write(domain.ArtifactVolatility, domain.Artifacts[domain.ArtifactVolatility].Columns, records); err != nil {
		return err
	}

	top := TopVolatility(vol, 10)
	topRecords := make([][]string, len(top))
	for i, r := range top {
		topRecords[i] = []string{r.Ticker, dataset.FormatFloat(r.Volatility)}
	}
	return e.write(domain.ArtifactTopVolatile, domain.Artifacts[domain.ArtifactTopVolatile].Columns, topRecords)
}

func (e *Engine) deriveCumulative(rows []domain.CleanRow) error {
	series := CumulativeReturns(rows)

	records := make([][]string, len(series))
	for i, r := range series {
		records[i] = []string{
			r.Ticker,
			dataset.FormatDate(r.Date),
			dataset.FormatFloat(r.DailyReturn),
			dataset.FormatFloat(r.CumulativeReturn),
		}
	}
	if err := e.write(domain.ArtifactCumulative, domain.Artifacts[domain.ArtifactCumulative].Columns, records); err != nil {
		return err
	}

	finals := FinalCumulativeReturns(series, 5)
	finalRecords := make([][]string, len(finals))
	for i, r := range finals {
		finalRecords[i] = []string{r.Ticker, dataset.FormatFloat(r.Return)}
	}
	return e.write(domain.ArtifactTopCumulative, domain.Artifacts[domain.ArtifactTopCumulative].Columns, finalRecords)
}

func (e *Engine) deriveSector(rows []domain.CleanRow) error {
	mapping, err := LoadSectorMapping(e.paths.SectorFile)
	if err != nil {
		return apperrors.NewMissingInput(e.paths.SectorFile, err.Error())
	}
	sectors, err := SectorPerformance(YearlyReturns(rows), mapping)
	if err != nil {
		return err
	}

	records := make([][]string, len(sectors))
	for i, r := range sectors {
		records[i] = []string{r.Sector, dataset.FormatFloat(r.AverageReturn)}
	}
	return e.write(domain.ArtifactSector, domain.Artifacts[domain.ArtifactSector].Columns, records)
}

func (e *Engine) deriveCorrelation(rows []domain.CleanRow) error {
	matrix := Correlation(rows)

	headers := append([]string{"ticker"}, matrix.Tickers...)
	records := make([][]string, len(matrix.Tickers))
	for i, ticker := range matrix.Tickers {
		record := make([]string, 0, len(matrix.Tickers)+1)
		record = append(record, ticker)
		for j := range matrix.Tickers {
			record = append(record, dataset.FormatFloat(matrix.Values[i][j]))
		}
		records[i] = record
	}
	return e.write(domain.ArtifactCorrelation, headers, records)
}

func (e *Engine) deriveMonthly(rows []domain.CleanRow) error {
	gainers, losers := MonthlyLeaderboards(rows)

	toRecords := func(rs []MonthlyRow) [][]string {
		out := make([][]string, len(rs))
		for i, r := range rs {
			out[i] = []string{r.Ticker, r.Month, dataset.FormatFloat(r.Return), strconv.Itoa(r.Rank)}
		}
		return out
	}
	if err := e.write(domain.ArtifactGainers, domain.Artifacts[domain.ArtifactGainers].Columns, toRecords(gainers)); err != nil {
		return err
	}
	return e.write(domain.ArtifactLosers, domain.Artifacts[domain.ArtifactLosers].Columns, toRecords(losers))
}

func (e *Engine) deriveSummary(rows []domain.CleanRow) error {
	summary := MarketSummary(rows)

	records := make([][]string, len(summary))
	for i, m := range summary {
		records[i] = []string{m.Metric, dataset.FormatFloat(m.Value)}
	}
	return e.write(domain.ArtifactMarketSummary, domain.Artifacts[domain.ArtifactMarketSummary].Columns, records)
}

// sortCleanRows stable-sorts by (ticker, date ascending), missing dates last.
func sortCleanRows(rows []domain.CleanRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		a, b := rows[i].Date, rows[j].Date
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.Before(b)
		}
	})
}
