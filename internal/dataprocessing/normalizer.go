package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/exporter"
	"stocklens/internal/files"
	"stocklens/internal/infrastructure"
	"stocklens/pkg/contracts/domain"
)

// Normalizer extracts the fixed row schema from heterogeneous raw documents
// and writes one normalized CSV per ticker.
type Normalizer struct {
	paths     *config.Paths
	csvWriter *exporter.CSVWriter
	logger    *slog.Logger
}

// NewNormalizer creates a new schema normalizer.
func NewNormalizer(paths *config.Paths, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		paths:     paths,
		csvWriter: exporter.NewCSVWriter(),
		logger:    logger.With(slog.String("component", "normalizer")),
	}
}

// NormalizeStats reports what one normalizer run did.
type NormalizeStats struct {
	FilesScanned    int
	FilesFailed     int
	RecordsAccepted int
	RecordsSkipped  int
	Tickers         int
}

// Run walks the raw data tree, accumulates each ticker's series across all
// source files, sorts each series by date and writes one CSV per ticker.
// A file that cannot be parsed is reported and skipped; an empty result set
// is a terminal condition for this stage.
func (n *Normalizer) Run(ctx context.Context) (NormalizeStats, error) {
	var stats NormalizeStats

	discovery := files.NewDiscovery("")
	rawFiles, err := discovery.FindRawFiles(n.paths.RawDir)
	if err != nil {
		return stats, apperrors.NewMissingInput(n.paths.RawDir, "raw data folder not found")
	}

	series := make(map[string][]domain.PriceRow)
	for _, file := range rawFiles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.FilesScanned++

		rows, err := n.parseFile(file.Path)
		if err != nil {
			stats.FilesFailed++
			n.logger.Warn("failed to parse raw file, skipping",
				slog.String("file", file.Path),
				slog.String("error", err.Error()))
			continue
		}

		for _, row := range rows {
			if row.Ticker == "" || !row.HasPrices() {
				stats.RecordsSkipped++
				continue
			}
			series[row.Ticker] = append(series[row.Ticker], row)
			stats.RecordsAccepted++
		}
	}

	if len(series) == 0 {
		return stats, apperrors.NewMissingInput(n.paths.RawDir, "no usable records found in raw files")
	}

	tickers := make([]string, 0, len(series))
	for ticker := range series {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		rows := series[ticker]
		dataset.SortByDate(rows)

		records := make([][]string, len(rows))
		for i, row := range rows {
			records[i] = dataset.PriceRecord(row)
		}
		outPath := n.paths.TickerCSV(ticker)
		if err := n.csvWriter.WriteSimpleCSV(outPath, domain.MasterColumns, records); err != nil {
			return stats, fmt.Errorf("failed to write series for ticker %s: %w", ticker, err)
		}
		infrastructure.RowsWritten.WithLabelValues("normalize").Add(float64(len(rows)))
	}
	stats.Tickers = len(tickers)

	n.logger.Info("normalization completed",
		slog.Int("files_scanned", stats.FilesScanned),
		slog.Int("files_failed", stats.FilesFailed),
		slog.Int("records_accepted", stats.RecordsAccepted),
		slog.Int("records_skipped", stats.RecordsSkipped),
		slog.Int("tickers", stats.Tickers))
	return stats, nil
}

// parseFile dispatches on the document format.
func (n *Normalizer) parseFile(path string) ([]domain.PriceRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return n.parseYAML(path)
	case ".xlsx":
		return n.parseWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported raw file format: %s", path)
	}
}

// parseYAML parses one YAML document and extracts every price record it
// contains, whatever its top-level shape.
func (n *Normalizer) parseYAML(path string) ([]domain.PriceRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	var rows []domain.PriceRow
	for _, record := range iterRecords(doc) {
		rows = append(rows, recordToRow(record))
	}
	return rows, nil
}

// iterRecords yields individual records from a parsed YAML document.
//
// Shapes are checked in priority order:
//  1. a list of records
//  2. a map with key "daily" holding a list of records
//  3. a map that is itself a record carrying a ticker
//  4. a map whose values are records or lists of records carrying a ticker
func iterRecords(doc interface{}) []map[interface{}]interface{} {
	var records []map[interface{}]interface{}

	if list, ok := doc.([]interface{}); ok {
		for _, item := range list {
			if m, ok := item.(map[interface{}]interface{}); ok {
				records = append(records, m)
			}
		}
		return records
	}

	m, ok := doc.(map[interface{}]interface{})
	if !ok {
		return nil
	}

	if daily, ok := m["daily"].([]interface{}); ok {
		for _, item := range daily {
			if rec, ok := item.(map[interface{}]interface{}); ok {
				records = append(records, rec)
			}
		}
		return records
	}

	if hasTicker(m) {
		return []map[interface{}]interface{}{m}
	}

	for _, value := range m {
		switch v := value.(type) {
		case map[interface{}]interface{}:
			if hasTicker(v) {
				records = append(records, v)
			}
		case []interface{}:
			for _, item := range v {
				if rec, ok := item.(map[interface{}]interface{}); ok && hasTicker(rec) {
					records = append(records, rec)
				}
			}
		}
	}
	return records
}

func hasTicker(m map[interface{}]interface{}) bool {
	_, upper := m["Ticker"]
	_, lower := m["ticker"]
	return upper || lower
}

// recordToRow converts one raw record into the fixed row schema. Records
// lacking a ticker come back with an empty Ticker and are skipped upstream.
func recordToRow(m map[interface{}]interface{}) domain.PriceRow {
	ticker := scalarString(m["Ticker"])
	if ticker == "" {
		ticker = scalarString(m["ticker"])
	}
	return domain.PriceRow{
		Date:   dataset.ParseDate(scalarString(m["date"])),
		Open:   scalarFloat(m["open"]),
		High:   scalarFloat(m["high"]),
		Low:    scalarFloat(m["low"]),
		Close:  scalarFloat(m["close"]),
		Volume: scalarFloat(m["volume"]),
		Ticker: ticker,
	}
}

// scalarString renders a YAML scalar as a trimmed string.
func scalarString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// scalarFloat coerces a YAML scalar to a float, missing on failure.
func scalarFloat(v interface{}) float64 {
	switch f := v.(type) {
	case nil:
		return domain.Missing()
	case float64:
		return f
	case int:
		return float64(f)
	case int64:
		return float64(f)
	case string:
		return dataset.ParseFloat(f)
	default:
		return domain.Missing()
	}
}

// parseWorkbook extracts price records from every sheet of an XLSX workbook.
// Each sheet is treated as a table with a header row; sheets without a
// recognizable ticker column contribute nothing.
func (n *Normalizer) parseWorkbook(path string) ([]domain.PriceRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var rows []domain.PriceRow
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil || len(sheetRows) < 2 {
			continue
		}

		header := make([]string, len(sheetRows[0]))
		for i, col := range sheetRows[0] {
			header[i] = dataset.CleanColumn(col)
		}
		table := &dataset.Table{Columns: header, Rows: sheetRows[1:]}
		if table.Detect("ticker", "symbol") == -1 {
			continue
		}
		rows = append(rows, table.FlexiblePriceRows()...)
	}
	return rows, nil
}
