package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"stocklens/pkg/contracts/domain"
)

// Table is a raw tabular artifact: a header plus string rows. It is the
// untyped form every CSV passes through before coercion.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable reads a CSV file into a Table, stripping any UTF-8 BOM and
// trimming header cells.
func ReadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = CleanColumn(col)
	}
	return &Table{Columns: header, Rows: records[1:]}, nil
}

// CleanColumn normalizes a header cell: BOM, zero-width characters and
// surrounding spaces removed.
func CleanColumn(col string) string {
	col = strings.TrimSpace(col)
	col = strings.TrimPrefix(col, "\ufeff")
	col = strings.TrimLeft(col, "\u200B\u200C\u200D\u2060\uFEFF")
	return strings.TrimSpace(col)
}

// Index returns the position of the named column using case-insensitive
// exact matching, or -1 when absent.
func (t *Table) Index(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// Detect returns the position of the first column whose lowercased name
// contains any of the candidate substrings, in candidate priority order.
// First match wins; -1 when nothing matches.
func (t *Table) Detect(candidates ...string) int {
	for _, cand := range candidates {
		for i, col := range t.Columns {
			if strings.Contains(strings.ToLower(col), cand) {
				return i
			}
		}
	}
	return -1
}

// Cell returns the trimmed cell at idx, or empty when the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// MissingColumns reports which of the required column names have no
// case-insensitive exact match in the header.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if t.Index(name) == -1 {
			missing = append(missing, name)
		}
	}
	return missing
}

// priceIndices resolves the seven fixed master columns.
type priceIndices struct {
	date, open, high, low, clos, volume, ticker int
}

func (t *Table) priceIndices() priceIndices {
	return priceIndices{
		date:   t.Index("date"),
		open:   t.Index("open"),
		high:   t.Index("high"),
		low:    t.Index("low"),
		clos:   t.Index("close"),
		volume: t.Index("volume"),
		ticker: t.Index("ticker"),
	}
}

// PriceRows coerces the table into typed price rows. Cells that fail
// coercion become missing values, never errors.
func (t *Table) PriceRows() []domain.PriceRow {
	idx := t.priceIndices()
	rows := make([]domain.PriceRow, 0, len(t.Rows))
	for _, rec := range t.Rows {
		rows = append(rows, domain.PriceRow{
			Date:   ParseDate(Cell(rec, idx.date)),
			Open:   ParseFloat(Cell(rec, idx.open)),
			High:   ParseFloat(Cell(rec, idx.high)),
			Low:    ParseFloat(Cell(rec, idx.low)),
			Close:  ParseFloat(Cell(rec, idx.clos)),
			Volume: ParseFloat(Cell(rec, idx.volume)),
			Ticker: Cell(rec, idx.ticker),
		})
	}
	return rows
}

// Candidate column names per logical field, used when reading files that may
// not have gone through this pipeline. First match wins, case-insensitive.
var (
	TickerCandidates = []string{"ticker", "symbol", "stock", "company", "name"}
	SectorCandidates = []string{"sector", "industry"}
	dateCandidates   = []string{"date", "time"}
	openCandidates   = []string{"open"}
	highCandidates   = []string{"high"}
	lowCandidates    = []string{"low"}
	closeCandidates  = []string{"close", "closing", "last"}
	volumeCandidates = []string{"volume", "vol"}
)

// FlexiblePriceRows coerces the table into typed price rows using candidate
// column matching instead of the fixed header contract. Used for externally
// supplied tables such as workbook sheets.
func (t *Table) FlexiblePriceRows() []domain.PriceRow {
	idx := priceIndices{
		date:   t.Detect(dateCandidates...),
		open:   t.Detect(openCandidates...),
		high:   t.Detect(highCandidates...),
		low:    t.Detect(lowCandidates...),
		clos:   t.Detect(closeCandidates...),
		volume: t.Detect(volumeCandidates...),
		ticker: t.Detect(TickerCandidates[:3]...),
	}
	rows := make([]domain.PriceRow, 0, len(t.Rows))
	for _, rec := range t.Rows {
		rows = append(rows, domain.PriceRow{
			Date:   ParseDate(Cell(rec, idx.date)),
			Open:   ParseFloat(Cell(rec, idx.open)),
			High:   ParseFloat(Cell(rec, idx.high)),
			Low:    ParseFloat(Cell(rec, idx.low)),
			Close:  ParseFloat(Cell(rec, idx.clos)),
			Volume: ParseFloat(Cell(rec, idx.volume)),
			Ticker: Cell(rec, idx.ticker),
		})
	}
	return rows
}

// CleanRows coerces a cleaned-table file back into typed rows, including the
// daily_return column.
func (t *Table) CleanRows() []domain.CleanRow {
	ret := t.Index("daily_return")
	price := t.PriceRows()
	rows := make([]domain.CleanRow, len(price))
	for i, rec := range t.Rows {
		rows[i] = domain.CleanRow{PriceRow: price[i], DailyReturn: ParseFloat(Cell(rec, ret))}
	}
	return rows
}
