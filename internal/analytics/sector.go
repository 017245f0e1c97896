package analytics

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/pkg/contracts/domain"
)

// LoadSectorMapping reads an external ticker-to-sector mapping from a CSV
// file or the first usable sheet of an XLSX workbook.
func LoadSectorMapping(path string) (*dataset.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadSectorWorkbook(path)
	}
	return dataset.ReadTable(path)
}

func loadSectorWorkbook(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sector workbook %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		header := make([]string, len(rows[0]))
		for i, col := range rows[0] {
			header[i] = dataset.CleanColumn(col)
		}
		return &dataset.Table{Columns: header, Rows: rows[1:]}, nil
	}
	return nil, fmt.Errorf("sector workbook %s has no usable sheet", path)
}

// SectorPerformance joins yearly returns against the sector mapping and
// averages per sector, sorted descending. The ticker and sector columns are
// auto-detected by substring candidates; tickers absent from the mapping are
// excluded from every average.
func SectorPerformance(yearly []YearlyReturn, mapping *dataset.Table) ([]SectorRow, error) {
	tickerCol := mapping.Detect(dataset.TickerCandidates...)
	sectorCol := mapping.Detect(dataset.SectorCandidates...)
	if tickerCol == -1 || sectorCol == -1 {
		var missing []string
		if tickerCol == -1 {
			missing = append(missing, "ticker")
		}
		if sectorCol == -1 {
			missing = append(missing, "sector")
		}
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("sector mapping (columns found: %s)", strings.Join(mapping.Columns, ", ")),
			missing)
	}

	sectors := make(map[string]string, len(mapping.Rows))
	for _, rec := range mapping.Rows {
		ticker := dataset.Cell(rec, tickerCol)
		sector := dataset.Cell(rec, sectorCol)
		if ticker == "" || sector == "" {
			continue
		}
		sectors[ticker] = sector
	}

	type agg struct {
		sum   float64
		count int
	}
	bySector := make(map[string]*agg)
	for _, r := range yearly {
		if domain.IsMissing(r.Return) {
			continue
		}
		sector, ok := sectors[strings.TrimSpace(r.Ticker)]
		if !ok {
			continue
		}
		a, ok := bySector[sector]
		if !ok {
			a = &agg{}
			bySector[sector] = a
		}
		a.sum += r.Return
		a.count++
	}

	results := make([]SectorRow, 0, len(bySector))
	for sector, a := range bySector {
		results = append(results, SectorRow{Sector: sector, AverageReturn: a.sum / float64(a.count)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AverageReturn != results[j].AverageReturn {
			return results[i].AverageReturn > results[j].AverageReturn
		}
		return results[i].Sector < results[j].Sector
	})
	return results, nil
}
