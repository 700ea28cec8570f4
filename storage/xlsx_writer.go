package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"hygiene-analyzer/models"
)

const (
	sheetSummary     = "Summary"
	sheetAuthorities = "Authorities"
	sheetTopRated    = "Top Rated"
)

// XLSXWriter renders a run as a workbook with one sheet per section.
type XLSXWriter struct {
	path string
}

func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

func (x *XLSXWriter) WriteRun(run *models.Run) error {
	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	for _, name := range []string{sheetAuthorities, sheetTopRated} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: add sheet %q: %w", name, err)
		}
	}

	r := run.Report
	if r == nil {
		r = &models.Report{}
	}

	summary := [][]interface{}{
		{"Run", run.ID},
		{"Generated", run.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Businesses", r.TotalBusinesses},
		{"Average Rating", averageCell(r.AverageRating)},
		{},
		{"Rating", "Count"},
	}
	for _, k := range r.RatingsDistribution.Keys() {
		summary = append(summary, []interface{}{k, countOf(r.RatingsDistribution, k)})
	}
	summary = append(summary, []interface{}{}, []interface{}{"Business Type", "Count"})
	for _, item := range r.TopBusinessTypes {
		summary = append(summary, []interface{}{item.Type, item.Count})
	}
	if r.MostImprovedAuthority.HasData() {
		summary = append(summary, []interface{}{},
			[]interface{}{"Most Improved", r.MostImprovedAuthority.Name, r.MostImprovedAuthority.IncreaseInFiveStarCount})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}

	authorities := [][]interface{}{{"Authority", "Average Rating", "Total Businesses", "Five-Star %"}}
	for _, in := range r.AuthorityInsights {
		authorities = append(authorities, []interface{}{
			in.Authority, averageCell(in.AverageRating), in.TotalBusinesses, in.FiveStarPercentage,
		})
	}
	if err := writeRows(f, sheetAuthorities, authorities); err != nil {
		return err
	}

	top := [][]interface{}{{"Name", "Address", "Rating", "Rating Date", "Authority"}}
	for _, b := range r.TopRatedBusinesses {
		top = append(top, []interface{}{b.Name, b.Address, b.Rating, b.RatingDate, b.Authority})
	}
	if err := writeRows(f, sheetTopRated, top); err != nil {
		return err
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// averageCell leaves the cell blank for an undefined average.
func averageCell(a models.Average) interface{} {
	if !a.Valid() {
		return ""
	}
	return float64(a)
}

func countOf(c *models.Counts, key string) int {
	n, _ := c.Get(key)
	return n
}
