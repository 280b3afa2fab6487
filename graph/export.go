package graph

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// exportHeader is the column order of every centrality export.
var exportHeader = []string{"name", "degree_centrality", "eigenvector_centrality", "pagerank"}

// WriteCSV writes the centrality table with one row per node, keyed by the
// display name column.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			formatMeasure(r.DegreeCentrality),
			formatMeasure(r.EigenvectorCentrality),
			formatMeasure(r.PageRank),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", r.Identifier, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// centralitySheet is the worksheet the table is written to.
const centralitySheet = "Sheet1"

// WriteXLSX writes the centrality table as a single-sheet workbook at path.
func WriteXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(centralitySheet, cell, h); err != nil {
			return fmt.Errorf("writing header %s: %w", h, err)
		}
	}

	for i, r := range rows {
		values := []interface{}{r.Name, r.DegreeCentrality, r.EigenvectorCentrality, r.PageRank}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(centralitySheet, cell, v); err != nil {
				return fmt.Errorf("writing row for %s: %w", r.Identifier, err)
			}
		}
	}
	return f.SaveAs(path)
}
