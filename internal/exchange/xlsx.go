package exchange

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kingrea/orgweaver/internal/position"
)

// SheetName is the worksheet written by the XLSX encoder.
const SheetName = "Positions"

func encodeXLSX(w io.Writer, records []position.Position) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("exchange: name sheet: %w", err)
	}
	header := make([]any, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("exchange: write xlsx header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("exchange: header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("exchange: header style: %w", err)
	}

	for i, rec := range records {
		cells := toRow(rec)
		row := make([]any, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		// costs stay numeric so spreadsheets can sum them
		row[costColumn] = rec.ProformaCost
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("exchange: xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("exchange: write xlsx row %s: %w", rec.ID, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("exchange: write xlsx: %w", err)
	}
	return nil
}

func decodeXLSX(r io.Reader) ([]position.Position, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []position.Position{}, nil
	}
	sheet := sheets[0]
	if idx, err := f.GetSheetIndex(SheetName); err == nil && idx >= 0 {
		sheet = SheetName
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return []position.Position{}, nil
	}
	header, err := normalizeHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("row 1: %w", err)
	}

	var (
		records []position.Position
		where   []string
	)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		records = append(records, fromRow(header, row))
		where = append(where, fmt.Sprintf("row %d", i+2))
	}
	if records == nil {
		return []position.Position{}, nil
	}
	return finalize(records, where)
}
