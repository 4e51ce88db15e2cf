package exchange

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/kingrea/orgweaver/internal/position"
)

func encodeCSV(w io.Writer, records []position.Position) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("exchange: write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(toRow(rec)); err != nil {
			return fmt.Errorf("exchange: write csv row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("exchange: flush csv: %w", err)
	}
	return nil
}

func decodeCSV(r io.Reader) ([]position.Position, error) {
	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []position.Position{}, nil
	}
	if err != nil {
		return nil, err
	}
	header, err = normalizeHeader(header)
	if err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}

	var (
		records []position.Position
		where   []string
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blankRow(row) {
			continue
		}
		records = append(records, fromRow(header, row))
		where = append(where, fmt.Sprintf("line %d", line))
	}
	if records == nil {
		return []position.Position{}, nil
	}
	return finalize(records, where)
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
