package exchange

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kingrea/orgweaver/internal/position"
)

func encodeJSON(w io.Writer, records []position.Position) error {
	if records == nil {
		records = []position.Position{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("exchange: encode json: %w", err)
	}
	return nil
}

func decodeJSON(r io.Reader) ([]position.Position, error) {
	var records []position.Position
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return []position.Position{}, nil
		}
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(records) == 0 {
		return []position.Position{}, nil
	}
	where := make([]string, len(records))
	for i := range records {
		where[i] = fmt.Sprintf("record %d", i+1)
	}
	return finalize(records, where)
}
