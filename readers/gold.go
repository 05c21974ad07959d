package readers

import (
	"fmt"

	"github.com/katalvlaran/xlranker/ml"
)

// ReadGoldStandard reads a known-PPI table: a header row, then two protein
// names per row. Extra columns are ignored.
func ReadGoldStandard(path string) (*ml.GoldStandard, error) {
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s has no interactions", ErrEmptyTable, path)
	}
	gold := ml.NewGoldStandard(nil)
	for i, row := range rows[1:] {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("%w: %s row %d: need two proteins", ErrMalformedRow, path, i+2)
		}
		gold.Add(row[0], row[1])
	}
	return gold, nil
}
