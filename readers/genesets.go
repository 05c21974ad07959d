package readers

import "fmt"

// GeneSet is one GMT row.
type GeneSet struct {
	Name        string
	Description string
	Members     []string
}

// ReadGeneSets reads a GMT file: set name, description, then members.
// Rows with fewer than three columns are malformed.
func ReadGeneSets(path string) ([]GeneSet, error) {
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	out := make([]GeneSet, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: %s row %d: gene set needs name, description and members", ErrMalformedRow, path, i+1)
		}
		gs := GeneSet{Name: row[0], Description: row[1]}
		for _, m := range row[2:] {
			if m != "" {
				gs.Members = append(gs.Members, m)
			}
		}
		out = append(out, gs)
	}
	return out, nil
}

// Members returns the member lists of sets, in order.
func Members(sets []GeneSet) [][]string {
	out := make([][]string, len(sets))
	for i, s := range sets {
		out[i] = s.Members
	}
	return out
}
