package readers

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrEmptyTable indicates an input with no usable rows.
	ErrEmptyTable = errors.New("readers: empty table")
	// ErrMalformedRow indicates a row with too few columns or a bad value.
	ErrMalformedRow = errors.New("readers: malformed row")
	// ErrUnmappedSequence indicates, in fragile mode, a peptide sequence with
	// no mapping entry or no mapped protein.
	ErrUnmappedSequence = errors.New("readers: sequence has no mapped proteins")
	// ErrUnknownFastaType indicates a FASTA header style other than UNIPROT/GENCODE.
	ErrUnknownFastaType = errors.New("readers: unknown fasta type")
)

// options are shared by every reader.
type options struct {
	fragile bool
	logger  *zap.Logger
}

// Option configures a reader call.
type Option func(*options)

// WithFragile turns warnings about unmapped sequences into errors.
func WithFragile(fragile bool) Option {
	return func(o *options) { o.fragile = fragile }
}

// WithLogger sets the logger for warnings.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openReader opens path, wrapping it in a gzip reader when the file starts
// with the gzip magic number (1F 8B) or ends in .gz.
func openReader(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// readTSV returns every non-empty row of a tab-separated file with
// surrounding whitespace trimmed from each cell.
func readTSV(path string) ([][]string, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("readers: %w", err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("readers: %s: %w", path, err)
		}
		empty := true
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
			if rec[i] != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, rec)
		}
	}
	return rows, nil
}

// hasLower reports whether any cell contains a lower-case ASCII letter.
func hasLower(row []string) bool {
	for _, cell := range row {
		for i := 0; i < len(cell); i++ {
			if cell[i] >= 'a' && cell[i] <= 'z' {
				return true
			}
		}
	}
	return false
}
