package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type placeRecord struct {
	Row    int
	Values map[string]string
}

// placeDecoder reads a place CSV one record at a time. The header is read
// eagerly so structural problems surface before any row is handled.
type placeDecoder struct {
	reader *csv.Reader
	header []string
	row    int
}

func newPlaceDecoder(r io.Reader) (*placeDecoder, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrImportEmptyFile
		}
		return nil, decodeError(err)
	}

	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}
	if isRecordEmpty(normalized) {
		return nil, ErrImportEmptyFile
	}
	return &placeDecoder{reader: reader, header: normalized}, nil
}

// Rows yields data records in file order, numbered from 1. Blank records
// are skipped and not numbered. A read failure is yielded once and ends
// the sequence.
func (d *placeDecoder) Rows() iter.Seq2[placeRecord, error] {
	return func(yield func(placeRecord, error) bool) {
		for {
			record, err := d.reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(placeRecord{}, decodeError(err))
				return
			}
			if isRecordEmpty(record) {
				continue
			}
			d.row++
			if !yield(placeRecord{Row: d.row, Values: rowToMap(d.header, record)}, nil) {
				return
			}
		}
	}
}

func decodeError(err error) error {
	if errors.Is(err, ErrImportTooLarge) {
		return err
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s", ErrImportMalformed, parseErr.Error())
	}
	return fmt.Errorf("%w: %w", ErrImportMalformed, err)
}

// rowToMap keys a record by header. Duplicate header names keep the first
// column; extra trailing values without a header are ignored.
func rowToMap(header []string, record []string) map[string]string {
	out := make(map[string]string, len(header))
	for idx, key := range header {
		if key == "" {
			continue
		}
		if _, dup := out[key]; dup {
			continue
		}
		val := ""
		if idx < len(record) {
			val = strings.TrimSpace(record[idx])
		}
		out[key] = val
	}
	return out
}

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.ToLower(h))
}

func isRecordEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// sizeLimitedReader fails with ErrImportTooLarge once more than max bytes
// have been requested, rather than silently truncating like io.LimitReader.
type sizeLimitedReader struct {
	r         io.Reader
	remaining int64
}

func limitUpload(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &sizeLimitedReader{r: r, remaining: max}
}

func (l *sizeLimitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var peek [1]byte
		n, err := l.r.Read(peek[:])
		if n > 0 {
			return 0, ErrImportTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
