/*
Package csv loads delimited records into a dictionary.Dictionary, the Go
equivalent of the original Rust csv example's CsvDictionary: read a CSV
reader with encoding/csv, match columns to attribute names by header,
and feed each row to Dictionary.AddEntry.

Rows are staged on a rowStage before being applied, so a row that fails
to parse mid-file is reported before any row is committed to the
dictionary. Rows with fewer or more fields than the header are accepted:
missing columns are left unset and extra fields are ignored.
*/
package csv

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bitmaptrie/trieserve/dictionary"
)

// rowStage holds CSV rows encoded as JSON objects (attribute name to
// raw field value) until the whole file has been read without error.
// It is a plain FIFO: rows are always staged in read order and drained
// in the same order, so nothing beyond append/pop-front is needed.
type rowStage struct {
	rows []string
	next int
}

func (s *rowStage) push(encoded string) {
	s.rows = append(s.rows, encoded)
}

func (s *rowStage) empty() bool {
	return s.next >= len(s.rows)
}

func (s *rowStage) pop() string {
	row := s.rows[s.next]
	s.next++
	return row
}

// LoadDictionary reads every record from r as CSV and adds it to dict.
// When hasHeaders is true the first row supplies attribute names;
// otherwise columns are named column_0, column_1, ... in order. It
// returns the number of rows added (AddEntry can decline a row whose
// only populated columns are unknown to dict's schema).
func LoadDictionary(r io.Reader, dict *dictionary.Dictionary, hasHeaders bool) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, errors.Wrap(err, "read csv header")
	}
	if !hasHeaders {
		columns := make([]string, len(headers))
		copy(columns, headers)
		headers = columnNames(len(columns))
		return loadRows(dict, reader, headers, columns)
	}
	return loadRows(dict, reader, headers, nil)
}

func columnNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "column_" + strconv.Itoa(i)
	}
	return names
}

// loadRows stages every row as a JSON-encoded record, then drains the
// stage into dict. first, if non-nil, is the already-parsed first data
// row (used when the caller has no header row of its own).
func loadRows(dict *dictionary.Dictionary, reader *csv.Reader, headers []string, first []string) (int, error) {
	var staged rowStage

	stage := func(fields []string) error {
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				record[h] = fields[i]
			}
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			return errors.Wrap(err, "encode csv row")
		}
		staged.push(string(encoded))
		return nil
	}

	if first != nil {
		if err := stage(first); err != nil {
			return 0, err
		}
	}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "read csv row")
		}
		if err := stage(fields); err != nil {
			return 0, err
		}
	}

	count := 0
	for !staged.empty() {
		var record map[string]string
		if err := json.Unmarshal([]byte(staged.pop()), &record); err != nil {
			return count, errors.Wrap(err, "decode csv row")
		}
		if _, ok := dict.AddEntry(record); ok {
			count++
		}
	}
	return count, nil
}
