// Package source loads and stores the series an animation is built from.
package source

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("source: unsupported file format")
	ErrMissingColumn     = errors.New("source: required column missing")
	ErrInvalidLabel      = errors.New("source: class label must be 0 or 1")
)

const (
	ColumnValue     = "reconstruction_error"
	ColumnThreshold = "threshold"
	ColumnLabel     = "class_label"
)

var columnAliases = map[string]string{
	"reconstruction_error":  ColumnValue,
	"reconstruction_errors": ColumnValue,
	"value":                 ColumnValue,
	"error":                 ColumnValue,
	"threshold":             ColumnThreshold,
	"threshold_history":     ColumnThreshold,
	"class_label":           ColumnLabel,
	"class_labels":          ColumnLabel,
	"label":                 ColumnLabel,
	"class":                 ColumnLabel,
	"target":                ColumnLabel,
}

// Series is one reconstruction error history with its threshold and
// optional anomaly labels.
type Series struct {
	Values      []float64 `json:"reconstruction_errors"`
	Threshold   []float64 `json:"threshold"`
	ClassLabels []int     `json:"class_labels,omitempty"`
}

func (s *Series) Len() int { return len(s.Values) }

// Load reads a series from a .csv or .json file.
func Load(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV parses a header row followed by one row per time step. The value
// and threshold columns are required, the label column is optional.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		if canon, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			cols[canon] = i
		}
	}
	vi, ok := cols[ColumnValue]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnValue)
	}
	ti, ok := cols[ColumnThreshold]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnThreshold)
	}
	li, hasLabels := cols[ColumnLabel]

	s := &Series{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := parseFloat(rec, vi)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnValue, err)
		}
		th, err := parseFloat(rec, ti)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnThreshold, err)
		}
		s.Values = append(s.Values, v)
		s.Threshold = append(s.Threshold, th)
		if hasLabels {
			l, err := parseLabel(rec, li)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, ColumnLabel, err)
			}
			s.ClassLabels = append(s.ClassLabels, l)
		}
	}
	return s, nil
}

func parseFloat(rec []string, i int) (float64, error) {
	if i >= len(rec) {
		return 0, errors.New("missing field")
	}
	return strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
}

// parseLabel accepts 0 and 1, also written as floats ("1.0").
func parseLabel(rec []string, i int) (int, error) {
	f, err := parseFloat(rec, i)
	if err != nil {
		return 0, err
	}
	switch f {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	}
	return 0, fmt.Errorf("%w, got %s", ErrInvalidLabel, strings.TrimSpace(rec[i]))
}

// ReadJSON decodes an object with reconstruction_errors, threshold and
// class_labels arrays.
func ReadJSON(r io.Reader) (*Series, error) {
	var s Series
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes s to path, choosing the format from the extension.
func Save(path string, s *Series) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".json" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".csv" {
		err = WriteCSV(f, s)
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(s)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes s with the canonical column names.
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)

	header := []string{ColumnValue, ColumnThreshold}
	hasLabels := len(s.ClassLabels) == len(s.Values) && len(s.Values) > 0
	if hasLabels {
		header = append(header, ColumnLabel)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, v := range s.Values {
		th := 0.0
		if i < len(s.Threshold) {
			th = s.Threshold[i]
		}
		row := []string{
			strconv.FormatFloat(v, 'f', -1, 64),
			strconv.FormatFloat(th, 'f', -1, 64),
		}
		if hasLabels {
			row = append(row, strconv.Itoa(s.ClassLabels[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
