package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"archwiki-offline/internal/models"
)

// ReadRedirects reads a redirect map from a CSV file (header with "from" and
// "to" columns), an NDJSON file of {"from": ..., "to": ...} records, or a
// JSON object mapping titles to targets. Unknown extensions try CSV first.
func ReadRedirects(path string) ([]models.Redirect, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	case ".json":
		return readJSON(path)
	default:
		if rs, err := readCSV(path); err == nil && len(rs) > 0 {
			return rs, nil
		}
		return readNDJSON(path)
	}
}

func readCSV(path string) ([]models.Redirect, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	from, to := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "from":
			from = i
		case "to":
			to = i
		}
	}
	if from == -1 || to == -1 {
		return nil, errors.New("csv must contain 'from' and 'to' header columns")
	}
	var out []models.Redirect
	for _, row := range rows[1:] {
		if from >= len(row) || to >= len(row) {
			continue
		}
		r := models.Redirect{From: strings.TrimSpace(row[from]), To: strings.TrimSpace(row[to])}
		if r.From != "" && r.To != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func readNDJSON(path string) ([]models.Redirect, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []models.Redirect
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var r models.Redirect
		if err := json.Unmarshal([]byte(text), &r); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if r.From != "" && r.To != "" {
			out = append(out, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no redirects found in ndjson")
	}
	return out, nil
}

func readJSON(path string) ([]models.Redirect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := make([]models.Redirect, 0, len(m))
	for from, to := range m {
		out = append(out, models.Redirect{From: from, To: to})
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
