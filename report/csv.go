package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"isbnhunt/isbn"
	"isbnhunt/scan"
)

var csvHeader = []string{
	"article_title", "language", "isbn", "format", "context", "article_url",
}

// WriteInvalidCSV writes one row per checksum-failed candidate, for
// offline inspection of what malformed identifiers look like.
func WriteInvalidCSV(w io.Writer, results []scan.ArticleResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		for _, c := range r.Invalid {
			row := []string{
				r.Title,
				r.Lang,
				c.Raw,
				isbn.FormatLabel(c.Normalized),
				c.Context,
				r.URL,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveInvalidCSV writes the invalid-identifier dataset under dir and
// returns the path written.
func SaveInvalidCSV(dir, filename string, results []scan.ArticleResult) (string, error) {
	if filename == "" {
		filename = DefaultName() + ".csv"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteInvalidCSV(f, results); err != nil {
		return "", err
	}
	return path, nil
}
