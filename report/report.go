// Package report turns merged scan results into the run report and
// the invalid-identifier dataset.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"isbnhunt/scan"
)

// LangStats holds the per-language slice of the run statistics.
type LangStats struct {
	Articles      int
	Valid         int
	Invalid       int
	UniqueValid   map[string]struct{}
	UniqueInvalid map[string]struct{}
}

// Stats are the rollups the report is written from.
type Stats struct {
	ArticlesWithISBNs int
	TotalValid        int
	TotalInvalid      int
	UniqueValid       map[string]struct{}
	UniqueInvalid     map[string]struct{}

	ISBN10Valid   int
	ISBN10Invalid int
	ISBN13Valid   int
	ISBN13Invalid int

	Langs map[string]*LangStats
}

// TotalISBNs is every candidate of plausible length, valid or not.
func (s *Stats) TotalISBNs() int {
	return s.TotalValid + s.TotalInvalid
}

// PassRate is the percentage of checksum-valid candidates, 0 when
// nothing was found.
func PassRate(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total) * 100
}

func (s *Stats) lang(code string) *LangStats {
	ls, ok := s.Langs[code]
	if !ok {
		ls = &LangStats{
			UniqueValid:   map[string]struct{}{},
			UniqueInvalid: map[string]struct{}{},
		}
		s.Langs[code] = ls
	}
	return ls
}

// Compute rolls the merged article results up into report statistics.
// Uniqueness is keyed on the normalized identifier only.
func Compute(results []scan.ArticleResult) *Stats {
	s := &Stats{
		ArticlesWithISBNs: len(results),
		UniqueValid:       map[string]struct{}{},
		UniqueInvalid:     map[string]struct{}{},
		Langs:             map[string]*LangStats{},
	}

	for _, r := range results {
		ls := s.lang(r.Lang)
		ls.Articles++
		ls.Valid += len(r.Valid)
		ls.Invalid += len(r.Invalid)
		s.TotalValid += len(r.Valid)
		s.TotalInvalid += len(r.Invalid)

		for _, c := range r.Valid {
			s.UniqueValid[c.Normalized] = struct{}{}
			ls.UniqueValid[c.Normalized] = struct{}{}
			switch len(c.Normalized) {
			case 10:
				s.ISBN10Valid++
			case 13:
				s.ISBN13Valid++
			}
		}
		for _, c := range r.Invalid {
			s.UniqueInvalid[c.Normalized] = struct{}{}
			ls.UniqueInvalid[c.Normalized] = struct{}{}
			switch len(c.Normalized) {
			case 10:
				s.ISBN10Invalid++
			case 13:
				s.ISBN13Invalid++
			}
		}
	}

	return s
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}

func speed(articles int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(articles) / elapsed.Seconds()
}

// WriteReport writes the structured text report for a run. Section
// order is fixed; the language breakdown only appears when more than
// one language was scanned.
func WriteReport(w io.Writer, agg *scan.Aggregate, s *Stats) error {
	var b strings.Builder

	b.WriteString("Wikipedia ISBN Extraction Report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&b, "Run Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Processing Time: %.1f seconds\n", agg.Elapsed().Seconds())
	fmt.Fprintf(&b, "Processing Speed: %.1f articles/second\n\n",
		speed(agg.TotalArticles, agg.Elapsed()))

	fmt.Fprintf(&b, "Wikis Processed: %d\n", len(agg.Files))
	b.WriteString("Dump Files:\n")
	for _, f := range agg.Files {
		fmt.Fprintf(&b, "  - %s\n", filepath.Base(f.Path))
	}
	b.WriteString("\n")

	b.WriteString("Article Statistics:\n")
	fmt.Fprintf(&b, "  Total articles processed: %s\n", comma(agg.TotalArticles))
	fmt.Fprintf(&b, "  Articles with ISBNs: %s\n", comma(s.ArticlesWithISBNs))
	fmt.Fprintf(&b, "  Articles without ISBNs: %s\n\n",
		comma(agg.TotalArticles-s.ArticlesWithISBNs))

	b.WriteString("ISBN Statistics:\n")
	fmt.Fprintf(&b, "  Total ISBNs found: %s\n", comma(s.TotalISBNs()))
	fmt.Fprintf(&b, "  Valid ISBNs (checksum passed): %s\n", comma(s.TotalValid))
	fmt.Fprintf(&b, "  Invalid ISBNs (checksum failed): %s\n", comma(s.TotalInvalid))
	fmt.Fprintf(&b, "  Pass rate: %.2f%%\n\n", PassRate(s.TotalValid, s.TotalISBNs()))

	b.WriteString("Unique ISBN Statistics:\n")
	fmt.Fprintf(&b, "  Unique valid ISBNs: %s\n", comma(len(s.UniqueValid)))
	fmt.Fprintf(&b, "  Unique invalid ISBNs: %s\n\n", comma(len(s.UniqueInvalid)))

	b.WriteString("Format Breakdown:\n")
	fmt.Fprintf(&b, "  ISBN-10 (valid): %s\n", comma(s.ISBN10Valid))
	fmt.Fprintf(&b, "  ISBN-10 (invalid): %s\n", comma(s.ISBN10Invalid))
	fmt.Fprintf(&b, "  ISBN-13 (valid): %s\n", comma(s.ISBN13Valid))
	fmt.Fprintf(&b, "  ISBN-13 (invalid): %s\n\n", comma(s.ISBN13Invalid))

	if len(s.Langs) > 1 {
		b.WriteString("Language Breakdown:\n")
		langs := make([]string, 0, len(s.Langs))
		for code := range s.Langs {
			langs = append(langs, code)
		}
		sort.Strings(langs)

		for _, code := range langs {
			ls := s.Langs[code]
			total := ls.Valid + ls.Invalid

			fmt.Fprintf(&b, "\n  %s:\n", strings.ToUpper(code))
			if n, ok := agg.LangArticles[code]; ok {
				fmt.Fprintf(&b, "    Total articles processed: %s\n", comma(n))
			}
			fmt.Fprintf(&b, "    Articles with ISBNs: %s\n", comma(ls.Articles))
			fmt.Fprintf(&b, "    Total ISBNs: %s\n", comma(total))
			fmt.Fprintf(&b, "    Valid ISBNs: %s\n", comma(ls.Valid))
			fmt.Fprintf(&b, "    Invalid ISBNs: %s\n", comma(ls.Invalid))
			fmt.Fprintf(&b, "    Pass rate: %.2f%%\n", PassRate(ls.Valid, total))
			fmt.Fprintf(&b, "    Unique valid: %s\n", comma(len(ls.UniqueValid)))
			fmt.Fprintf(&b, "    Unique invalid: %s\n", comma(len(ls.UniqueInvalid)))
			if elapsed, ok := agg.LangElapsed[code]; ok {
				fmt.Fprintf(&b, "    Processing time: %.1fs\n", elapsed.Seconds())
				fmt.Fprintf(&b, "    Speed: %.1f articles/sec\n",
					speed(agg.LangArticles[code], elapsed))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DefaultName builds the timestamp-derived artifact basename used
// when no explicit prefix is given.
func DefaultName() string {
	return time.Now().Format("20060102_150405")
}

// SaveReport writes the text report under dir, creating it if needed,
// and returns the path written.
func SaveReport(dir, filename string, agg *scan.Aggregate, s *Stats) (string, error) {
	if filename == "" {
		filename = DefaultName() + ".txt"
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

	if err := WriteReport(f, agg, s); err != nil {
		return "", err
	}
	return path, nil
}
