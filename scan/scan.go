// Package scan runs the ISBN extraction pipeline over dump files and
// aggregates the results.
package scan

import (
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"isbnhunt/isbn"
	"isbnhunt/wikidump"
)

// Options control a scan run.
type Options struct {
	// ContextChars is how much surrounding text to keep per match.
	ContextChars int
	// Proximity is how far before a match the ISBN marker may sit.
	Proximity int
	// Workers is the dump-file pool size; -1 means all CPUs but one.
	Workers int
}

// An ArticleResult holds everything found in one article. Articles
// without candidates never produce one.
type ArticleResult struct {
	Title      string
	Lang       string
	URL        string
	TotalFound int
	Valid      []isbn.Candidate
	Invalid    []isbn.Candidate
}

// A FileResult is one dump file's worth of work, successful or not.
type FileResult struct {
	Path         string
	Lang         string
	Articles     []ArticleResult
	ArticleCount int
	Elapsed      time.Duration
	Err          error
}

// ArticleURL gets the canonical URL for an article title in a
// language edition.
func ArticleURL(lang, title string) string {
	return "https://" + lang + ".wikipedia.org/wiki/" +
		strings.Replace(title, " ", "_", -1)
}

// scanArticle extracts and classifies candidates from one article.
// The second return is false when the article had none.
func scanArticle(a wikidump.Article, lang string, opts Options) (ArticleResult, bool) {
	cands := isbn.FindCandidates(a.Text, opts.ContextChars, opts.Proximity)
	if len(cands) == 0 {
		return ArticleResult{}, false
	}

	rv := ArticleResult{
		Title:      a.Title,
		Lang:       lang,
		URL:        ArticleURL(lang, a.Title),
		TotalFound: len(cands),
	}
	for _, c := range cands {
		valid := false
		switch len(c.Normalized) {
		case 10:
			valid = isbn.Validate10(c.Raw)
		case 13:
			valid = isbn.Validate13(c.Raw)
		}
		if valid {
			rv.Valid = append(rv.Valid, c)
		} else {
			rv.Invalid = append(rv.Invalid, c)
		}
	}
	return rv, true
}

// readArticles drains a reader, scanning every article. A decode
// error partway through discards the file's partial results, matching
// the all-or-nothing handling of a failed dump.
func readArticles(r *wikidump.Reader, lang string, opts Options, log *zap.Logger) ([]ArticleResult, int, error) {
	var rv []ArticleResult
	count := 0
	start := time.Now()

	for {
		a, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		count++

		ar, found := scanArticle(a, lang, opts)
		if !found {
			continue
		}
		rv = append(rv, ar)

		if log != nil && len(rv)%100 == 0 {
			elapsed := time.Since(start).Seconds()
			rate := 0.0
			if elapsed > 0 {
				rate = float64(count) / elapsed
			}
			log.Info("progress",
				zap.String("lang", lang),
				zap.String("articles", humanize.Comma(int64(count))),
				zap.Int("with_isbns", len(rv)),
				zap.Float64("articles_per_sec", rate))
		}
	}

	return rv, count, nil
}

// ProcessDump runs the full extract/validate pipeline over one dump
// file. Failures are reported in the result, never panicked; a failed
// file contributes nothing to the aggregate.
func ProcessDump(file wikidump.DumpFile, opts Options, log *zap.Logger) FileResult {
	rv := FileResult{Path: file.Path, Lang: file.Lang}
	start := time.Now()

	r, err := wikidump.Open(file.Path)
	if err != nil {
		rv.Err = err
		return rv
	}
	defer r.Close()

	articles, count, err := readArticles(r, file.Lang, opts, log)
	if err != nil {
		rv.Err = errors.Wrapf(err, "decoding dump %v", file.Path)
		return rv
	}

	rv.Articles = articles
	rv.ArticleCount = count
	rv.Elapsed = time.Since(start)
	return rv
}
