package scan

import (
	"context"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"isbnhunt/wikidump"
)

// An Aggregate is the merged outcome of a whole run.
type Aggregate struct {
	Files   []wikidump.DumpFile
	Results []ArticleResult
	// Failed holds the paths of dumps that could not be processed.
	Failed []string

	TotalArticles int
	LangArticles  map[string]int
	LangElapsed   map[string]time.Duration

	Start, End time.Time
}

// Elapsed is the wall-clock duration of the run.
func (a *Aggregate) Elapsed() time.Duration {
	return a.End.Sub(a.Start)
}

// WorkerCount resolves a requested pool size. -1 means all CPUs but
// one; the result is clamped to the file count and the CPU count, and
// is always at least one.
func WorkerCount(requested, files int) int {
	n := requested
	if n == -1 {
		n = runtime.NumCPU() - 1
	}
	if n > files {
		n = files
	}
	if cpus := runtime.NumCPU(); n > cpus {
		n = cpus
	}
	if n < 1 {
		n = 1
	}
	return n
}

// merge folds completed file results into one aggregate. Nothing here
// depends on completion order: results concatenate in file order and
// the per-language numbers are pure sums.
func merge(files []wikidump.DumpFile, frs []FileResult, start, end time.Time) *Aggregate {
	agg := &Aggregate{
		Files:        files,
		LangArticles: map[string]int{},
		LangElapsed:  map[string]time.Duration{},
		Start:        start,
		End:          end,
	}
	for _, fr := range frs {
		if fr.Err != nil {
			agg.Failed = append(agg.Failed, fr.Path)
			continue
		}
		agg.Results = append(agg.Results, fr.Articles...)
		agg.TotalArticles += fr.ArticleCount
		agg.LangArticles[fr.Lang] += fr.ArticleCount
		agg.LangElapsed[fr.Lang] += fr.Elapsed
	}
	return agg
}

// Run fans the dump files out over a bounded worker pool and merges
// whatever comes back. A single file's failure is logged and skipped;
// it never takes the run down with it. Cancelling the context stops
// new files from being picked up; in-flight files finish on their
// own.
func Run(ctx context.Context, files []wikidump.DumpFile, opts Options, log *zap.Logger) *Aggregate {
	workers := WorkerCount(opts.Workers, len(files))
	sequential := workers == 1

	var perFile *zap.Logger
	if sequential {
		// Per-article progress is only readable without
		// interleaving.
		perFile = log
	}

	start := time.Now()
	frs := make([]FileResult, len(files))
	submitted := 0

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for i, f := range files {
		if ctx.Err() != nil {
			log.Warn("run cancelled, not submitting remaining dumps",
				zap.Int("remaining", len(files)-i))
			break
		}
		submitted = i + 1
		i, f := i, f
		g.Go(func() error {
			fr := ProcessDump(f, opts, perFile)
			frs[i] = fr
			if fr.Err != nil {
				log.Error("dump failed",
					zap.String("path", f.Path),
					zap.Error(fr.Err))
				return nil
			}
			log.Info("dump complete",
				zap.String("lang", f.Lang),
				zap.String("path", f.Path),
				zap.String("articles", humanize.Comma(int64(fr.ArticleCount))),
				zap.Int("with_isbns", len(fr.Articles)),
				zap.Duration("elapsed", fr.Elapsed))
			return nil
		})
	}
	g.Wait()

	return merge(files, frs[:submitted], start, time.Now())
}
