package scan

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"isbnhunt/isbn"
	"isbnhunt/wikidump"
)

func TestWorkerCount(t *testing.T) {
	cpus := runtime.NumCPU()

	assert.Equal(t, 1, WorkerCount(1, 10))
	assert.Equal(t, 2, WorkerCount(8, 2))
	assert.Equal(t, 1, WorkerCount(0, 10))
	assert.Equal(t, 1, WorkerCount(-5, 10))

	all := WorkerCount(-1, 100)
	assert.GreaterOrEqual(t, all, 1)
	assert.LessOrEqual(t, all, cpus)

	assert.LessOrEqual(t, WorkerCount(1000, 1000), cpus)
}

func sampleFileResults() (files []wikidump.DumpFile, frs []FileResult) {
	files = []wikidump.DumpFile{
		{Path: "enwiki-1.bz2", Lang: "en"},
		{Path: "dewiki-1.bz2", Lang: "de"},
		{Path: "enwiki-2.bz2", Lang: "en"},
	}
	frs = []FileResult{
		{
			Path: "enwiki-1.bz2", Lang: "en",
			ArticleCount: 10, Elapsed: 2 * time.Second,
			Articles: []ArticleResult{{
				Title: "A", Lang: "en", TotalFound: 1,
				Valid: []isbn.Candidate{{Normalized: "0306406152"}},
			}},
		},
		{
			Path: "dewiki-1.bz2", Lang: "de",
			ArticleCount: 5, Elapsed: time.Second,
			Articles: []ArticleResult{{
				Title: "B", Lang: "de", TotalFound: 1,
				Invalid: []isbn.Candidate{{Normalized: "0306406151"}},
			}},
		},
		{
			Path: "enwiki-2.bz2", Lang: "en",
			ArticleCount: 7, Elapsed: 3 * time.Second,
		},
	}
	return files, frs
}

func TestMerge(t *testing.T) {
	files, frs := sampleFileResults()
	agg := merge(files, frs, time.Now(), time.Now())

	assert.Equal(t, 22, agg.TotalArticles)
	assert.Equal(t, 17, agg.LangArticles["en"])
	assert.Equal(t, 5, agg.LangArticles["de"])
	assert.Equal(t, 5*time.Second, agg.LangElapsed["en"])
	assert.Equal(t, time.Second, agg.LangElapsed["de"])
	assert.Len(t, agg.Results, 2)
	assert.Empty(t, agg.Failed)
}

func TestMergeOrderIndependent(t *testing.T) {
	files, frs := sampleFileResults()
	fwd := merge(files, frs, time.Now(), time.Now())

	rev := make([]FileResult, len(frs))
	for i, fr := range frs {
		rev[len(frs)-1-i] = fr
	}
	bwd := merge(files, rev, time.Now(), time.Now())

	assert.Equal(t, fwd.TotalArticles, bwd.TotalArticles)
	assert.Equal(t, fwd.LangArticles, bwd.LangArticles)
	assert.Equal(t, fwd.LangElapsed, bwd.LangElapsed)
	assert.Len(t, bwd.Results, len(fwd.Results))
}

func TestMergeFailure(t *testing.T) {
	files, frs := sampleFileResults()
	frs[1] = FileResult{Path: "dewiki-1.bz2", Lang: "de",
		Err: assert.AnError}

	agg := merge(files, frs, time.Now(), time.Now())

	// The failed file is excluded, everything else still merges.
	assert.Equal(t, []string{"dewiki-1.bz2"}, agg.Failed)
	assert.Equal(t, 17, agg.TotalArticles)
	assert.Len(t, agg.Results, 1)
	assert.NotContains(t, agg.LangArticles, "de")
}

func TestRun(t *testing.T) {
	files, err := wikidump.Discover("testdata")
	require.NoError(t, err)
	require.Len(t, files, 3)

	agg := Run(context.Background(), files, testOpts, zap.NewNop())

	// The corrupt dump fails; the other two merge regardless.
	require.Len(t, agg.Failed, 1)
	assert.Contains(t, agg.Failed[0], "xxwiki")

	assert.Equal(t, 3, agg.TotalArticles)
	assert.Equal(t, 2, agg.LangArticles["en"])
	assert.Equal(t, 1, agg.LangArticles["de"])
	require.Len(t, agg.Results, 2)
}

func TestRunParallelMatchesSequential(t *testing.T) {
	files, err := wikidump.Discover("testdata")
	require.NoError(t, err)

	seq := Run(context.Background(), files, testOpts, zap.NewNop())

	par := testOpts
	par.Workers = -1
	got := Run(context.Background(), files, par, zap.NewNop())

	assert.Equal(t, seq.TotalArticles, got.TotalArticles)
	assert.Equal(t, seq.LangArticles, got.LangArticles)
	assert.Len(t, got.Results, len(seq.Results))
	assert.Equal(t, seq.Failed, got.Failed)
}

func TestRunCancelled(t *testing.T) {
	files, err := wikidump.Discover("testdata")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := Run(ctx, files, testOpts, zap.NewNop())
	assert.Zero(t, agg.TotalArticles)
	assert.Empty(t, agg.Results)
}
