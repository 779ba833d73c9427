package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"isbnhunt/internal/config"
	"isbnhunt/report"
	"isbnhunt/scan"
	"isbnhunt/wikidump"
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Scan all dumps in a directory and write the run artifacts",
	Long: `Scans every .bz2 dump in the dumps directory, validates the
ISBNs it finds, and writes the text report plus the CSV of failed
identifiers. One worker means fully sequential processing; -1 uses
all CPUs but one.`,
	RunE: runHunt,
}

func init() {
	f := huntCmd.Flags()
	f.String("dumps-dir", "dumps", "Directory containing wikipedia dump files")
	f.Int("context", 50, "Context characters kept around each ISBN")
	f.Int("proximity", 6, "Max characters between the ISBN marker and the number")
	f.Int("workers", 1, "Parallel workers (-1 for all CPUs but one)")
	f.String("output-dir", "data", "Directory to write artifacts to")
	f.String("output-prefix", "", "Artifact name prefix (default: timestamp)")
}

// loadOptions layers defaults, the optional config file, and any
// flags the user actually set.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	if cfgFile != "" {
		var err error
		if opts, err = config.Load(cfgFile); err != nil {
			return opts, err
		}
	}

	f := cmd.Flags()
	if f.Changed("dumps-dir") {
		opts.DumpsDir, _ = f.GetString("dumps-dir")
	}
	if f.Changed("context") {
		opts.ContextChars, _ = f.GetInt("context")
	}
	if f.Changed("proximity") {
		opts.Proximity, _ = f.GetInt("proximity")
	}
	if f.Changed("workers") {
		opts.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("output-dir") {
		opts.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("output-prefix") {
		opts.OutputPrefix, _ = f.GetString("output-prefix")
	}

	return opts, opts.Validate()
}

func runHunt(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	files, err := wikidump.Discover(opts.DumpsDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No .bz2 dump files found in %s\n", opts.DumpsDir)
		return nil
	}
	fmt.Printf("Found %d dump file(s) to process\n", len(files))
	if workers := scan.WorkerCount(opts.Workers, len(files)); workers == 1 {
		fmt.Println("Processing dumps sequentially...")
	} else {
		fmt.Printf("Processing dumps in parallel with %d workers...\n", workers)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := scan.Run(ctx, files, scan.Options{
		ContextChars: opts.ContextChars,
		Proximity:    opts.Proximity,
		Workers:      opts.Workers,
	}, logger)

	if len(agg.Results) == 0 {
		fmt.Println("No articles found to process.")
		return nil
	}

	stats := report.Compute(agg.Results)
	printSummary(agg, stats)

	reportName, csvName := artifactNames(opts.OutputPrefix)
	reportPath, err := report.SaveReport(opts.OutputDir, reportName, agg, stats)
	if err != nil {
		return err
	}
	fmt.Printf("\nDetailed report saved to: %s\n", reportPath)

	if stats.TotalInvalid > 0 {
		csvPath, err := report.SaveInvalidCSV(opts.OutputDir, csvName, agg.Results)
		if err != nil {
			return err
		}
		fmt.Printf("Failed ISBNs saved to: %s\n", csvPath)
	} else {
		fmt.Println("No failed ISBNs found - CSV not created")
	}

	return nil
}

// artifactNames pairs the report and CSV names off one prefix or one
// shared timestamp.
func artifactNames(prefix string) (reportName, csvName string) {
	if prefix == "" {
		prefix = report.DefaultName()
	}
	return prefix + ".txt", prefix + ".csv"
}

func printSummary(agg *scan.Aggregate, stats *report.Stats) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Println("OVERALL SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("Total articles processed: %s\n",
		humanize.Comma(int64(agg.TotalArticles)))
	fmt.Printf("Articles with ISBNs: %s\n",
		humanize.Comma(int64(stats.ArticlesWithISBNs)))
	fmt.Printf("Total valid ISBNs found: %s\n",
		humanize.Comma(int64(stats.TotalValid)))
	fmt.Printf("Total invalid ISBNs found: %s\n",
		humanize.Comma(int64(stats.TotalInvalid)))
	fmt.Printf("Total processing time: %.1fs\n", agg.Elapsed().Seconds())

	if len(agg.LangElapsed) == 0 {
		return
	}
	langs := make([]string, 0, len(agg.LangElapsed))
	for code := range agg.LangElapsed {
		langs = append(langs, code)
	}
	sort.Strings(langs)

	fmt.Println("\nProcessing time by language:")
	for _, code := range langs {
		elapsed := agg.LangElapsed[code]
		articles := agg.LangArticles[code]
		withISBNs := 0
		if ls, ok := stats.Langs[code]; ok {
			withISBNs = ls.Articles
		}
		rate := 0.0
		if secs := elapsed.Seconds(); secs > 0 {
			rate = float64(articles) / secs
		}
		fmt.Printf("  %s: %.1fs (%s articles processed, %s with ISBNs, %.1f articles/sec)\n",
			strings.ToUpper(code), elapsed.Seconds(),
			humanize.Comma(int64(articles)),
			humanize.Comma(int64(withISBNs)), rate)
	}
}
