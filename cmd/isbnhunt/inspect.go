package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isbnhunt/wikidump"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the discovered dumps with their format details",
	Long: `Lists every dump file in the dumps directory along with its
language code, declared XML namespace, compressed size, and a rough
processing time estimate. Useful for a sanity check before committing
to a long scan.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("dumps-dir", "dumps",
		"Directory containing wikipedia dump files")
}

func runInspect(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dumps-dir")

	files, err := wikidump.Discover(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No .bz2 dump files found in %s\n", dir)
		return nil
	}

	fmt.Printf("%-50s %-8s %-10s %-10s %s\n",
		"FILE", "LANG", "SIZE", "EST", "NAMESPACE")
	for _, f := range files {
		size := int64(0)
		if fi, err := os.Stat(f.Path); err == nil {
			size = fi.Size()
		}

		ns, err := wikidump.Namespace(f.Path)
		if err != nil {
			logger.Warn("could not read dump header",
				zap.String("path", f.Path), zap.Error(err))
			ns = "?"
		}

		fmt.Printf("%-50s %-8s %-10s %-10s %s\n",
			filepath.Base(f.Path), f.Lang,
			humanize.Bytes(uint64(size)), estimate(size), ns)
	}
	return nil
}

// estimate guesses the scan time for a dump from its compressed size,
// assuming roughly 2000 bytes per article and 500 articles a second.
func estimate(size int64) string {
	articles := float64(size) / 2000
	secs := int64(articles / 500)

	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
