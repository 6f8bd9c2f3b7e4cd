package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"imagediff/database"
	"imagediff/imageprocessor"
	"imagediff/logging"
	"imagediff/signalhandler"
	"imagediff/similarity"
	"imagediff/types"
	"imagediff/utils"
)

func main() {
	os.Exit(runMain(filepath.Base(os.Args[0]), os.Args[1:]))
}

// runMain returns the process exit code so deferred cleanup runs before exit
func runMain(name string, args []string) int {
	cfg, err := utils.ParseArguments(name, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		utils.PrintUsage(os.Stderr, name)
		return 2
	}
	if cfg.ShowHelp {
		utils.PrintUsage(os.Stdout, name)
		return 0
	}

	if cfg.DebugMode {
		if err := logging.SetupLogger(cfg.LogPath); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", cfg.LogPath)
		}
	}
	defer logging.CloseLogger()

	var db *sql.DB
	if cfg.DatabasePath != "" {
		db, err = database.InitDatabase(cfg.DatabasePath)
		if err != nil {
			return fail("Error opening history database: %v", err)
		}
		defer db.Close()
	}

	signalhandler.SetupHandler(func() {
		if db != nil {
			db.Close()
		}
		logging.CloseLogger()
	})

	if cfg.History > 0 {
		if err := printHistory(os.Stdout, db, cfg.History); err != nil {
			return fail("Error reading history: %v", err)
		}
		return 0
	}

	if err := run(context.Background(), os.Stdout, cfg, db); err != nil {
		var decodeErr *imageprocessor.DecodeError
		if errors.As(err, &decodeErr) {
			return fail("Cannot read image: %v", err)
		}
		return fail("Comparison failed: %v", err)
	}
	return 0
}

// fail restores stderr logging so the message is visible in debug mode too
func fail(format string, args ...interface{}) int {
	logging.CloseLogger()
	logging.LogError(format, args...)
	return 1
}

// noteInputs logs how each path will be decoded
func noteInputs(paths ...string) {
	for _, path := range paths {
		switch {
		case imageprocessor.IsRawFormat(path):
			logging.LogInfo("%s is a RAW file, comparing its embedded preview", path)
		case !imageprocessor.IsImageFile(path):
			logging.LogWarning("%s has no known image extension, decoding by content", path)
		}
	}
}

func run(ctx context.Context, out io.Writer, cfg *utils.Config, db *sql.DB) error {
	comparator, err := similarity.NewComparator(nil, similarity.CompareOptions{HashSize: cfg.HashSize})
	if err != nil {
		return err
	}

	noteInputs(cfg.ImageA, cfg.ImageB)

	result, err := comparator.Compare(ctx, imageprocessor.FromPath(cfg.ImageA), imageprocessor.FromPath(cfg.ImageB))
	if err != nil {
		return err
	}

	printResult(out, result)

	if db != nil {
		id, err := database.StoreComparison(db, result)
		if err != nil {
			return err
		}
		logging.DebugLog("Stored comparison %d in history", id)
	}
	return nil
}

func printResult(out io.Writer, result *types.ComparisonResult) {
	fmt.Fprintf(out, "[PIXEL]: the two images are %s different\n", utils.FormatPercent(result.Pixel.Score.Difference))
	fmt.Fprintf(out, "[PIXEL]: the two images are %s similar\n", utils.FormatPercent(result.Pixel.Score.Similarity))
	fmt.Fprintf(out, "Completed in %.4f seconds\n", result.PixelElapsed.Seconds())

	fmt.Fprintf(out, "[HASH]: the two images are %s different\n", utils.FormatPercent(result.Hash.Difference))
	fmt.Fprintf(out, "[HASH]: the two images are %s similar\n", utils.FormatPercent(result.Hash.Similarity))
	fmt.Fprintf(out, "Completed in %.4f seconds\n", result.HashElapsed.Seconds())
}

func printHistory(out io.Writer, db *sql.DB, limit int) error {
	records, err := database.RecentComparisons(db, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No comparisons recorded.")
		return nil
	}

	for i, rec := range records {
		fmt.Fprintf(out, "%d. %s vs %s\n", i+1, rec.SourceA, rec.SourceB)
		fmt.Fprintf(out, "   Pixel similarity: %s, hash similarity: %s (hash size %d)\n",
			utils.FormatPercent(rec.PixelSimilarity), utils.FormatPercent(rec.HashSimilarity), rec.HashSize)
		fmt.Fprintf(out, "   Recorded %s, took %d ms\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.ElapsedMillis)
	}

	stats, err := database.GetHistoryStats(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSummary:\n")
	fmt.Fprintf(out, "- Total comparisons: %d\n", stats.TotalComparisons)
	fmt.Fprintf(out, "- Pixel-identical runs: %d\n", stats.IdenticalPixelRuns)
	fmt.Fprintf(out, "- Average pixel similarity: %s\n", utils.FormatPercent(stats.AvgPixelSimilarity))
	fmt.Fprintf(out, "- Average hash similarity: %s\n", utils.FormatPercent(stats.AvgHashSimilarity))
	return nil
}
