package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// Config holds the command-line configuration
type Config struct {
	ImageA       string
	ImageB       string
	HashSize     int
	DatabasePath string
	History      int
	DebugMode    bool
	LogPath      string
	ShowHelp     bool
}

// ErrUsage marks argument errors that should print usage and exit 2
type ErrUsage struct {
	Msg string
}

func (e *ErrUsage) Error() string {
	return e.Msg
}

func newFlagSet(name string, cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.IntVar(&cfg.HashSize, "hash-size", 8, "difference hash grid size, at least 1 (hash_size^2 must be a multiple of 8)")
	fs.StringVar(&cfg.DatabasePath, "database", "", "record the comparison in this SQLite history database")
	fs.IntVar(&cfg.History, "history", 0, "print the last N recorded comparisons and exit (needs --database)")
	fs.BoolVar(&cfg.DebugMode, "debug", false, "enable debug logging")
	fs.StringVar(&cfg.LogPath, "logfile", "imagediff.log", "debug log file path")
	fs.BoolVarP(&cfg.ShowHelp, "help", "h", false, "show usage")
	return fs
}

// ParseArguments parses args (without the program name) into a Config
func ParseArguments(name string, args []string) (*Config, error) {
	cfg := &Config{}
	fs := newFlagSet(name, cfg)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, &ErrUsage{Msg: err.Error()}
	}

	if cfg.ShowHelp {
		return cfg, nil
	}

	if cfg.HashSize < 1 {
		return nil, &ErrUsage{Msg: fmt.Sprintf("--hash-size must be at least 1, got %d", cfg.HashSize)}
	}

	if cfg.History > 0 {
		if cfg.DatabasePath == "" {
			return nil, &ErrUsage{Msg: "--history requires --database"}
		}
		return cfg, nil
	}

	if fs.NArg() != 2 {
		return nil, &ErrUsage{Msg: fmt.Sprintf("expected two image paths, got %d", fs.NArg())}
	}
	cfg.ImageA = fs.Arg(0)
	cfg.ImageB = fs.Arg(1)

	return cfg, nil
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage(w io.Writer, name string) {
	fs := newFlagSet(name, &Config{})
	fs.SetOutput(w)

	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s [flags] IMAGE1 IMAGE2\n", name)
	fmt.Fprintf(w, "  %s --database=PATH --history=N\n", name)
	fmt.Fprintf(w, "\nFlags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s before.png after.png\n", name)
	fmt.Fprintf(w, "  %s --database=%s --debug a.jpg b.jpg\n", name, GetDefaultDatabasePath())
}

// GetDefaultDatabasePath returns a history database path next to the executable
func GetDefaultDatabasePath() string {
	exePath, err := os.Executable()
	if err != nil {
		return "imagediff.db"
	}
	return filepath.Join(filepath.Dir(exePath), "imagediff.db")
}

// FormatPercent renders a ratio as a percentage with two decimals, 0.125 -> "12.50%"
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
