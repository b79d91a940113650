package config

import (
	"flag"
	"os"
	"time"

	"medai/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-m string   storage mode: "remote" or "local"
//	-a string   base URL of the identity/document backend
//	-p string   base URL of the prediction service
//	-f string   SQLite file path (local mode)
//	-t int      prediction timeout in seconds
//	-n int      history limit
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-m", "-a", "-p", "-f", "-t", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "storage mode: remote or local")
	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "identity/document backend base URL")
	fs.StringVar(&cfg.PredictionAddr, "p", cfg.PredictionAddr, "prediction service base URL")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "SQLite database path (local mode)")
	predictTimeout := fs.Int("t", int(cfg.PredictTimeout.Seconds()), "prediction timeout (in seconds)")
	fs.IntVar(&cfg.HistoryLimit, "n", cfg.HistoryLimit, "maximum retained history entries")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PredictTimeout = time.Duration(*predictTimeout) * time.Second
}
