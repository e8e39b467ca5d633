package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

var knownFlags = []string{"-a", "-d", "-i"}

// parseFlags overlays cfg with the flags it knows about.
//
//	-a string   backend base URL, including the /api prefix
//	-d string   data directory for the session and lock flag files
//	-i int      lock poll interval in seconds
//
// Unknown arguments are dropped before parsing so other components can
// define their own.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	interval := fs.Int("i", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")

	if err := fs.Parse(filterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", *interval)
	}

	cfg.PollInterval = time.Duration(*interval) * time.Second
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return nil
}

// filterArgs keeps only the allowed flags and their values, accepting both
// "-a value" and "-a=value".
func filterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}
