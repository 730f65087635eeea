package config

import (
	"flag"
	"os"
	"time"

	"github.com/timfmjones/dreamjournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the dream journal API")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "path to the local sqlite cache")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "path to a stored ID token")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "remote listing page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
