package main

import (
	"flag"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"
)

type cliOptions struct {
	configDir    string
	metadataPath string
	feedPath     string
	showVersion  bool
}

func parseFlags(args []string) cliOptions {
	fs := flag.NewFlagSet("matchcast", flag.ExitOnError)

	var opts cliOptions
	fs.StringVar(&opts.configDir, "config", ".", "directory containing matchcast.cfg.json")
	fs.StringVar(&opts.metadataPath, "metadata", "", "match metadata JSON file (overrides config)")
	fs.StringVar(&opts.feedPath, "feed", "", `frame stream file, "-" for stdin (overrides config)`)
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	// ExitOnError: Parse never returns a non-nil error to us.
	_ = fs.Parse(args)
	return opts
}
