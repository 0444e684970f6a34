package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/handiism/archive-downloader/internal/config"
	"github.com/handiism/archive-downloader/internal/tui"
)

func main() {
	var (
		configFlag  = flag.String("config", "config.yaml", "Path to config file")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		formatFlag  = flag.String("format", "", "Audio format to look for (overrides config)")
		logFlag     = flag.String("log", "", "Write diagnostic logs to this file")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *formatFlag != "" {
		settings.Format = *formatFlag
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}
	if len(settings.Albums) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no albums listed in %s\n", *configFlag)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logLevel := slog.LevelInfo
	if *verboseFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))

	summary, err := tui.Run(context.Background(), settings, logger, *verboseFlag)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, tui.ErrAborted) {
			fmt.Println("Download cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d downloaded, %d failed, %d skipped, %d not found\n",
		summary.Downloaded, summary.Failed, summary.Skipped, summary.NoCandidates)
}
