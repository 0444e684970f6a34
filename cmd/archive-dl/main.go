package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/handiism/archive-downloader/internal/config"
	"github.com/handiism/archive-downloader/internal/download"
	"github.com/handiism/archive-downloader/internal/model"
	"github.com/handiism/archive-downloader/internal/selection"
)

func main() {
	// Command line flags
	var (
		configFlag   = flag.String("config", "config.yaml", "Path to config file")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		formatFlag   = flag.String("format", "", "Audio format to look for, e.g. MP3 or FLAC (overrides config)")
		limitFlag    = flag.Int("limit", 0, "Number of search results to inspect (overrides config)")
		artistFlag   = flag.String("artist", "", "Artist to search for, instead of the config worklist")
		albumFlag    = flag.String("album", "", "Album to search for, used with -artist")
		autoFlag     = flag.Int("auto", -1, "Pick option N without asking, 0 skips every album")
		playlistFlag = flag.Bool("playlist", false, "Create playlist file")
		dryRunFlag   = flag.Bool("dry-run", false, "Search and list options without downloading")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	logLevel := slog.LevelInfo
	if *verboseFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *formatFlag != "" {
		settings.Format = *formatFlag
	}
	if *limitFlag > 0 {
		settings.ResultsLimit = *limitFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}

	worklist := settings.Albums
	if *artistFlag != "" || *albumFlag != "" {
		if *artistFlag == "" || *albumFlag == "" {
			fmt.Fprintln(os.Stderr, "Error: -artist and -album must be given together")
			os.Exit(1)
		}
		worklist = nil
		worklist.Add(*artistFlag, *albumFlag)
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	if len(worklist) == 0 {
		fmt.Println("Internet Archive Downloader - Download albums from archive.org")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  archive-dl -config config.yaml")
		fmt.Println("  archive-dl -artist <artist> -album <album> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: archive-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
		// A second interrupt terminates the process.
		signal.Stop(sigCh)
	}()

	var selector selection.Selector = selection.NewPrompt(os.Stdin, os.Stdout)
	switch {
	case *dryRunFlag:
		selector = listOnly{}
	case *autoFlag >= 0:
		selector = selection.Auto{Index: *autoFlag}
	}

	manager := download.NewManager(settings, selector, logger, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	})
	manager.OnTransfer(newFileBar)

	fmt.Println("♫ Internet Archive Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	summary, err := manager.Run(ctx, worklist)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! %d searched, %d downloaded, %d failed, %d skipped, %d not found\n",
		summary.Searched, summary.Downloaded, summary.Failed, summary.Skipped, summary.NoCandidates)
}

// listOnly prints the options and skips, for -dry-run.
type listOnly struct{}

func (listOnly) Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error) {
	fmt.Printf("Options found for '%s':\n", label)
	for i, c := range candidates {
		fmt.Printf("[%d] %s [%s]\n", i+1, selection.OptionLabel(c), c.Identifier)
	}
	return selection.Skip{}.Select(ctx, candidates, label)
}

// newFileBar draws a byte progress bar for one transfer. Files of unknown
// size get a spinner until the response announces a length.
func newFileBar(file model.RemoteFile) func(written, total int64) {
	size := file.Size
	if size <= 0 {
		size = -1
	}

	bar := progressbar.NewOptions64(
		size,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetDescription("[cyan]"+file.BaseName()+"[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	return func(written, total int64) {
		if size <= 0 && total > 0 {
			size = total
			bar.ChangeMax64(total)
		}
		_ = bar.Set64(written)
		if total > 0 && written >= total {
			_ = bar.Finish()
		}
	}
}
