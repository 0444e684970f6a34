// Package download provides the download orchestration logic for
// fetching albums from the Internet Archive.
//
// # Manager
//
// The Manager works through a worklist one album at a time:
//
//  1. Search the archive for the album in the configured format
//  2. Drop hits that have no files in that format
//  3. Ask the selector which candidate to take, if any
//  4. Download the candidate's files, skipping those already on disk
//  5. Save cover art, tag MP3 files and write a playlist (optional)
//
// # Basic Usage
//
//	selector := selection.NewPrompt(os.Stdin, os.Stdout)
//	manager := download.NewManager(settings, selector, slog.Default(), func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := manager.Run(ctx, settings.Albums)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d downloaded, %d failed\n", summary.Downloaded, summary.Failed)
//
// # Failures
//
// A failed transfer aborts the current album and leaves the files written so
// far in place; the next run skips them. Problems with cover art, tags or
// playlists are reported as warnings only.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte level progress of each file is available through Manager.OnTransfer.
package download
