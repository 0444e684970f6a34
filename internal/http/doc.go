// Package http provides the HTTP client used to talk to the archive.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Optional timeouts (none by default)
//   - Streaming file downloads with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch a JSON document
//	body, err := client.Get(ctx, "https://archive.org/metadata/exmilitary/files")
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// Downloads are written to "<dest>.part" first and renamed when complete.
//
// Responses other than 200 OK are reported as *StatusError.
package http
