// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Existence checks for files that are already downloaded
//   - File writing and directory creation
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	// Skip files that are already on disk
//	exists, err := ioutils.FileExists("/albums/Artist - Album/01.mp3")
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/albums/Artist - Album")
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize to fit within 1000x1000 and re-encode as JPEG
//	cover, _ := svc.Prepare(ctx, imageData, ioutils.CoverOptions{Resize: true, MaxSize: 1000})
package ioutils
