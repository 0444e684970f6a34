// Package config provides configuration management for archive-downloader.
//
// This package handles:
//   - Loading and saving settings from YAML files
//   - Default configuration values
//   - The ordered worklist of albums to fetch
//   - Conversion to option types used by other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads MP3 files into ./albums/<artist> - <title>
//	// Asks the archive for the 5 most downloaded matches
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	// A missing file gives the defaults
//
// # Example File
//
//	format: FLAC
//	downloads_path: /music/archive
//	results_limit: 10
//	request_timeout: 2m
//	create_playlist: true
//	albums:
//	  Death Grips:
//	    - Exmilitary
//	  Eminem:
//	    - The Marshall Mathers LP
//	    - The Eminem Show
package config
