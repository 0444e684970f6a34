package ioutils

import (
	"errors"
	"io/fs"
	"os"
)

// FileExists reports whether path exists. Any error other than "does not
// exist" is returned so callers do not mistake an unreadable file for a
// missing one.
//
// Example:
//
//	ok, err := FileExists("/albums/Artist - Album/01.mp3")
//	if ok {
//	    // already downloaded
//	}
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFile("/albums/Artist - Album/Album.m3u", playlistContent)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/albums/Artist - Album")
//	// Creates /albums and /albums/Artist - Album if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
