// Package model defines the core data structures used throughout
// the archive-downloader application.
//
// # Query
//
// Query describes one album search:
//
//	q := model.Query{Artist: "Death Grips", Album: "Exmilitary", Format: "MP3"}
//	q.ResultsLimit() // 5 unless Limit is set
//
// # Candidate
//
// Candidate is a catalog item that holds at least one file in the
// requested format:
//
//	c, err := model.NewCandidate(id, title, artist, "MP3", files)
//	fmt.Println(c.Dir("albums")) // "albums/<artist> - <safe title>"
//
// SafeTitle keeps only letters, digits, spaces, hyphens and underscores
// when turning a title into a folder name.
package model
