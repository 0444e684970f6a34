// Package archive finds album candidates in the Internet Archive.
//
// The package has two parts:
//
//   - Client, a thin adapter over the archive's advanced search, item
//     metadata and download endpoints.
//   - Resolver, which turns an artist/album/format query into an ordered
//     list of download candidates.
//
// # Resolving Albums
//
//	client := archive.NewClient(http.NewClient(), archive.DefaultBaseURL)
//	resolver := archive.NewResolver(client, slog.Default())
//
//	res := resolver.Resolve(ctx, model.Query{
//	    Artist: "Death Grips",
//	    Album:  "Exmilitary",
//	    Format: "MP3",
//	})
//
// The search asks for the most downloaded items first and the resolver keeps
// that order. A hit only becomes a candidate when its file listing has at
// least one file ending in ".mp3" (for format "MP3"), compared
// case-insensitively.
//
// # Failures
//
// Resolve never returns an error. A failed search gives
// StatusCatalogUnavailable, a hit whose metadata or listing cannot be read is
// recorded in Resolution.Outcomes with its DropReason and skipped. In both
// cases the candidate list simply lacks the affected entries.
package archive
