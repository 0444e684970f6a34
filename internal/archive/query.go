package archive

import (
	"fmt"
	"strings"
)

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// BuildQuery returns the advanced search expression for an album:
//
//	title:("<album>") AND creator:("<artist>") AND format:("<format>")
func BuildQuery(artist, album, format string) string {
	return fmt.Sprintf(`title:("%s") AND creator:("%s") AND format:("%s")`,
		phraseEscaper.Replace(album),
		phraseEscaper.Replace(artist),
		phraseEscaper.Replace(format),
	)
}
