package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one album to search for.
type Entry struct {
	Artist string `yaml:"artist"`
	Album  string `yaml:"album"`
}

// Worklist is the ordered list of albums processed in one run.
//
// In YAML it is written as a mapping from artist to album titles, which keeps
// the order of the file:
//
//	albums:
//	  Death Grips:
//	    - Exmilitary
//	    - The Money Store
//	  Eminem: [The Eminem Show]
//
// A plain list of {artist, album} pairs is accepted as well.
type Worklist []Entry

// Add appends one entry per album for artist.
func (w *Worklist) Add(artist string, albums ...string) {
	for _, album := range albums {
		*w = append(*w, Entry{Artist: artist, Album: album})
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *Worklist) UnmarshalYAML(node *yaml.Node) error {
	var list Worklist

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]

			var artist string
			if err := keyNode.Decode(&artist); err != nil {
				return err
			}

			var albums []string
			switch valueNode.Kind {
			case yaml.ScalarNode:
				var album string
				if err := valueNode.Decode(&album); err != nil {
					return err
				}
				albums = []string{album}
			case yaml.SequenceNode:
				if err := valueNode.Decode(&albums); err != nil {
					return err
				}
			default:
				return fmt.Errorf("line %d: albums of %q must be a title or a list of titles", valueNode.Line, artist)
			}
			list.Add(artist, albums...)
		}

	case yaml.SequenceNode:
		var entries []Entry
		if err := node.Decode(&entries); err != nil {
			return err
		}
		list = append(list, entries...)

	default:
		return fmt.Errorf("line %d: albums must be a mapping of artist to titles or a list", node.Line)
	}

	for _, e := range list {
		if e.Artist == "" || e.Album == "" {
			return fmt.Errorf("line %d: worklist entry needs both artist and album, got %+v", node.Line, e)
		}
	}

	*w = list
	return nil
}

// MarshalYAML implements yaml.Marshaler. It writes the mapping form unless an
// artist's albums are split by another artist, in which case only the list
// form keeps the order.
func (w Worklist) MarshalYAML() (interface{}, error) {
	if !w.grouped() {
		return []Entry(w), nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode}

	var albums *yaml.Node
	last := ""
	for i, e := range w {
		if i == 0 || e.Artist != last {
			albums = &yaml.Node{Kind: yaml.SequenceNode}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: e.Artist},
				albums,
			)
			last = e.Artist
		}
		albums.Content = append(albums.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Album})
	}

	return node, nil
}

// grouped reports whether all entries of each artist are adjacent.
func (w Worklist) grouped() bool {
	seen := map[string]bool{}
	for i, e := range w {
		if i > 0 && w[i-1].Artist == e.Artist {
			continue
		}
		if seen[e.Artist] {
			return false
		}
		seen[e.Artist] = true
	}
	return true
}
