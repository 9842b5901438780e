package sequences

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// DefaultSequenceName is the deck played when none is named.
const DefaultSequenceName = "wrapped-2024"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltinSequences returns the decks bundled with the binary.
func LoadBuiltinSequences() ([]*Sequence, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin decks: %w", err)
	}

	sequences := make([]*Sequence, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin deck %s: %w", entry.Name(), err)
		}
		seq, err := parseSequence(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin deck %s: %w", entry.Name(), err)
		}
		seq.Source = SourceBuiltin
		sequences = append(sequences, seq)
	}

	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].Name < sequences[j].Name
	})

	return sequences, nil
}

// SourceBuiltin marks decks that came from the embedded set.
const SourceBuiltin = "builtin"
