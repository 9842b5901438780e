package sequences

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectDeckDir is where a project keeps its own decks.
func ProjectDeckDir(projectDir string) string {
	if projectDir == "" {
		return ""
	}
	return filepath.Join(projectDir, ".wrapped", "decks")
}

// UserDeckDir is the per-user deck directory, or "" without a home.
func UserDeckDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "wrapped", "decks")
}

// SequenceSearchPaths returns deck search directories in precedence order.
func SequenceSearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if dir := ProjectDeckDir(projectDir); dir != "" {
		paths = append(paths, dir)
	}
	if dir := UserDeckDir(); dir != "" {
		paths = append(paths, dir)
	}
	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "wrapped", "decks"))
	return paths
}

// LoadSequencesFromSearchPaths loads decks from search paths with first-hit
// precedence; builtin decks fill in names not found on disk.
func LoadSequencesFromSearchPaths(projectDir string) ([]*Sequence, error) {
	resolved := make([]*Sequence, 0)
	seen := make(map[string]struct{})
	add := func(items []*Sequence) {
		for _, seq := range items {
			key := strings.ToLower(seq.Name)
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}
			resolved = append(resolved, seq)
		}
	}

	for _, path := range SequenceSearchPaths(projectDir) {
		items, err := LoadSequencesFromDir(path)
		if err != nil {
			return nil, err
		}
		add(items)
	}

	builtins, err := LoadBuiltinSequences()
	if err != nil {
		return nil, err
	}
	add(builtins)

	return resolved, nil
}

// ResolveSequence finds a deck by name, or loads it directly when ref
// points at a YAML file.
func ResolveSequence(projectDir, ref string) (*Sequence, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultSequenceName
	}

	ext := strings.ToLower(filepath.Ext(ref))
	if ext == ".yaml" || ext == ".yml" {
		return LoadSequence(ref)
	}

	items, err := LoadSequencesFromSearchPaths(projectDir)
	if err != nil {
		return nil, err
	}
	for _, seq := range items {
		if strings.EqualFold(seq.Name, ref) {
			return seq, nil
		}
	}
	return nil, fmt.Errorf("deck %q not found", ref)
}
