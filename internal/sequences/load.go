package sequences

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// LoadSequence reads a single deck from disk.
func LoadSequence(path string) (*Sequence, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sequence path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sequence %s: %w", path, err)
	}

	seq, err := parseSequence(data)
	if err != nil {
		return nil, fmt.Errorf("parse sequence %s: %w", path, err)
	}
	seq.Source = path
	return seq, nil
}

// LoadSequencesFromDir loads all decks from a directory.
func LoadSequencesFromDir(dir string) ([]*Sequence, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Sequence{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Sequence{}, nil
		}
		return nil, fmt.Errorf("read sequences dir %s: %w", dir, err)
	}

	sequences := make([]*Sequence, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, name)
		seq, err := LoadSequence(path)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}

	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].Name < sequences[j].Name
	})

	return sequences, nil
}

func parseSequence(data []byte) (*Sequence, error) {
	var seq Sequence
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	seq.Name = strings.TrimSpace(seq.Name)
	if seq.Name == "" {
		return nil, fmt.Errorf("sequence name is required")
	}
	seq.Description = strings.TrimSpace(seq.Description)

	if len(seq.Steps) == 0 {
		return nil, fmt.Errorf("sequence steps are required")
	}

	seen := make(map[string]struct{})
	for i := range seq.Variables {
		name := strings.TrimSpace(seq.Variables[i].Name)
		if name == "" {
			return nil, fmt.Errorf("sequence variable name is required")
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate sequence variable %q", name)
		}
		seen[name] = struct{}{}
		seq.Variables[i].Name = name
	}

	ids := make(map[string]struct{}, len(seq.Steps))
	for i := range seq.Steps {
		if err := normalizeStep(&seq.Steps[i], i); err != nil {
			return nil, fmt.Errorf("sequence step %d: %w", i+1, err)
		}
		id := seq.Steps[i].ID
		if _, exists := ids[id]; exists {
			return nil, fmt.Errorf("duplicate step id %q", id)
		}
		ids[id] = struct{}{}
	}

	for _, step := range seq.Steps {
		if err := checkTarget(ids, step.Next); err != nil {
			return nil, fmt.Errorf("step %q next: %w", step.ID, err)
		}
		for result, target := range step.Branches {
			if err := checkTarget(ids, target); err != nil {
				return nil, fmt.Errorf("step %q branch %q: %w", step.ID, result, err)
			}
		}
	}

	return &seq, nil
}

func normalizeStep(step *SequenceStep, index int) error {
	stepType := strings.ToLower(strings.TrimSpace(string(step.Type)))
	step.Type = StepType(stepType)

	step.ID = strings.TrimSpace(step.ID)
	if step.ID == "" {
		step.ID = fmt.Sprintf("step-%d", index+1)
	}
	if step.ID == sequencer.EndStepID {
		return fmt.Errorf("step id %q is reserved", sequencer.EndStepID)
	}

	step.Text = strings.TrimSpace(step.Text)
	step.Message = strings.TrimSpace(step.Message)
	step.View = strings.ToLower(strings.TrimSpace(step.View))
	step.Advance = strings.ToLower(strings.TrimSpace(step.Advance))
	step.After = strings.TrimSpace(step.After)
	step.Next = strings.TrimSpace(step.Next)

	if step.Text == "" && step.Message != "" {
		step.Text = step.Message
	}
	if step.Text != "" && step.Message != "" && step.Text != step.Message {
		return fmt.Errorf("text and message disagree")
	}

	switch step.Type {
	case StepTypeMessage:
		if step.Text == "" {
			return fmt.Errorf("message text is required")
		}
		if step.Advance == "" {
			step.Advance = "auto"
		}

	case StepTypeView:
		if step.View == "" {
			return fmt.Errorf("view name is required")
		}
		if step.Advance == "" {
			step.Advance = "signal"
		}

	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}

	mode, err := sequencer.ParseAdvanceMode(step.Advance)
	if err != nil {
		return err
	}
	if mode == sequencer.AdvanceOnSignal && step.Type == StepTypeMessage {
		return fmt.Errorf("message steps cannot wait for a view signal")
	}
	if mode == sequencer.AdvanceAuto {
		if step.After == "" {
			return fmt.Errorf("auto advance duration is required")
		}
		duration, err := time.ParseDuration(step.After)
		if err != nil {
			return fmt.Errorf("invalid advance duration: %w", err)
		}
		if duration <= 0 {
			return fmt.Errorf("advance duration must be greater than 0")
		}
	}
	if len(step.Branches) > 0 && mode != sequencer.AdvanceOnSignal {
		return fmt.Errorf("branches require signal advance")
	}

	return nil
}

func checkTarget(ids map[string]struct{}, target string) error {
	if target == "" || target == sequencer.EndStepID {
		return nil
	}
	if _, ok := ids[target]; !ok {
		return fmt.Errorf("unknown step %q", target)
	}
	return nil
}
