package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retrowrapped/wrapped/internal/sequences"
)

var (
	decksTags    []string
	decksNewUser bool
	decksForce   bool
)

func init() {
	rootCmd.AddCommand(decksCmd)
	decksCmd.AddCommand(decksListCmd)
	decksCmd.AddCommand(decksShowCmd)
	decksCmd.AddCommand(decksNewCmd)

	decksListCmd.Flags().StringSliceVar(&decksTags, "tag", nil, "only decks carrying one of these tags")
	decksNewCmd.Flags().BoolVar(&decksNewUser, "user", false, "create in ~/.config/wrapped/decks instead of the project")
	decksNewCmd.Flags().BoolVar(&decksForce, "force", false, "overwrite an existing deck file")
}

var decksCmd = &cobra.Command{
	Use:     "decks",
	Aliases: []string{"deck"},
	Short:   "List and inspect slideshow decks",
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project := resolveProjectDir()
		items, err := sequences.LoadSequencesFromSearchPaths(project)
		if err != nil {
			return err
		}
		items = filterSequences(items, decksTags)

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No decks found.")
			return nil
		}

		userDir := sequences.UserDeckDir()
		projectDecks := sequences.ProjectDeckDir(project)
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				item.Name,
				sequenceSourceLabel(item.Source, userDir, projectDecks),
				strconv.Itoa(len(item.Steps)),
				strings.Join(item.Tags, ","),
				item.Description,
			})
		}
		return writeTable(out, []string{"NAME", "SOURCE", "STEPS", "TAGS", "DESCRIPTION"}, rows,
			alignLeft, alignLeft, alignRight)
	},
}

var decksShowCmd = &cobra.Command{
	Use:   "show <deck>",
	Short: "Show a deck's variables and steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := sequences.ResolveSequence(resolveProjectDir(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, seq)
		}

		fmt.Fprintf(out, "Deck:   %s\n", seq.Name)
		fmt.Fprintf(out, "Source: %s\n", seq.Source)
		if seq.Description != "" {
			fmt.Fprintf(out, "About:  %s\n", seq.Description)
		}
		if len(seq.Tags) > 0 {
			fmt.Fprintf(out, "Tags:   %s\n", strings.Join(seq.Tags, ", "))
		}

		if len(seq.Variables) > 0 {
			fmt.Fprintln(out)
			rows := make([][]string, 0, len(seq.Variables))
			for _, v := range seq.Variables {
				rows = append(rows, []string{v.Name, v.Default, formatYesNo(v.Required), v.Description})
			}
			if err := writeTable(out, []string{"VARIABLE", "DEFAULT", "REQUIRED", "DESCRIPTION"}, rows); err != nil {
				return err
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Steps:")
		for i, step := range seq.Steps {
			fmt.Fprintf(out, "  %2d. %s\n", i+1, formatSequenceStep(step))
		}
		return nil
	},
}

var decksNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := normalizeSequenceName(args[0])
		if err != nil {
			return err
		}

		dir := sequences.ProjectDeckDir(resolveProjectDir())
		if decksNewUser {
			dir = sequences.UserDeckDir()
		}
		if dir == "" {
			return fmt.Errorf("no deck directory available")
		}

		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); err == nil && !decksForce {
			return &PreflightError{
				Message:  fmt.Sprintf("deck file %s already exists", path),
				Hint:     "Pick another name or pass --force to overwrite it",
				NextStep: "wrapped decks show " + name,
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create deck dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(deckTemplate(name)), 0o644); err != nil {
			return fmt.Errorf("write deck: %w", err)
		}
		if _, err := sequences.LoadSequence(path); err != nil {
			return fmt.Errorf("scaffolded deck does not load: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s\n", path)
		if items, err := sequences.LoadBuiltinSequences(); err == nil {
			if builtin := findSequenceByName(items, name); builtin != nil {
				fmt.Fprintf(out, "Note: it shadows the builtin deck %q.\n", builtin.Name)
			}
		}
		return nil
	},
}

func deckTemplate(name string) string {
	return `name: ` + name + `
description: My year in music
tags: [custom]
variables:
  - name: brand
    default: MY
steps:
  - id: welcome
    type: message
    text: "WELCOME TO {{.brand}} WRAPPED!"
    after: 1500ms
    skippable: true
  - id: quiz
    type: view
    view: quiz
    params:
      question: WHO DID YOU PLAY MOST?
      choices: ARTIST ONE|ARTIST TWO|ARTIST THREE
      answer: ARTIST ONE
    branches:
      correct: right
    next: wrong
  - id: right
    type: message
    text: YOU KNOW YOURSELF!
    advance: input
    next: end
  - id: wrong
    type: message
    text: IT WAS ARTIST ONE!
    advance: input
`
}

func filterSequences(items []*sequences.Sequence, tags []string) []*sequences.Sequence {
	if len(tags) == 0 {
		return items
	}
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	filtered := make([]*sequences.Sequence, 0, len(items))
	for _, item := range items {
		for _, tag := range item.Tags {
			if _, ok := wanted[strings.ToLower(tag)]; ok {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

func findSequenceByName(items []*sequences.Sequence, name string) *sequences.Sequence {
	for _, item := range items {
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return item
		}
	}
	return nil
}

// parseSequenceVars parses repeated or comma separated key=value pairs.
func parseSequenceVars(values []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, value := range values {
		for _, pair := range strings.Split(value, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, val, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid variable %q (want key=value)", pair)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("invalid variable %q: empty key", pair)
			}
			vars[key] = strings.TrimSpace(val)
		}
	}
	return vars, nil
}

func normalizeSequenceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("deck name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid deck name %q", name)
	}
	return strings.ToLower(name), nil
}

func sequenceSourceLabel(source, userDir, projectDir string) string {
	switch {
	case source == sequences.SourceBuiltin:
		return "builtin"
	case projectDir != "" && isWithin(source, projectDir):
		return "project"
	case userDir != "" && isWithin(source, userDir):
		return "user"
	default:
		return "file"
	}
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func formatSequenceStepShort(step sequences.SequenceStep) string {
	if step.Type == sequences.StepTypeView {
		return "view:" + step.View
	}
	return string(step.Type) + ":" + step.Advance
}

func formatSequenceStep(step sequences.SequenceStep) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", formatSequenceStepShort(step), step.ID)
	if step.Type == sequences.StepTypeMessage {
		fmt.Fprintf(&b, " %q", truncate(oneLine(step.Text), 40))
	}

	var flow []string
	if step.Type == sequences.StepTypeView && step.Advance != "" {
		flow = append(flow, step.Advance)
	}
	if step.Advance == "auto" && step.After != "" {
		flow = append(flow, "after "+step.After)
	}
	if step.Skip {
		flow = append(flow, "skippable")
	}
	results := make([]string, 0, len(step.Branches))
	for result := range step.Branches {
		results = append(results, result)
	}
	sort.Strings(results)
	for _, result := range results {
		flow = append(flow, result+" -> "+step.Branches[result])
	}
	if step.Next != "" {
		flow = append(flow, "next "+step.Next)
	}
	if len(flow) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(flow, ", "))
	}
	return b.String()
}

func oneLine(text string) string {
	text = strings.ReplaceAll(text, `\n`, " / ")
	return strings.ReplaceAll(text, "\n", " / ")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
