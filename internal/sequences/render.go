package sequences

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// RenderSequence renders a deck into a sequencer script with variables applied.
func RenderSequence(seq *Sequence, vars map[string]string) (sequencer.Script, error) {
	if seq == nil {
		return sequencer.Script{}, fmt.Errorf("sequence is required")
	}

	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}

	for _, variable := range seq.Variables {
		value := strings.TrimSpace(data[variable.Name])
		if value == "" {
			if variable.Default != "" {
				data[variable.Name] = variable.Default
				continue
			}
			if variable.Required {
				return sequencer.Script{}, fmt.Errorf("missing required variable %q", variable.Name)
			}
		}
	}

	script := sequencer.Script{
		Name:  seq.Name,
		Steps: make([]sequencer.Step, 0, len(seq.Steps)),
	}
	for i, step := range seq.Steps {
		rendered, err := renderStep(seq.Name, step, data)
		if err != nil {
			return sequencer.Script{}, fmt.Errorf("render sequence %q step %d: %w", seq.Name, i+1, err)
		}
		script.Steps = append(script.Steps, rendered)
	}

	if err := script.Validate(); err != nil {
		return sequencer.Script{}, fmt.Errorf("render sequence %q: %w", seq.Name, err)
	}
	return script, nil
}

func renderStep(name string, step SequenceStep, data map[string]string) (sequencer.Step, error) {
	mode, err := sequencer.ParseAdvanceMode(step.Advance)
	if err != nil {
		return sequencer.Step{}, err
	}
	policy := sequencer.AdvancePolicy{Mode: mode, Skippable: step.Skip}
	if mode == sequencer.AdvanceAuto {
		duration, err := time.ParseDuration(step.After)
		if err != nil {
			return sequencer.Step{}, fmt.Errorf("invalid advance duration: %w", err)
		}
		policy.After = duration
	}

	out := sequencer.Step{
		ID:      step.ID,
		Advance: policy,
		Next:    step.Next,
	}
	if len(step.Branches) > 0 {
		out.Branches = make(map[string]string, len(step.Branches))
		for result, target := range step.Branches {
			out.Branches[strings.TrimSpace(result)] = strings.TrimSpace(target)
		}
	}

	switch step.Type {
	case StepTypeMessage:
		text, err := renderText(name, step.Text, data)
		if err != nil {
			return sequencer.Step{}, err
		}
		out.Kind = sequencer.StepMessage
		out.Text = unescapeNewlines(text)

	case StepTypeView:
		out.Kind = sequencer.StepView
		out.View = sequencer.ViewRef{Name: step.View}
		if len(step.Params) > 0 {
			out.View.Params = make(map[string]string, len(step.Params))
			for key, value := range step.Params {
				rendered, err := renderText(name, value, data)
				if err != nil {
					return sequencer.Step{}, fmt.Errorf("param %q: %w", key, err)
				}
				out.View.Params[key] = rendered
			}
		}

	default:
		return sequencer.Step{}, fmt.Errorf("unknown step type %q", step.Type)
	}

	return out, nil
}

func renderText(name, content string, data map[string]string) (string, error) {
	parsed, err := template.New(name).
		Funcs(template.FuncMap{"default": defaultValue}).
		Option("missingkey=zero").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}

	return out.String(), nil
}

func defaultValue(def string, value any) string {
	if value == nil {
		return def
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	default:
		text := strings.TrimSpace(fmt.Sprint(v))
		if text == "" {
			return def
		}
		return text
	}
}

// unescapeNewlines lets single-line YAML strings carry a literal "\n".
func unescapeNewlines(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}
