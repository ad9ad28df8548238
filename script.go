package glimmer

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// Script sequences renderer commands and screenshots across frames for
// unattended capture runs. Actions are "skip", "pause", "screenshot"
// (with a label) and "wait" (with a frame count).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML or JSON script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("glimmer: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("glimmer: parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "skip", "pause", "screenshot", "wait":
		default:
			return nil, fmt.Errorf("glimmer: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has been executed.
func (s *Script) Done() bool {
	return s.done
}

// Step advances the script by one frame. It runs at most one action and
// calls shot for screenshot steps.
func (s *Script) Step(r *Renderer, shot func(label string)) {
	if s.done {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "skip":
		r.Skip()
	case "pause":
		r.TogglePause()
	case "screenshot":
		if shot != nil {
			shot(st.Label)
		}
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}
