package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Kinds of file validate understands.
const (
	kindAuto     = "auto"
	kindTimeline = "timeline"
	kindSequence = "sequence"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decodeFile reads path as YAML or JSON, chosen by extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// loadTimeline returns the builtin template called source, or the
// timeline stored in the file at source.
func loadTimeline(source string) (timeline.Timeline, error) {
	if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
		return timeline.Template(source)
	}

	var kfs []timeline.Keyframe
	if err := decodeFile(source, &kfs); err != nil {
		return timeline.Timeline{}, err
	}
	if err := timeline.ValidateKeyframes(kfs); err != nil {
		return timeline.Timeline{}, fmt.Errorf("%s: %w", source, err)
	}
	return timeline.New(kfs...), nil
}

// loadScript reads a script file. Malformed steps are kept; the
// orchestrator skips them.
func loadScript(path string) (sequence.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return sequence.ParseYAML(data)
	}
	return sequence.ParseJSON(data)
}

// detectKind guesses whether a file holds keyframes or script steps from
// its first record.
func detectKind(path string) (string, error) {
	var records []map[string]any
	if err := decodeFile(path, &records); err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%s: no records", path)
	}
	if _, ok := records[0]["type"]; ok {
		return kindSequence, nil
	}
	if _, ok := records[0]["time"]; ok {
		return kindTimeline, nil
	}
	return "", fmt.Errorf("%s: cannot tell a timeline from a sequence; pass --kind", path)
}

// validateFile checks one file and returns a problem per bad record.
func validateFile(path, kind string) ([]string, error) {
	if kind == kindAuto {
		var err error
		if kind, err = detectKind(path); err != nil {
			return nil, err
		}
	}

	switch kind {
	case kindTimeline:
		var kfs []timeline.Keyframe
		if err := decodeFile(path, &kfs); err != nil {
			return nil, err
		}
		if err := timeline.ValidateKeyframes(kfs); err != nil {
			return []string{err.Error()}, nil
		}
		return nil, nil

	case kindSequence:
		script, err := loadScript(path)
		if err != nil {
			return nil, err
		}
		var problems []string
		for i, step := range script {
			if err := step.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("step %d: %v", i, err))
			}
		}
		return problems, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
