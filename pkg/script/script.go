// Package script converts caller-supplied action records and script files
// into validated domain Scripts.
package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse converts loosely-typed action records, as received from tool
// arguments (e.g. a decoded JSON array of {"action": ..., "text": ...}
// objects), into a validated Script.
func Parse(records any) (domain.Script, error) {
	var s domain.Script
	if err := mapstructure.Decode(records, &s); err != nil {
		return nil, fmt.Errorf("invalid action records: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// File is the on-disk form of a script: the command to drive plus its
// ordered actions. YAML is the default; .json files are also accepted.
type File struct {
	Command string        `yaml:"command" json:"command"`
	Actions domain.Script `yaml:"actions" json:"actions"`
}

// LoadFile reads and validates a script file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var f File
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse script file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse script file %s: %w", path, err)
		}
	}

	if f.Command == "" {
		return nil, fmt.Errorf("script file %s: command must not be empty", path)
	}
	if err := f.Actions.Validate(); err != nil {
		return nil, fmt.Errorf("script file %s: %w", path, err)
	}
	return &f, nil
}
