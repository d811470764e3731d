package parser

import (
	"bytes"
	"fmt"
	"os"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/pkg/decomposer"

	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML layout of a decomposition rule set.
//
//	stages:
//	  - rules:
//	      - field: Sender Name
//	        markers: ["B/O:"]
//	        terminator: comma
type RuleFile struct {
	Stages []RuleFileStage `yaml:"stages"`
}

// RuleFileStage is one stage of a rule file.
type RuleFileStage struct {
	Rules []RuleFileEntry `yaml:"rules"`
}

// RuleFileEntry is one rule of a rule file.
type RuleFileEntry struct {
	Field        string   `yaml:"field"`
	Source       string   `yaml:"source,omitempty"`
	Markers      []string `yaml:"markers,omitempty"`
	Terminator   string   `yaml:"terminator,omitempty"`
	Capture      string   `yaml:"capture,omitempty"`
	Intermediate bool     `yaml:"intermediate,omitempty"`
}

// RulesLoader loads decomposition rule sets from YAML files.
type RulesLoader struct {
	logger logging.Logger
}

// NewRulesLoader creates a new instance of RulesLoader.
func NewRulesLoader(logger logging.Logger) *RulesLoader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RulesLoader{
		logger: logger.WithField("component", "RulesLoader"),
	}
}

// LoadFile reads a rule file and builds a decomposer from it.
func (l *RulesLoader) LoadFile(filePath string) (*decomposer.Decomposer, error) {
	l.logger.WithField(logging.FieldFile, filePath).Debug("Loading rules file")

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filePath, err)
	}

	d, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file %s: %w", filePath, err)
	}

	l.logger.Info("Loaded decomposition rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(d.OutputFields())})
	return d, nil
}

// Load parses YAML rule data and builds a decomposer from it.
func (l *RulesLoader) Load(data []byte) (*decomposer.Decomposer, error) {
	var file RuleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if len(file.Stages) == 0 {
		return nil, fmt.Errorf("rule file defines no stages")
	}

	stages := make([]decomposer.Stage, 0, len(file.Stages))
	for i, fs := range file.Stages {
		stage := make(decomposer.Stage, 0, len(fs.Rules))
		for j, entry := range fs.Rules {
			rule, err := entry.toRule()
			if err != nil {
				return nil, fmt.Errorf("stage %d rule %d: %w", i+1, j+1, err)
			}
			stage = append(stage, rule)
		}
		stages = append(stages, stage)
	}

	return decomposer.New(stages...)
}

func (e RuleFileEntry) toRule() (decomposer.Rule, error) {
	terminator, err := decomposer.ParseTerminator(e.Terminator)
	if err != nil {
		return decomposer.Rule{}, err
	}
	capture, err := decomposer.ParseCapture(e.Capture)
	if err != nil {
		return decomposer.Rule{}, err
	}
	return decomposer.Rule{
		Field:        decomposer.FieldName(e.Field),
		Source:       decomposer.FieldName(e.Source),
		Markers:      e.Markers,
		Terminator:   terminator,
		Capture:      capture,
		Intermediate: e.Intermediate,
	}, nil
}

// NewRuleFile renders stages in the rule file layout.
func NewRuleFile(stages []decomposer.Stage) RuleFile {
	file := RuleFile{Stages: make([]RuleFileStage, 0, len(stages))}
	for _, stage := range stages {
		fs := RuleFileStage{Rules: make([]RuleFileEntry, 0, len(stage))}
		for _, rule := range stage {
			entry := RuleFileEntry{
				Field:        string(rule.Field),
				Source:       string(rule.Source),
				Markers:      rule.Markers,
				Terminator:   rule.Terminator.Name(),
				Intermediate: rule.Intermediate,
			}
			if rule.Capture != decomposer.AfterMarker {
				entry.Capture = rule.Capture.Name()
			}
			fs.Rules = append(fs.Rules, entry)
		}
		file.Stages = append(file.Stages, fs)
	}
	return file
}
