package domain

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Params is one parameter tuple of a scenario. Credentials are opaque strings.
type Params struct {
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"-"`
	FirstName     string `yaml:"first_name,omitempty" json:"first_name,omitempty"`
	LastName      string `yaml:"last_name,omitempty" json:"last_name,omitempty"`
	Zip           string `yaml:"zip,omitempty" json:"zip,omitempty"`
	ExpectedError string `yaml:"expected_error,omitempty" json:"expected_error,omitempty"`
}

// Merge returns p with every empty field filled from defaults. Keys present in
// explicit were set by the row itself and stay as given, even when empty.
func (p Params) Merge(defaults Params, explicit map[string]bool) Params {
	fill := func(dst *string, src string, key string) {
		if *dst == "" && !explicit[key] {
			*dst = src
		}
	}
	fill(&p.Username, defaults.Username, "username")
	fill(&p.Password, defaults.Password, "password")
	fill(&p.FirstName, defaults.FirstName, "first_name")
	fill(&p.LastName, defaults.LastName, "last_name")
	fill(&p.Zip, defaults.Zip, "zip")
	fill(&p.ExpectedError, defaults.ExpectedError, "expected_error")
	return p
}

// Step is a single operation of a scenario walk.
type Step struct {
	Op    string `yaml:"op" json:"op"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
	// HasValue distinguishes an explicit empty value from an absent one.
	HasValue bool `yaml:"-" json:"-"`
}

// UnmarshalYAML accepts either "login" or {op: expect_badge, value: "1"}.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Op = strings.TrimSpace(node.Value)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Op    string  `yaml:"op"`
			Value *string `yaml:"value"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		s.Op = strings.TrimSpace(raw.Op)
		if raw.Value != nil {
			s.Value = *raw.Value
			s.HasValue = true
		}
		return nil
	default:
		return fmt.Errorf("line %d: step must be a string or a mapping", node.Line)
	}
}

func (s Step) String() string {
	if s.HasValue {
		return fmt.Sprintf("%s=%q", s.Op, s.Value)
	}
	return s.Op
}

// S builds a step without a value.
func S(op string) Step { return Step{Op: op} }

// SV builds a step with an explicit value.
func SV(op, value string) Step { return Step{Op: op, Value: value, HasValue: true} }

// Scenario is one fully expanded, runnable scenario.
type Scenario struct {
	ID     string
	Name   string
	Kind   string
	Params Params
	Steps  []Step
	Source string
}

// ScenarioGroup is one scenario entry of a document before row expansion.
type ScenarioGroup struct {
	Name  string      `yaml:"name"`
	Kind  string      `yaml:"kind"`
	Steps []Step      `yaml:"steps"`
	Rows  []yaml.Node `yaml:"rows"`
	Line  int         `yaml:"-"`
}

// ScenarioDocument holds the result of parsing a single scenario file.
type ScenarioDocument struct {
	FilePath string
	FileType string // "yaml", "markdown", "asciidoc"
	Suite    string
	Defaults Params
	Groups   []ScenarioGroup
}

// Outcome is the structured result of one scenario execution.
type Outcome struct {
	ScenarioID  string        `json:"scenario_id"`
	Name        string        `json:"name,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	SessionID   string        `json:"session_id,omitempty"`
	FinalPage   string        `json:"final_page,omitempty"`
	Error       error         `json:"-"`
	ErrorText   string        `json:"error,omitempty"`
	ErrorKind   string        `json:"error_kind,omitempty"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// Passed reports whether the scenario finished without a hard failure.
func (o Outcome) Passed() bool {
	return o.Error == nil
}

// Diagnostic is one recorded soft probe result.
type Diagnostic struct {
	Probe    string    `json:"probe"`
	Hit      bool      `json:"hit"`
	Value    string    `json:"value,omitempty"`
	Category string    `json:"category,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

// Report is the outcome of one suite run.
type Report struct {
	RunID     string        `json:"run_id"`
	Driver    string        `json:"driver"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Outcomes  []Outcome     `json:"outcomes"`
}

// Failed counts outcomes with a hard failure.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Passed() {
			n++
		}
	}
	return n
}

// Passed counts outcomes without a hard failure.
func (r *Report) Passed() int {
	return len(r.Outcomes) - r.Failed()
}
