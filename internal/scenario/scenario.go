// Package scenario parses and replays scripted sessions of a single
// component using a UseStateWithDeps[any] hook.
//
// A scenario is a JSON or YAML document:
//
//	name: reset on dep change
//	steps:
//	  - render: {value: 1, deps: [5]}
//	    expect: {state: 1, renders: 1}
//	  - set: 3
//	  - render: {value: 2, deps: [6]}
//	    expect: {state: 2}
//	  - update: increment
//	  - unmount: true
//
// All numbers are normalized to float64, so a JSON and a YAML scenario with
// the same content replay identically.
package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/depstate/internal/errors"
)

// Action is the kind of a step.
type Action string

const (
	ActionRender  Action = "render"
	ActionSet     Action = "set"
	ActionUpdate  Action = "update"
	ActionUnmount Action = "unmount"
)

// Scenario is a parsed scenario document.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one action against the component.
type Step struct {
	Action Action

	// Value is the initial value of a render step or the value of a set step.
	Value any

	// Producer names the initializer of a render step or the updater of an
	// update step. Empty for value renders.
	Producer string

	// Deps are the dependencies of a render step.
	Deps []any

	// Expect is checked after the step, when non-nil.
	Expect *Expect
}

// Expect holds the optional assertions of a step.
type Expect struct {
	State    any
	HasState bool

	Renders    int
	HasRenders bool
}

// String describes the step on one line.
func (s Step) String() string {
	switch s.Action {
	case ActionRender:
		if s.Producer != "" {
			return fmt.Sprintf("render producer=%s deps=%s", s.Producer, formatValue(s.Deps))
		}
		return fmt.Sprintf("render value=%s deps=%s", formatValue(s.Value), formatValue(s.Deps))
	case ActionSet:
		return "set " + formatValue(s.Value)
	case ActionUpdate:
		return "update " + s.Producer
	default:
		return string(s.Action)
	}
}

type document struct {
	Name  string           `json:"name" yaml:"name"`
	Steps []map[string]any `json:"steps" yaml:"steps"`
}

// Load reads and parses a scenario file. The format is chosen by extension:
// .yaml and .yml are YAML, anything else is JSON.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E124").Wrap(err)
	}
	s, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a scenario. name is only used to pick the format.
func Parse(name string, data []byte) (*Scenario, error) {
	var doc document
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, errors.New("E120").WithDetail(err.Error())
	}

	if len(doc.Steps) == 0 {
		return nil, errors.New("E122").WithDetail("scenario has no steps")
	}

	s := &Scenario{Name: doc.Name, Steps: make([]Step, 0, len(doc.Steps))}
	for i, raw := range doc.Steps {
		step, err := parseStep(normalize(raw).(map[string]any))
		if err != nil {
			return nil, stepError(i, err)
		}
		s.Steps = append(s.Steps, step)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the order of steps: the first one mounts the component
// and nothing renders it after it was unmounted.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("E122").WithDetail("scenario has no steps")
	}
	if s.Steps[0].Action != ActionRender {
		return errors.New("E122").WithDetail("step 1: the first step must be a render")
	}
	unmounted := false
	for i, step := range s.Steps {
		switch step.Action {
		case ActionRender:
			if unmounted {
				return errors.New("E122").WithDetailf("step %d: render after unmount", i+1)
			}
		case ActionUnmount:
			if unmounted {
				return errors.New("E122").WithDetailf("step %d: component already unmounted", i+1)
			}
			unmounted = true
		}
	}
	return nil
}

func stepError(i int, err error) error {
	if de, ok := err.(*errors.DepstateError); ok {
		return de.WithDetailf("step %d: %s", i+1, de.Detail)
	}
	return err
}

var actions = []Action{ActionRender, ActionSet, ActionUpdate, ActionUnmount}

func parseStep(raw map[string]any) (Step, error) {
	var step Step
	found := 0
	for key := range raw {
		switch key {
		case "expect":
		case string(ActionRender), string(ActionSet), string(ActionUpdate), string(ActionUnmount):
			found++
		default:
			return step, errors.New("E122").WithDetailf("unknown key %q", key)
		}
	}
	if found != 1 {
		return step, errors.New("E122").
			WithDetailf("want exactly one of %s, got %d", actionList(), found)
	}

	var err error
	for _, a := range actions {
		v, ok := raw[string(a)]
		if !ok {
			continue
		}
		step.Action = a
		switch a {
		case ActionRender:
			err = parseRender(&step, v)
		case ActionSet:
			step.Value = v
		case ActionUpdate:
			name, isString := v.(string)
			if !isString {
				return step, errors.New("E122").WithDetail("update takes a producer name")
			}
			if _, err := LookupProducer(name); err != nil {
				return step, err
			}
			step.Producer = name
		case ActionUnmount:
			if b, _ := v.(bool); !b {
				return step, errors.New("E122").WithDetail("unmount must be true")
			}
		}
	}
	if err != nil {
		return step, err
	}

	if v, ok := raw["expect"]; ok {
		step.Expect, err = parseExpect(v)
	}
	return step, err
}

func parseRender(step *Step, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return errors.New("E122").WithDetail("render takes a mapping with value or producer and deps")
	}
	for key := range m {
		switch key {
		case "value", "producer", "deps":
		default:
			return errors.New("E122").WithDetailf("unknown render key %q", key)
		}
	}

	value, hasValue := m["value"]
	producer, hasProducer := m["producer"]
	if hasValue && hasProducer {
		return errors.New("E122").WithDetail("render takes value or producer, not both")
	}
	step.Value = value
	if hasProducer {
		name, isString := producer.(string)
		if !isString {
			return errors.New("E122").WithDetail("producer must be a name")
		}
		if _, err := LookupProducer(name); err != nil {
			return err
		}
		step.Producer = name
	}

	if deps, ok := m["deps"]; ok && deps != nil {
		list, isList := deps.([]any)
		if !isList {
			return errors.New("E122").WithDetail("deps must be a list")
		}
		step.Deps = list
	}
	return nil
}

func parseExpect(v any) (*Expect, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("E122").WithDetail("expect takes a mapping with state and/or renders")
	}
	exp := &Expect{}
	for key, val := range m {
		switch key {
		case "state":
			exp.State = val
			exp.HasState = true
		case "renders":
			n, isNumber := val.(float64)
			if !isNumber || n < 0 || n != math.Trunc(n) {
				return nil, errors.New("E122").WithDetail("expect.renders must be a non-negative integer")
			}
			exp.Renders = int(n)
			exp.HasRenders = true
		default:
			return nil, errors.New("E122").WithDetailf("unknown expect key %q", key)
		}
	}
	return exp, nil
}

func actionList() string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// normalize converts decoded numbers to float64 and YAML mappings to
// map[string]any, recursively.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	}
	return v
}

// Normalize returns v with numbers converted to float64, as scenario values
// are. It is used for values decoded outside a scenario file.
func Normalize(v any) any {
	return normalize(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + formatValue(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case string:
		return fmt.Sprintf("%q", x)
	}
	return fmt.Sprint(v)
}
