// Package rules loads and validates the component rule table that drives the
// migration. The built-in table ships as YAML so that adding a component is a
// data change.
package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

//go:embed rules.yaml
var builtin []byte

// ErrInvalidRuleTable is returned for rule tables that would make the
// migration non-idempotent or cannot be decoded.
var ErrInvalidRuleTable = errors.New("invalid rule table")

// Default returns the built-in rule table.
func Default() (m.RuleTable, error) {
	return Parse(builtin)
}

// Parse decodes and validates a YAML rule table. A missing module defaults
// to m.DefaultModule.
func Parse(data []byte) (m.RuleTable, error) {
	var table m.RuleTable

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&table); err != nil {
		return m.RuleTable{}, fmt.Errorf("%w: %w", ErrInvalidRuleTable, err)
	}

	if table.Module == "" {
		table.Module = m.DefaultModule
	}

	if table.Components == nil {
		table.Components = map[string]m.ComponentRule{}
	}

	for name, rule := range table.Components {
		rule.Name = name
		table.Components[name] = rule
	}

	if err := Validate(table); err != nil {
		return m.RuleTable{}, err
	}

	return table, nil
}

// Merge returns base with every component of override replacing the
// component of the same name. The module of override wins when set.
func Merge(base, override m.RuleTable) m.RuleTable {
	merged := m.RuleTable{
		Module:     base.Module,
		Components: make(map[string]m.ComponentRule, len(base.Components)+len(override.Components)),
	}

	if override.Module != "" {
		merged.Module = override.Module
	}

	for name, rule := range base.Components {
		merged.Components[name] = rule
	}

	for name, rule := range override.Components {
		merged.Components[name] = rule
	}

	return merged
}

// Validate checks that applying the table twice gives the same result as
// applying it once.
func Validate(table m.RuleTable) error {
	var err error

	for _, name := range table.Names() {
		err = multierr.Append(err, validateComponent(name, table.Components[name]))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRuleTable, err)
	}

	return nil
}

func validateComponent(name string, rule m.ComponentRule) error {
	var err error

	if strings.TrimSpace(name) == "" {
		err = multierr.Append(err, errors.New("component with empty name"))
	}

	for legacy, targets := range rule.Mixins {
		if len(targets) == 0 {
			err = multierr.Append(err, fmt.Errorf("%s: mixin %q has no target", name, legacy))
		}

		for _, target := range targets {
			if _, ok := rule.Mixins[target]; ok {
				err = multierr.Append(err, fmt.Errorf("%s: mixin %q is renamed to legacy mixin %q", name, legacy, target))
			}
		}
	}

	for legacy, target := range rule.Classes {
		if strings.HasPrefix(legacy, ".") || strings.HasPrefix(target, ".") {
			err = multierr.Append(err, fmt.Errorf("%s: class %q must be written without a leading dot", name, legacy))
		}

		if target == "" {
			err = multierr.Append(err, fmt.Errorf("%s: class %q has no target", name, legacy))
		}

		if _, ok := rule.Classes[target]; ok {
			err = multierr.Append(err, fmt.Errorf("%s: class %q is renamed to legacy class %q", name, legacy, target))
		}
	}

	return err
}

// Overlaps lists classes that are both renamed and listed as ambiguous.
// The rename wins for those classes and no comment is emitted.
func Overlaps(rule m.ComponentRule) []string {
	var overlaps []string

	for _, class := range rule.Ambiguous {
		if _, ok := rule.Classes[class]; ok {
			overlaps = append(overlaps, class)
		}
	}

	return overlaps
}

// Encode renders table as YAML.
func Encode(table m.RuleTable) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(table); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
