package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DefaultModule is the theming module whose mixins are renamed.
const DefaultModule = "@angular/material"

// ErrUnknownComponent is returned when a requested component has no rule.
var ErrUnknownComponent = errors.New("unknown component")

// MixinTargets lists the new mixins a legacy mixin maps to. Most legacy
// mixins map to exactly one target; a few were split into several.
type MixinTargets []string

// UnmarshalYAML accepts either a single scalar or a sequence of names.
func (t *MixinTargets) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = MixinTargets{value.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}

		*t = names

		return nil
	default:
		return fmt.Errorf("line %d: mixin target must be a name or a list of names", value.Line)
	}
}

// MarshalYAML writes single targets back as scalars.
func (t MixinTargets) MarshalYAML() (interface{}, error) {
	if len(t) == 1 {
		return t[0], nil
	}

	return []string(t), nil
}

// ComponentRule holds the rename and ambiguity data for one component.
// Class names are stored without the leading dot.
type ComponentRule struct {
	Name              string                  `yaml:"-"`
	Mixins            map[string]MixinTargets `yaml:"mixins,omitempty"`
	Classes           map[string]string       `yaml:"classes,omitempty"`
	Ambiguous         []string                `yaml:"ambiguous,omitempty"`
	AmbiguousPrefixes []string                `yaml:"ambiguousPrefixes,omitempty"`
}

// RenameClass returns the new name for a legacy class.
func (r ComponentRule) RenameClass(class string) (string, bool) {
	renamed, ok := r.Classes[class]
	return renamed, ok
}

// IsAmbiguous reports whether class may reference an internal element of
// the legacy component. Renamed classes and rename targets are never
// ambiguous.
func (r ComponentRule) IsAmbiguous(class string) bool {
	if _, ok := r.Classes[class]; ok {
		return false
	}

	if r.isRenameTarget(class) {
		return false
	}

	for _, ambiguous := range r.Ambiguous {
		if ambiguous == class {
			return true
		}
	}

	for _, prefix := range r.AmbiguousPrefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}

	return false
}

func (r ComponentRule) isRenameTarget(class string) bool {
	for _, renamed := range r.Classes {
		if renamed == class {
			return true
		}
	}

	return false
}

// RuleTable is the closed set of component rules for one theming module.
type RuleTable struct {
	Module     string                   `yaml:"module"`
	Components map[string]ComponentRule `yaml:"components"`
}

// Lookup returns the rule registered for name.
func (t RuleTable) Lookup(name string) (ComponentRule, error) {
	rule, ok := t.Components[name]
	if !ok {
		return ComponentRule{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}

	rule.Name = name

	return rule, nil
}

// Resolve looks up every name in request order. Unknown names are collected
// into the returned error while the known ones are still returned.
func (t RuleTable) Resolve(names []string) ([]ComponentRule, error) {
	rules := make([]ComponentRule, 0, len(names))

	var err error

	for _, name := range names {
		rule, lookupErr := t.Lookup(name)
		if lookupErr != nil {
			err = multierr.Append(err, lookupErr)
			continue
		}

		rules = append(rules, rule)
	}

	return rules, err
}

// Names returns the component names in sorted order.
func (t RuleTable) Names() []string {
	names := make([]string, 0, len(t.Components))
	for name := range t.Components {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
