package rewriters

import (
	"regexp"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// includeRule matches `@include [namespace.]name`. Both identifier groups
// are greedy, so the name is always the complete identifier and a lookup
// can never hit a shorter mixin sharing its prefix.
var includeRule = regexp.MustCompile(`@include\s+(?:([A-Za-z_-][\w-]*)\.)?([A-Za-z_-][\w-]*)`)

// RewriteMixins renames every `@include` of a legacy mixin of rule that is
// reached through binding. Only the mixin name is replaced; the namespace,
// arguments and surrounding whitespace are kept.
//
// A legacy mixin with several targets is renamed to the first one, and the
// statement is repeated for each remaining target on its own line.
func RewriteMixins(text string, binding m.NamespaceBinding, rule m.ComponentRule) (string, m.Stats, error) {
	var stats m.Stats

	if !binding.Found || len(rule.Mixins) == 0 {
		return text, stats, nil
	}

	layout := Scan(text)
	doc := m.NewDocument(text)

	for _, match := range includeRule.FindAllStringSubmatchIndex(layout.Mask, -1) {
		if match[1] > layout.Cutoff {
			break
		}

		if !matchesNamespace(layout.Mask, match, binding) {
			continue
		}

		nameStart, nameEnd := match[4], match[5]

		targets := rule.Mixins[text[nameStart:nameEnd]]
		if len(targets) == 0 {
			continue
		}

		doc.Replace(nameStart, nameEnd, targets[0])
		stats.Mixins++

		if len(targets) > 1 {
			splitInclude(doc, layout, match[0], nameStart, nameEnd, targets[1:])
		}
	}

	out, err := doc.Apply()
	if err != nil {
		return text, m.Stats{}, err
	}

	return out, stats, nil
}

func matchesNamespace(mask string, match []int, binding m.NamespaceBinding) bool {
	hasNamespace := match[2] >= 0

	if binding.Global {
		return !hasNamespace
	}

	return hasNamespace && mask[match[2]:match[3]] == binding.Alias
}

// splitInclude appends one copy of the include statement starting at start
// for every extra target. Includes with a content block are left alone since
// the block cannot be shared.
func splitInclude(doc *m.Document, layout *Layout, start, nameStart, nameEnd int, extra []string) {
	end, ok := includeEnd(layout.Mask, nameEnd)
	if !ok {
		return
	}

	text := layout.Text
	indent := lineIndent(text, start)
	newline := lineBreak(text, start)

	for _, target := range extra {
		doc.Insert(end, newline+indent+text[start:nameStart]+target+text[nameEnd:end])
	}
}

// includeEnd returns the offset just after the `;` that terminates an
// include whose name ends at from.
func includeEnd(mask string, from int) (int, bool) {
	i := skipBlank(mask, from, len(mask))

	if i < len(mask) && mask[i] == '(' {
		depth := 0

		for ; i < len(mask); i++ {
			if mask[i] == '(' {
				depth++
			} else if mask[i] == ')' {
				depth--
				if depth == 0 {
					break
				}
			}
		}

		if i >= len(mask) {
			return 0, false
		}

		i = skipBlank(mask, i+1, len(mask))
	}

	if i < len(mask) && mask[i] == ';' {
		return i + 1, true
	}

	return 0, false
}
