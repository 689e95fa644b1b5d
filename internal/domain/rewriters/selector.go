package rewriters

import (
	"fmt"
	"strings"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

const advisoryFormat = "/* TODO(mdc-migration): The following rule targets internal classes of %s " +
	"that may no longer apply for the MDC version. */"

// AdvisoryComment returns the comment inserted above rules that target
// internal classes of component.
func AdvisoryComment(component string) string {
	return fmt.Sprintf(advisoryFormat, component)
}

// RewriteSelectors renames the legacy classes of rule in every selector list
// and flags rule blocks whose selector list mentions an ambiguous class.
//
// Ambiguity is decided on the tokens as they were before renaming. A block
// gets at most one advisory comment per component, and none if the comment
// is already there.
func RewriteSelectors(text string, rule m.ComponentRule) (string, m.Stats, error) {
	var stats m.Stats

	if len(rule.Classes) == 0 && len(rule.Ambiguous) == 0 && len(rule.AmbiguousPrefixes) == 0 {
		return text, stats, nil
	}

	layout := Scan(text)
	doc := m.NewDocument(text)
	comment := AdvisoryComment(rule.Name)

	for _, block := range layout.Blocks {
		if block.Open >= layout.Cutoff || block.PreludeStart >= layout.Cutoff {
			continue
		}

		start, ok := layout.SelectorStart(block)
		if !ok {
			continue
		}

		flagged := false

		for _, token := range classTokens(layout, start, block.Open) {
			// The real class name is only known once the interpolation is
			// evaluated, so a legacy prefix is flagged instead of renamed.
			if token.Interpolated {
				if _, legacy := rule.RenameClass(token.Name); legacy || rule.IsAmbiguous(token.Name) {
					flagged = true
				}

				continue
			}

			if renamed, ok := rule.RenameClass(token.Name); ok {
				doc.Replace(token.Start+1, token.End, renamed)
				stats.Classes++

				continue
			}

			if rule.IsAmbiguous(token.Name) {
				flagged = true
			}
		}

		if !flagged || strings.Contains(text[block.Boundary:block.PreludeStart], comment) {
			continue
		}

		doc.Insert(block.PreludeStart, comment+lineBreak(text, block.PreludeStart)+lineIndent(text, block.PreludeStart))
		stats.Comments++
	}

	out, err := doc.Apply()
	if err != nil {
		return text, m.Stats{}, err
	}

	return out, stats, nil
}
