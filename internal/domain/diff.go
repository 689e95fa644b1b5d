package domain

import (
	"github.com/pmezard/go-difflib/difflib"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

const diffContext = 3

// unifiedDiff renders the change from before to after in unified format with
// git-style file headers.
func unifiedDiff(path m.Path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + string(path),
		ToFile:   "b/" + string(path),
		Context:  diffContext,
	})
}
