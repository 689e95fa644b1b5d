package rewriters

import (
	"path"
	"regexp"
	"strings"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

var (
	useRule   = regexp.MustCompile(`@use\s+["']`)
	aliasRule = regexp.MustCompile(`^\s+as\s+(\*|[A-Za-z_-][\w-]*)`)
)

// ResolveNamespace finds the first `@use` of module in layout and returns
// the alias it is bound to. Found is false when the module is not used.
func ResolveNamespace(layout *Layout, module string) m.NamespaceBinding {
	for _, loc := range useRule.FindAllStringIndex(layout.Mask, -1) {
		if loc[0] >= layout.Cutoff {
			break
		}

		quote := loc[1] - 1

		// String contents are blank in the mask, so the next quote byte of
		// the same kind closes the URL.
		closing := strings.IndexByte(layout.Mask[quote+1:], layout.Mask[quote])
		if closing < 0 {
			continue
		}

		closing += quote + 1

		if layout.Text[quote+1:closing] != module {
			continue
		}

		return bindingFor(layout.Mask[closing+1:statementEnd(layout.Mask, closing+1)], module)
	}

	return m.NamespaceBinding{}
}

func bindingFor(clause, module string) m.NamespaceBinding {
	match := aliasRule.FindStringSubmatch(clause)
	if match == nil {
		return m.NamespaceBinding{Alias: DefaultNamespace(module), Found: true}
	}

	if match[1] == "*" {
		return m.NamespaceBinding{Found: true, Global: true}
	}

	return m.NamespaceBinding{Alias: match[1], Found: true}
}

// DefaultNamespace is the namespace Sass gives a `@use` without an `as`
// clause: the last URL segment without extension or partial underscore.
func DefaultNamespace(url string) string {
	name := path.Base(strings.TrimSuffix(url, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))

	return strings.TrimPrefix(name, "_")
}

// statementEnd returns the offset of the `;`, `{` or `}` that ends the
// statement containing from.
func statementEnd(mask string, from int) int {
	if end := strings.IndexAny(mask[from:], ";{}"); end >= 0 {
		return from + end
	}

	return len(mask)
}
