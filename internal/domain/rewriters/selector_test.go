package rewriters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

func radioSelectors() m.ComponentRule {
	return m.ComponentRule{
		Name: "radio",
		Classes: map[string]string{
			"mat-radio-group":  "mat-mdc-radio-group",
			"mat-radio-button": "mat-mdc-radio-button",
		},
		Ambiguous: []string{"mat-radio-container", "mat-radio-label-content", "mat-radio-ripple"},
	}
}

func TestRewriteSelectors(t *testing.T) {
	comment := AdvisoryComment("radio")

	tests := []struct {
		name     string
		text     string
		want     string
		classes  int
		comments int
	}{
		{
			name:    "renames class",
			text:    ".mat-radio-group {\n  display: block;\n}\n",
			want:    ".mat-mdc-radio-group {\n  display: block;\n}\n",
			classes: 1,
		},
		{
			name:    "keeps longer class sharing the prefix",
			text:    ".mat-radio-group-extra {}\n",
			want:    ".mat-radio-group-extra {}\n",
			classes: 0,
		},
		{
			name:     "flags ambiguous class with line indent",
			text:     "  .mat-radio-label-content {\n    font-size: 24px;\n  }\n",
			want:     "  " + comment + "\n  .mat-radio-label-content {\n    font-size: 24px;\n  }\n",
			comments: 1,
		},
		{
			name:     "renames and flags in one rule",
			text:     ".mat-radio-group.some-class, .mat-radio-container {\n  padding: 16px;\n}\n",
			want:     comment + "\n.mat-mdc-radio-group.some-class, .mat-radio-container {\n  padding: 16px;\n}\n",
			classes:  1,
			comments: 1,
		},
		{
			name:     "one comment per rule",
			text:     ".mat-radio-container .mat-radio-ripple {}\n",
			want:     comment + "\n.mat-radio-container .mat-radio-ripple {}\n",
			comments: 1,
		},
		{
			name:     "rule nested in media query",
			text:     "@media (max-width: 600px) {\n  .mat-radio-ripple { opacity: 0; }\n}\n",
			want:     "@media (max-width: 600px) {\n  " + comment + "\n  .mat-radio-ripple { opacity: 0; }\n}\n",
			comments: 1,
		},
		{
			name:     "nested rules",
			text:     ".mat-radio-group {\n  .mat-radio-container { padding: 0; }\n}\n",
			want:     ".mat-mdc-radio-group {\n  " + comment + "\n  .mat-radio-container { padding: 0; }\n}\n",
			classes:  1,
			comments: 1,
		},
		{
			name:    "multi-line selector keeps its layout",
			text:    ".some-class,\n.mat-radio-button,\n.another-class { padding: 16px; }\n",
			want:    ".some-class,\n.mat-mdc-radio-button,\n.another-class { padding: 16px; }\n",
			classes: 1,
		},
		{
			name: "strings and comments are untouched",
			text: ".a::before { content: '.mat-radio-button'; }\n/* .mat-radio-group { } */\n// .mat-radio-container {\n",
			want: ".a::before { content: '.mat-radio-button'; }\n/* .mat-radio-group { } */\n// .mat-radio-container {\n",
		},
		{
			name: "declarations and at-rule preludes are untouched",
			text: ".x {\n  @extend .mat-radio-button;\n}\n@supports selector(.mat-radio-group) {}\n",
			want: ".x {\n  @extend .mat-radio-button;\n}\n@supports selector(.mat-radio-group) {}\n",
		},
		{
			name:     "comment keeps CRLF line endings",
			text:     ".a {\r\n  .mat-radio-label-content {\r\n  }\r\n}\r\n",
			want:     ".a {\r\n  " + comment + "\r\n  .mat-radio-label-content {\r\n  }\r\n}\r\n",
			comments: 1,
		},
		{
			name:    "renames class after @at-root",
			text:    ".x {\n  @at-root .mat-radio-button { color: red; }\n}\n",
			want:    ".x {\n  @at-root .mat-mdc-radio-button { color: red; }\n}\n",
			classes: 1,
		},
		{
			name:     "flags ambiguous class after @at-root",
			text:     "@at-root .mat-radio-ripple {}\n",
			want:     comment + "\n@at-root .mat-radio-ripple {}\n",
			comments: 1,
		},
		{
			name:     "flags legacy class continued by interpolation",
			text:     ".mat-radio-button#{$suffix} { color: red; }\n",
			want:     comment + "\n.mat-radio-button#{$suffix} { color: red; }\n",
			comments: 1,
		},
		{
			name:    "interpolated unrelated class is ignored",
			text:    ".other#{$x}, .mat-radio-group {}\n",
			want:    ".other#{$x}, .mat-mdc-radio-group {}\n",
			classes: 1,
		},
		{
			name:    "text after a stray brace is untouched",
			text:    ".mat-radio-group {} }\n.mat-radio-button {}\n.mat-radio-ripple {}\n",
			want:    ".mat-mdc-radio-group {} }\n.mat-radio-button {}\n.mat-radio-ripple {}\n",
			classes: 1,
		},
		{
			name:    "unclosed block is untouched",
			text:    ".mat-radio-group {}\n.mat-radio-button {\n  color: red;\n",
			want:    ".mat-mdc-radio-group {}\n.mat-radio-button {\n  color: red;\n",
			classes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := RewriteSelectors(tt.text, radioSelectors())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.classes, stats.Classes)
			assert.Equal(t, tt.comments, stats.Comments)
		})
	}
}

func TestRewriteSelectors_Idempotent(t *testing.T) {
	text := "  .mat-radio-group.some-class, .mat-radio-container {\n    padding: 16px;\n  }\n" +
		"  .mat-radio-label-content { color: red; }\n"

	once, _, err := RewriteSelectors(text, radioSelectors())
	require.NoError(t, err)

	twice, stats, err := RewriteSelectors(once, radioSelectors())
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Zero(t, stats.Total())
}

func TestRewriteSelectors_AmbiguousPrefix(t *testing.T) {
	rule := m.ComponentRule{
		Name:              "checkbox",
		Classes:           map[string]string{"mat-checkbox": "mat-mdc-checkbox"},
		AmbiguousPrefixes: []string{"mat-checkbox-"},
	}

	text := ".mat-checkbox {}\n.mat-checkbox-frame {}\n"

	got, stats, err := RewriteSelectors(text, rule)
	require.NoError(t, err)

	assert.Equal(t, ".mat-mdc-checkbox {}\n"+AdvisoryComment("checkbox")+"\n.mat-checkbox-frame {}\n", got)
	assert.Equal(t, m.Stats{Classes: 1, Comments: 1}, stats)
}

func TestRewriteSelectors_NoRules(t *testing.T) {
	text := ".mat-radio-group {}\n"

	got, stats, err := RewriteSelectors(text, m.ComponentRule{Name: "empty"})
	require.NoError(t, err)

	assert.Equal(t, text, got)
	assert.Zero(t, stats.Total())
}
