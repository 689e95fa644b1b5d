// Package rewriters implements the text passes of the stylesheet migration:
// namespace resolution, mixin renames and selector renames/flagging.
//
// None of the passes parse CSS. They work on a masked copy of the document
// in which comments, string contents and interpolations are blanked, so that
// braces, semicolons and at-keywords can be located by byte offset and every
// edit lands on the original text unchanged around it.
package rewriters

import (
	"fmt"
	"strings"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// Block is one `{ ... }` pair found in code.
type Block struct {
	// Boundary is the offset just after the previous `;`, `{` or `}`.
	Boundary int
	// PreludeStart is the first non-blank code byte after Boundary. It equals
	// Open when the prelude is empty.
	PreludeStart int
	Open         int
	// Close is -1 for blocks that are never closed.
	Close int
	Depth int
}

// Layout is the lexical view of one document.
type Layout struct {
	Text string
	// Mask has the same length as Text. Comments, string contents,
	// interpolations and url() bodies are replaced by spaces; line breaks
	// are kept.
	Mask   string
	Blocks []Block
	// Cutoff is the offset past which the document is treated as opaque.
	// It equals len(Text) for well-formed input.
	Cutoff   int
	Warnings []m.Warning
}

// Prelude returns the verbatim selector or at-rule text of b.
func (l *Layout) Prelude(b Block) string {
	return l.Text[b.PreludeStart:b.Open]
}

// IsAtRule reports whether the prelude of b starts with an at-keyword.
func (l *Layout) IsAtRule(b Block) bool {
	return b.PreludeStart < b.Open && l.Mask[b.PreludeStart] == '@'
}

// SelectorStart returns the offset where the selector list of b starts.
// `@at-root <selector>` preludes carry a selector list after the keyword;
// other at-rules have none.
func (l *Layout) SelectorStart(b Block) (int, bool) {
	if b.PreludeStart == b.Open {
		return 0, false
	}

	if !l.IsAtRule(b) {
		return b.PreludeStart, true
	}

	const atRoot = "@at-root"

	after := b.PreludeStart + len(atRoot)
	if after >= b.Open || l.Mask[b.PreludeStart:after] != atRoot || !isBlank(l.Mask[after]) {
		return 0, false
	}

	start := skipBlank(l.Mask, after, b.Open)
	if start == b.Open || l.Mask[start] == '(' {
		return 0, false
	}

	return start, true
}

// Scan builds the Layout of text.
func Scan(text string) *Layout {
	layout := &Layout{Text: text, Cutoff: len(text)}

	mask := []byte(text)
	layout.maskRegions(mask)
	layout.Mask = string(mask)
	layout.findBlocks()

	return layout
}

func (l *Layout) warn(kind m.WarningKind, offset int, format string, args ...interface{}) {
	l.Warnings = append(l.Warnings, m.Warning{
		Kind:    kind,
		Offset:  offset,
		Line:    LineAt(l.Text, offset),
		Message: fmt.Sprintf(format, args...),
	})
}

//nolint:cyclop // One case per region kind.
func (l *Layout) maskRegions(mask []byte) {
	text := l.Text
	n := len(text)
	i := 0

	for i < n {
		c := text[i]

		switch {
		case c == '/' && i+1 < n && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				blank(mask, i, n)
				l.warn(m.WarningUnterminated, i, "unterminated comment")

				return
			}

			end = i + 2 + end + 2
			blank(mask, i, end)
			i = end

		case c == '/' && i+1 < n && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}

			blank(mask, i, end)
			i = end

		case c == '"' || c == '\'':
			end, ok := scanString(text, i)
			blank(mask, i+1, end-1)

			if !ok {
				blank(mask, i+1, end)
				l.warn(m.WarningUnterminated, i, "unterminated string")
			}

			i = end

		case c == '#' && i+1 < n && text[i+1] == '{':
			end, ok := scanInterpolation(text, i+2)
			blank(mask, i, end)

			if !ok {
				l.warn(m.WarningUnterminated, i, "unterminated interpolation")
				return
			}

			i = end

		case (c == 'u' || c == 'U') && isURLFunction(text, i):
			end, ok := scanURL(text, i+len("url("))
			if !ok {
				blank(mask, i+len("url("), n)
				l.warn(m.WarningUnterminated, i, "unterminated url()")

				return
			}

			blank(mask, i+len("url("), end)
			i = end

		default:
			i++
		}
	}
}

func (l *Layout) findBlocks() {
	mask := l.Mask
	boundary := 0

	var open []int

	for i := 0; i < len(mask); i++ {
		switch mask[i] {
		case '{':
			l.Blocks = append(l.Blocks, Block{
				Boundary:     boundary,
				PreludeStart: skipBlank(mask, boundary, i),
				Open:         i,
				Close:        -1,
				Depth:        len(open),
			})
			open = append(open, len(l.Blocks)-1)
			boundary = i + 1

		case '}':
			if len(open) == 0 {
				l.Cutoff = i
				l.warn(m.WarningMalformedBlock, i, "unexpected '}' without a matching '{'")

				return
			}

			l.Blocks[open[len(open)-1]].Close = i
			open = open[:len(open)-1]
			boundary = i + 1

		case ';':
			boundary = i + 1
		}
	}

	if len(open) > 0 {
		outer := l.Blocks[open[0]]
		l.Cutoff = outer.PreludeStart
		l.warn(m.WarningMalformedBlock, outer.Open, "'{' is never closed")
	}
}

// LineAt returns the 1-based line number of offset in text.
func LineAt(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}

	return strings.Count(text[:offset], "\n") + 1
}

// lineIndent returns the whitespace that starts the line containing offset.
func lineIndent(text string, offset int) string {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := start

	for end < offset && (text[end] == ' ' || text[end] == '\t') {
		end++
	}

	return text[start:end]
}

// lineBreak returns the line terminator of the line containing offset, or of
// the nearest line before it when that line is the last one.
func lineBreak(text string, offset int) string {
	end := strings.IndexByte(text[offset:], '\n')
	if end >= 0 {
		end += offset
	} else {
		end = strings.LastIndexByte(text[:offset], '\n')
	}

	if end > 0 && text[end-1] == '\r' {
		return "\r\n"
	}

	return "\n"
}

func blank(mask []byte, from, to int) {
	for k := from; k < to && k < len(mask); k++ {
		if mask[k] != '\n' && mask[k] != '\r' {
			mask[k] = ' '
		}
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func skipBlank(s string, from, to int) int {
	for from < to && isBlank(s[from]) {
		from++
	}

	return from
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// scanString returns the offset after the string starting at quote. A raw
// line break ends an unterminated string, as it does in CSS.
func scanString(text string, quote int) (int, bool) {
	q := text[quote]

	for i := quote + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case q:
			return i + 1, true
		case '\n':
			return i, false
		}
	}

	return len(text), false
}

// scanInterpolation returns the offset after the `}` closing an
// interpolation whose body starts at from.
func scanInterpolation(text string, from int) (int, bool) {
	depth := 1

	for i := from; i < len(text); i++ {
		switch text[i] {
		case '"', '\'':
			end, ok := scanString(text, i)
			if !ok {
				return len(text), false
			}

			i = end - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}

	return len(text), false
}

func isURLFunction(text string, i int) bool {
	if i > 0 && isIdentByte(text[i-1]) {
		return false
	}

	if len(text)-i < len("url(") || !strings.EqualFold(text[i:i+len("url(")], "url(") {
		return false
	}

	j := skipBlank(text, i+len("url("), len(text))

	return j >= len(text) || (text[j] != '"' && text[j] != '\'')
}

// scanURL returns the offset of the `)` closing an unquoted url() body.
func scanURL(text string, from int) (int, bool) {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case ')':
			return i, true
		}
	}

	return len(text), false
}
