package rewriters

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// classToken is one `.name` class selector. Start is the offset of the dot,
// End the offset after the name, both relative to the whole document.
// Interpolated is set when an interpolation continues the name, so Name is
// only a prefix of the real class.
type classToken struct {
	Name         string
	Start        int
	End          int
	Interpolated bool
}

// classTokens lexes the masked layout between from and to and returns its
// class selectors in order. Comments and string contents are blank in the
// mask, so the lexer only ever sees code.
func classTokens(layout *Layout, from, to int) []classToken {
	lexer := css.NewLexer(parse.NewInputString(layout.Mask[from:to]))

	var (
		tokens []classToken
		offset = from
		dotAt  = -1
	)

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}

		switch {
		case tt == css.DelimToken && len(data) == 1 && data[0] == '.':
			dotAt = offset
		case tt == css.IdentToken && dotAt >= 0 && dotAt+1 == offset:
			end := offset + len(data)

			tokens = append(tokens, classToken{
				Name:         string(data),
				Start:        dotAt,
				End:          end,
				Interpolated: strings.HasPrefix(layout.Text[end:], "#{"),
			})
			dotAt = -1
		default:
			dotAt = -1
		}

		offset += len(data)
	}

	return tokens
}
