// Package selector rewrites class names inside CSS selectors.
//
// A selector is scanned as a stream of CSS tokens. Only class-name runs (a
// '.' delimiter followed by an identifier) are rewritten; attribute
// selectors are copied verbatim and every other token (tags, combinators,
// pseudo-classes, ids, comments) is written back unchanged.
package selector

import (
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"cssobf/obfuscate"
)

// Func rewrites a single selector.
type Func func(selector string) string

// New returns a selector rewriter bound to cfg.
func New(cfg obfuscate.Config) (Func, error) {
	name, err := obfuscate.New(cfg)
	if err != nil {
		return nil, err
	}
	return func(sel string) string {
		return Rewrite(sel, name)
	}, nil
}

// Rewrite replaces every class name in sel with name(class). Input it does
// not understand is copied through.
func Rewrite(sel string, name obfuscate.Func) string {
	var (
		b          strings.Builder
		pendingDot bool
		brackets   int
	)
	b.Grow(len(sel))

	l := css.NewLexer(parse.NewInputString(sel))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}

		if brackets > 0 {
			switch tt {
			case css.LeftBracketToken:
				brackets++
			case css.RightBracketToken:
				brackets--
			}
			b.Write(data)
			continue
		}

		if pendingDot {
			pendingDot = false
			b.WriteByte('.')
			if tt == css.IdentToken || tt == css.CustomPropertyNameToken {
				b.WriteString(name(unescape(string(data))))
				continue
			}
		}

		switch {
		case tt == css.DelimToken && len(data) == 1 && data[0] == '.':
			pendingDot = true
			continue
		case tt == css.LeftBracketToken:
			brackets++
		}
		b.Write(data)
	}
	if pendingDot {
		b.WriteByte('.')
	}
	return b.String()
}

// unescape resolves CSS escapes in an identifier so that ".a\.b" and the
// markup class "a.b" hash to the same token.
func unescape(ident string) string {
	if !strings.Contains(ident, `\`) {
		return ident
	}

	var b strings.Builder
	b.Grow(len(ident))
	for i := 0; i < len(ident); i++ {
		c := ident[i]
		if c != '\\' || i+1 == len(ident) {
			b.WriteByte(c)
			continue
		}
		i++
		if !isHex(ident[i]) {
			b.WriteByte(ident[i])
			continue
		}
		j := i
		for j < len(ident) && j-i < 6 && isHex(ident[j]) {
			j++
		}
		cp, _ := strconv.ParseUint(ident[i:j], 16, 32)
		if cp == 0 || cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
			cp = 0xFFFD
		}
		b.WriteRune(rune(cp))
		// a single whitespace terminates hex escape
		if j < len(ident) && (ident[j] == ' ' || ident[j] == '\t' || ident[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
