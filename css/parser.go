package css

import (
	"fmt"
	"io"
	"slices"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser splits CSS stylesheets into style rules and verbatim text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	data string
	line int
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	// Log parsing start with source identifier if provided
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	b := &builder{p: p, sheet: sheet, toks: p.tokenize(data, sheet)}
	b.statements(nil, false)
	b.flush()

	p.log.Debug("Parsed CSS", zap.Int("items", len(sheet.Items)), zap.Int("warnings", len(sheet.Warnings)))
	return sheet
}

// tokenize lexes the whole input. Concatenated token data always equals the
// input: anything the lexer refuses is kept as a trailing error token.
func (p *Parser) tokenize(data []byte, sheet *Stylesheet) []token {
	var (
		toks     []token
		line     = 1
		consumed int
	)

	l := css.NewLexer(parse.NewInputBytes(data))
	for {
		tt, raw := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				p.log.Debug("CSS lexer error", zap.Error(err))
				sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("line %d: %v", line, err))
			}
			break
		}
		toks = append(toks, token{tt: tt, data: string(raw), line: line})
		line += strings.Count(toks[len(toks)-1].data, "\n")
		consumed += len(raw)
	}
	if consumed < len(data) {
		toks = append(toks, token{tt: css.ErrorToken, data: string(data[consumed:]), line: line})
	}
	return toks
}

type builder struct {
	p     *Parser
	sheet *Stylesheet
	toks  []token
	pos   int
	raw   strings.Builder
}

func (b *builder) warn(line int, msg string) {
	b.sheet.Warnings = append(b.sheet.Warnings, fmt.Sprintf("line %d: %s", line, msg))
	b.p.log.Debug("CSS parse problem", zap.Int("line", line), zap.String("problem", msg))
}

func (b *builder) writeRaw(toks []token) {
	for _, t := range toks {
		b.raw.WriteString(t.data)
	}
}

// flush moves accumulated verbatim text into the stylesheet.
func (b *builder) flush() {
	if b.raw.Len() == 0 {
		return
	}
	b.sheet.Items = append(b.sheet.Items, StylesheetItem{Raw: b.raw.String()})
	b.raw.Reset()
}

// statements consumes rules until end of input or, when nested, until an
// unmatched '}' which is left for the caller.
func (b *builder) statements(atRules []string, nested bool) {
	for b.pos < len(b.toks) {
		t := b.toks[b.pos]
		switch {
		case isTrivia(t.tt), t.tt == css.SemicolonToken:
			b.raw.WriteString(t.data)
			b.pos++
			continue
		case t.tt == css.RightBraceToken:
			if nested {
				return
			}
			b.warn(t.line, "unexpected '}'")
			b.raw.WriteString(t.data)
			b.pos++
			continue
		}

		start := b.pos
		end := b.prelude()
		if end == len(b.toks) {
			b.warn(t.line, "unterminated statement")
			b.writeRaw(b.toks[start:])
			b.pos = end
			return
		}

		switch b.toks[end].tt {
		case css.SemicolonToken:
			b.writeRaw(b.toks[start : end+1])
			b.pos = end + 1

		case css.RightBraceToken:
			b.warn(t.line, "statement cut by end of block")
			b.writeRaw(b.toks[start:end])
			b.pos = end

		case css.LeftBraceToken:
			if t.tt == css.AtKeywordToken {
				name := strings.ToLower(t.data)
				if !groupAtRules[name] {
					b.p.log.Debug("Keeping @-rule verbatim", zap.String("rule", name))
					b.writeRaw(b.toks[start:end])
					b.pos = end
					b.raw.WriteString(b.block())
					continue
				}
				b.writeRaw(b.toks[start : end+1])
				b.pos = end + 1
				b.statements(append(slices.Clone(atRules), name), true)
				if b.pos < len(b.toks) {
					b.raw.WriteString(b.toks[b.pos].data)
					b.pos++
				} else {
					b.warn(t.line, "unterminated "+name+" block")
				}
				continue
			}

			b.flush()
			rule := b.rule(start, end, atRules)
			b.pos = end
			rule.Block = b.block()
			b.sheet.Items = append(b.sheet.Items, StylesheetItem{Rule: rule})
		}
	}
}

// prelude returns index of the token terminating statement prelude starting at
// current position or len(toks) if input ends first.
func (b *builder) prelude() int {
	depth := 0
	for i := b.pos; i < len(b.toks); i++ {
		switch b.toks[i].tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.SemicolonToken:
			if depth == 0 {
				return i
			}
		case css.RightBraceToken:
			return i
		}
	}
	return len(b.toks)
}

// block consumes a brace-delimited block starting at current position and
// returns it verbatim.
func (b *builder) block() string {
	var (
		sb    strings.Builder
		depth int
		line  = b.toks[b.pos].line
	)
	for b.pos < len(b.toks) {
		t := b.toks[b.pos]
		sb.WriteString(t.data)
		b.pos++
		switch t.tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return sb.String()
			}
		}
	}
	b.warn(line, "unterminated block")
	return sb.String()
}

// rule builds a style rule from prelude tokens [start, end).
func (b *builder) rule(start, end int, atRules []string) *Rule {
	rule := &Rule{
		AtRules: atRules,
		Line:    b.toks[start].line,
	}

	depth, from := 0, start
	for i := start; i <= end; i++ {
		if i < end {
			switch b.toks[i].tt {
			case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
				depth++
			case css.RightParenthesisToken, css.RightBracketToken:
				if depth > 0 {
					depth--
				}
			}
			if b.toks[i].tt != css.CommaToken || depth > 0 {
				continue
			}
		}
		sel, g := splitTrivia(b.toks[from:i])
		rule.Selectors = append(rule.Selectors, sel)
		rule.gaps = append(rule.gaps, g)
		from = i + 1
	}
	return rule
}

// splitTrivia separates leading and trailing whitespace and comments from a
// selector.
func splitTrivia(toks []token) (string, gap) {
	lo, hi := 0, len(toks)
	for lo < hi && isTrivia(toks[lo].tt) {
		lo++
	}
	for hi > lo && isTrivia(toks[hi-1].tt) {
		hi--
	}

	var sb strings.Builder
	var g gap
	for _, t := range toks[:lo] {
		g.before += t.data
	}
	for _, t := range toks[lo:hi] {
		sb.WriteString(t.data)
	}
	for _, t := range toks[hi:] {
		g.after += t.data
	}
	return sb.String(), g
}

func isTrivia(tt css.TokenType) bool {
	switch tt {
	case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken:
		return true
	}
	return false
}
