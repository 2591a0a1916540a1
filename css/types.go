package css

import (
	"io"
	"strings"
)

// groupAtRules are at-rules whose blocks contain further style rules.
var groupAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@document":  true,
	"@layer":     true,
	"@container": true,
	"@scope":     true,
}

// gap keeps whitespace and comments surrounding a selector in the list.
type gap struct {
	before, after string
}

// Rule is a style rule: a selector list followed by a declaration block.
type Rule struct {
	Selectors []string // Selector list split on top-level commas, trimmed
	Block     string   // Declaration block including braces, verbatim
	AtRules   []string // Enclosing group at-rules, outermost first (e.g. "@media")
	Line      int      // Line number of the first selector in source

	gaps []gap
}

// SetSelectors replaces the selector list. When the number of selectors is
// unchanged original spacing is retained.
func (r *Rule) SetSelectors(selectors []string) {
	if len(selectors) != len(r.gaps) {
		var last gap
		if len(r.gaps) > 0 {
			last = r.gaps[len(r.gaps)-1]
		}
		gaps := make([]gap, len(selectors))
		for i := range gaps {
			if i > 0 {
				gaps[i].before = " "
			}
		}
		if len(gaps) > 0 {
			gaps[len(gaps)-1].after = last.after
		}
		r.gaps = gaps
	}
	r.Selectors = selectors
}

// SelectorText returns selector list as it will be written out.
func (r *Rule) SelectorText() string {
	var sb strings.Builder
	for i, sel := range r.Selectors {
		if i > 0 {
			sb.WriteByte(',')
		}
		var g gap
		if i < len(r.gaps) {
			g = r.gaps[i]
		}
		sb.WriteString(g.before)
		sb.WriteString(sel)
		sb.WriteString(g.after)
	}
	return sb.String()
}

// String returns CSS text of the rule.
func (r *Rule) String() string {
	return r.SelectorText() + r.Block
}

// StylesheetItem is a single item in a stylesheet.
// Exactly one of Raw or Rule is set.
type StylesheetItem struct {
	Raw  string // Text outside style rules (whitespace, comments, at-rules), verbatim
	Rule *Rule  // A style rule
}

// Stylesheet represents a parsed CSS stylesheet. Writing an unmodified
// stylesheet reproduces its source byte for byte.
type Stylesheet struct {
	Items    []StylesheetItem // All items in source order
	Warnings []string         // Recoverable problems found while parsing
}

// Rules returns all style rules, including rules nested in group at-rules,
// in source order.
func (s *Stylesheet) Rules() []*Rule {
	var rules []*Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, item.Rule)
		}
	}
	return rules
}

// WalkRules calls fn for every style rule in source order. Walking stops at
// the first error.
func (s *Stylesheet) WalkRules(fn func(rule *Rule) error) error {
	for _, item := range s.Items {
		if item.Rule == nil {
			continue
		}
		if err := fn(item.Rule); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, item := range s.Items {
		var (
			n   int
			err error
		)
		switch {
		case item.Rule != nil:
			n, err = io.WriteString(w, item.Rule.String())
		default:
			n, err = io.WriteString(w, item.Raw)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
