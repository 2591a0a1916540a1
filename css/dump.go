package css

import (
	"strings"

	"cssobf/utils/debug"
)

// Dump returns indented description of stylesheet structure.
func (s *Stylesheet) Dump() string {
	tw := debug.NewTreeWriter()
	for _, item := range s.Items {
		if item.Rule == nil {
			tw.TextBlock(0, "raw", item.Raw)
			continue
		}
		r := item.Rule
		if len(r.AtRules) > 0 {
			tw.Line(0, "rule line %d in %s", r.Line, strings.Join(r.AtRules, " "))
		} else {
			tw.Line(0, "rule line %d", r.Line)
		}
		for _, sel := range r.Selectors {
			tw.TextBlock(1, "selector", sel)
		}
		tw.TextBlock(1, "block", r.Block)
	}
	for _, w := range s.Warnings {
		tw.TextBlock(0, "warning", w)
	}
	return tw.String()
}
