package css_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssobf/css"
)

const complexCSS = `@charset "utf-8";
@import url("base.css");

/* header */
.Foo .Bar[attr='val'].Bar--module:hover {
  background-color: 'red';
}
ul li .Bar--module.Bar:visited,
  h1 > .title ,a[href="x,y"] { color: green; }

@media screen and (min-width: 600px) {
  .Foo { margin: 0 }
  @supports (display: grid) {
    .grid:not(.a, .b) { display: grid; }
  }
}

@keyframes spin {
  from { transform: rotate(0deg); }
  to { transform: rotate(360deg); }
}

@font-face { font-family: "X"; src: url(x.woff); }
p::before { content: "{ .not-a-rule }"; }
`

func TestParser_RoundTrip(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	inputs := map[string]string{
		"complex":        complexCSS,
		"empty":          "",
		"whitespace":     "  \n\t ",
		"comment only":   "/* nothing */",
		"unterminated":   ".a { color: red",
		"stray brace":    "} .a { }",
		"garbage":        ".a { } @media { .b { }",
		"no block":       ".a, .b",
		"nested braces":  ".a { & .b { color: red } }",
		"cdo cdc":        "<!-- .a { } -->",
		"bad string":     ".a { content: \"oops\n }",
		"semicolons":     ";;.a{};",
		"unicode":        ".ünï { content: '→' }",
		"escapes":        `.a\.b, .\31 0 { }`,
		"windows eol":    ".a {\r\n color: red;\r\n}\r\n",
		"important":      ".a{color:red!important}",
		"attribute only": "[data-x] { }",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			sheet := p.Parse([]byte(input), name)
			if got := sheet.String(); got != input {
				t.Errorf("round trip mismatch:\n got: %q\nwant: %q", got, input)
			}
		})
	}
}

func TestParser_Rules(t *testing.T) {
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(complexCSS))

	rules := sheet.Rules()
	want := []struct {
		selectors []string
		atRules   []string
		line      int
	}{
		{[]string{".Foo .Bar[attr='val'].Bar--module:hover"}, nil, 5},
		{[]string{"ul li .Bar--module.Bar:visited", "h1 > .title", `a[href="x,y"]`}, nil, 8},
		{[]string{".Foo"}, []string{"@media"}, 12},
		{[]string{".grid:not(.a, .b)"}, []string{"@media", "@supports"}, 14},
		{[]string{"p::before"}, nil, 24},
	}
	if len(rules) != len(want) {
		for _, r := range rules {
			t.Logf("rule: %q", r.Selectors)
		}
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, w := range want {
		r := rules[i]
		if strings.Join(r.Selectors, "|") != strings.Join(w.selectors, "|") {
			t.Errorf("rule %d selectors = %q, want %q", i, r.Selectors, w.selectors)
		}
		if strings.Join(r.AtRules, "|") != strings.Join(w.atRules, "|") {
			t.Errorf("rule %d at-rules = %q, want %q", i, r.AtRules, w.atRules)
		}
		if r.Line != w.line {
			t.Errorf("rule %d line = %d, want %d", i, r.Line, w.line)
		}
	}

	if rules[4].Block != `{ content: "{ .not-a-rule }"; }` {
		t.Errorf("unexpected block: %q", rules[4].Block)
	}
	if len(sheet.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", sheet.Warnings)
	}
}

func TestParser_Warnings(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	sheet := p.Parse([]byte("} .a { color: red"))
	if len(sheet.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", sheet.Warnings)
	}
	if len(sheet.Rules()) != 1 {
		t.Errorf("expected unterminated rule to be kept, got %d rules", len(sheet.Rules()))
	}
}

func TestRule_SetSelectors(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte("a ,\n  b\t{x:y}"))
	rule := sheet.Rules()[0]
	rule.SetSelectors([]string{"A", "B"})
	if got := sheet.String(); got != "A ,\n  B\t{x:y}" {
		t.Errorf("same length spacing not kept: %q", got)
	}

	rule.SetSelectors([]string{"A", "B", "C"})
	if got := sheet.String(); got != "A, B, C\t{x:y}" {
		t.Errorf("new list spacing: %q", got)
	}

	rule.SetSelectors(nil)
	if got := sheet.String(); got != "{x:y}" {
		t.Errorf("empty list: %q", got)
	}
}

func TestStylesheet_WalkRules(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	sheet := p.Parse([]byte(".a{} .b{} .c{}"))

	var visited []string
	stop := errors.New("stop")
	err := sheet.WalkRules(func(r *css.Rule) error {
		visited = append(visited, r.Selectors[0])
		if r.Selectors[0] == ".b" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("WalkRules() error = %v, want stop", err)
	}
	if strings.Join(visited, ",") != ".a,.b" {
		t.Errorf("visited = %v", visited)
	}
}

func TestStylesheet_Dump(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	dump := p.Parse([]byte("/* c */\n@media print { .a, .b { x: y } }\n} ")).Dump()

	for _, want := range []string{
		`raw: "/* c */\n`,
		"rule line 2 in @media\n",
		`  selector: ".a"` + "\n",
		`  selector: ".b"` + "\n",
		`  block: "{ x: y }"` + "\n",
		`warning: "`,
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump does not contain %q:\n%s", want, dump)
		}
	}
}
