// Package cssplugin plugs the selector rewriter into the stylesheet
// processing pipeline of package css.
package cssplugin

import (
	"go.uber.org/zap"

	"cssobf/css"
	"cssobf/obfuscate"
	"cssobf/selector"
)

// Name is the plugin name reported to the pipeline.
const Name = "obfuscate-class-names"

// Plugin rewrites class names in selectors of every style rule. Declarations
// and everything outside selector lists are left untouched.
type Plugin struct {
	log  *zap.Logger
	name obfuscate.Func
}

var _ css.Plugin = (*Plugin)(nil)

// New returns plugin configured with cfg. Invalid configuration is reported
// immediately.
func New(cfg obfuscate.Config, log *zap.Logger) (*Plugin, error) {
	name, err := obfuscate.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithFunc(name, log), nil
}

// NewWithFunc returns plugin using already configured obfuscation function,
// so callers can share a recorder between stylesheets and markup.
func NewWithFunc(name obfuscate.Func, log *zap.Logger) *Plugin {
	if log == nil {
		log = zap.NewNop()
	}
	return &Plugin{log: log.Named("css-obfuscate"), name: name}
}

func (p *Plugin) Name() string {
	return Name
}

// Transform rewrites selector lists in place.
func (p *Plugin) Transform(sheet *css.Stylesheet) error {
	name := p.name.Memoize()

	var rules, selectors int
	err := sheet.WalkRules(func(rule *css.Rule) error {
		rewritten := make([]string, len(rule.Selectors))
		for i, sel := range rule.Selectors {
			rewritten[i] = selector.Rewrite(sel, name)
		}
		rule.SetSelectors(rewritten)
		rules++
		selectors += len(rewritten)
		return nil
	})
	p.log.Debug("Selectors rewritten", zap.Int("rules", rules), zap.Int("selectors", selectors))
	return err
}
