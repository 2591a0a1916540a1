package css

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

// Plugin transforms a parsed stylesheet in place.
type Plugin interface {
	Name() string
	Transform(sheet *Stylesheet) error
}

// Processor runs stylesheets through parser, plugins and printer.
type Processor struct {
	log     *zap.Logger
	parser  *Parser
	plugins []Plugin
}

// NewProcessor creates a processor applying plugins in the given order.
func NewProcessor(log *zap.Logger, plugins ...Plugin) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		log:     log.Named("css-processor"),
		parser:  NewParser(log),
		plugins: plugins,
	}
}

// Use appends plugin to the pipeline.
func (p *Processor) Use(plugin Plugin) *Processor {
	p.plugins = append(p.plugins, plugin)
	return p
}

// Process parses data, applies all plugins and returns resulting CSS text.
func (p *Processor) Process(data []byte, source string) ([]byte, error) {
	sheet := p.parser.Parse(data, source)
	for _, w := range sheet.Warnings {
		p.log.Debug("CSS warning", zap.String("source", source), zap.String("warning", w))
	}
	if ce := p.log.Check(zap.DebugLevel, "Parsed stylesheet"); ce != nil {
		ce.Write(zap.String("source", source), zap.String("structure", sheet.Dump()))
	}

	for _, plugin := range p.plugins {
		if err := plugin.Transform(sheet); err != nil {
			return nil, fmt.Errorf("plugin %s failed on %s: %w", plugin.Name(), source, err)
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	if _, err := sheet.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("unable to print stylesheet %s: %w", source, err)
	}
	return buf.Bytes(), nil
}
