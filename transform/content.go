package transform

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"cssobf/css"
	"cssobf/cssplugin"
	"cssobf/obfuscate"
	"cssobf/tree"
)

var (
	charsetRule = regexp.MustCompile(`^(\xEF\xBB\xBF)?@charset\s+["'][^"']*["']\s*;`)
	xmlEncoding = regexp.MustCompile(`encoding\s*=\s*["'][^"']*["']`)
)

// engine rewrites content of individual files. Stylesheets and markup share
// single obfuscation function so both get the same tokens.
type engine struct {
	log       *zap.Logger
	css       *css.Processor
	tree      *tree.Rewriter
	skipAttr  string
	cssExt    []string
	markupExt []string
	codePage  encoding.Encoding
	overwrite bool
}

type engineOptions struct {
	skipAttr  string
	cssExt    []string
	markupExt []string
	codePage  encoding.Encoding
	overwrite bool
	names     *obfuscate.Recorder
}

func newEngine(cfg obfuscate.Config, opts engineOptions, log *zap.Logger) (*engine, error) {
	name, err := obfuscate.New(cfg)
	if err != nil {
		return nil, err
	}
	if opts.names != nil {
		name = opts.names.Wrap(name)
	}
	return &engine{
		log:       log,
		css:       css.NewProcessor(log, cssplugin.NewWithFunc(name, log)),
		tree:      tree.NewWithFunc(name),
		skipAttr:  opts.skipAttr,
		cssExt:    opts.cssExt,
		markupExt: opts.markupExt,
		codePage:  opts.codePage,
		overwrite: opts.overwrite,
	}, nil
}

func (e *engine) kind(name string) fileKind {
	return kindOf(name, e.cssExt, e.markupExt)
}

// rewrite dispatches by file kind, other files are returned unchanged.
func (e *engine) rewrite(name string, data []byte) ([]byte, error) {
	switch e.kind(name) {
	case kindStylesheet:
		return e.rewriteStylesheet(name, data)
	case kindMarkup:
		return e.rewriteMarkup(name, data)
	}
	return data, nil
}

// rewriteStylesheet decodes stylesheet from configured code page (if any) and
// runs it through the CSS pipeline. Result is always UTF-8.
func (e *engine) rewriteStylesheet(name string, data []byte) ([]byte, error) {
	if e.codePage != nil {
		decoded, err := e.codePage.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("unable to decode stylesheet: %w", err)
		}
		data = charsetRule.ReplaceAll(decoded, []byte(`@charset "UTF-8";`))
	}
	return e.css.Process(data, name)
}

// rewriteMarkup rewrites class attributes and inline stylesheets of XML
// based markup.
func (e *engine) rewriteMarkup(name string, data []byte) ([]byte, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        xml.HTMLEntity,
		Permissive:    true,
		PreserveCData: true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse markup: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("markup has no root element")
	}

	for _, style := range root.FindElements("//style") {
		if e.skipped(style) {
			continue
		}
		if err := e.rewriteStyleElement(name, style); err != nil {
			return nil, err
		}
	}

	holder := etree.NewElement("holder")
	if err := tree.Append(holder, e.tree.Rewrite(tree.FromEtree(root, e.skipAttr))); err != nil {
		return nil, fmt.Errorf("unable to build markup: %w", err)
	}
	doc.SetRoot(holder.ChildElements()[0])

	// content was converted to UTF-8 on read
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = xmlEncoding.ReplaceAllString(pi.Inst, `encoding="UTF-8"`)
		}
	}
	return doc.WriteToBytes()
}

func (e *engine) rewriteStyleElement(name string, style *etree.Element) error {
	cdata := false
	if len(style.Child) > 0 {
		if cd, ok := style.Child[0].(*etree.CharData); ok {
			cdata = cd.IsCData()
		}
	}
	out, err := e.css.Process([]byte(style.Text()), name+"#style")
	if err != nil {
		return err
	}
	if cdata {
		style.SetCData(string(out))
	} else {
		style.SetText(string(out))
	}
	e.log.Debug("Inline stylesheet rewritten", zap.String("file", name))
	return nil
}

// skipped reports whether el is inside a subtree marked as not ours.
func (e *engine) skipped(el *etree.Element) bool {
	if e.skipAttr == "" {
		return false
	}
	for ; el != nil; el = el.Parent() {
		if el.SelectAttr(e.skipAttr) != nil {
			return true
		}
	}
	return false
}
