// Package tree rewrites class names in component trees.
//
// A tree is built from four kinds of nodes. Elements and text are plain
// markup. Components are composite nodes which are not instantiated yet: the
// rewriter owns them and can arrange for their output to be rewritten.
// Foreign nodes wrap subtrees built by somebody else; they are never
// modified.
package tree

import (
	"strings"

	"github.com/beevik/etree"
)

// Node is one of *Element, Text, *Component or *Foreign.
type Node interface {
	isNode()
}

// Attr is a single element attribute. Key may carry a namespace prefix.
type Attr struct {
	Key   string
	Value string
}

// ClassAttr is the attribute holding space separated class names.
const ClassAttr = "class"

// Element is a primitive element with ordered attributes and children.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node

	// sealed elements were produced by a rewrite and are not processed again
	sealed bool
}

// E builds an element, see A for attributes.
func E(tag string, attrs []Attr, children ...Node) *Element {
	return &Element{Tag: tag, Attrs: attrs, Children: children}
}

// A turns key, value pairs into attributes. A dangling key gets empty value.
func A(kv ...string) []Attr {
	attrs := make([]Attr, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		a := Attr{Key: kv[i]}
		if i+1 < len(kv) {
			a.Value = kv[i+1]
		}
		attrs = append(attrs, a)
	}
	return attrs
}

// Attr returns value of the attribute with given key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Class returns class attribute.
func (e *Element) Class() (string, bool) {
	return e.Attr(ClassAttr)
}

// SetClass sets class attribute, keeping its position if present.
func (e *Element) SetClass(value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == ClassAttr {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: ClassAttr, Value: value})
}

// ClassNames splits class attribute into individual names.
func (e *Element) ClassNames() []string {
	v, _ := e.Class()
	return strings.Fields(v)
}

func (*Element) isNode() {}

// Text is character data.
type Text string

func (Text) isNode() {}

// Props are the inputs of a component instantiation.
type Props struct {
	Attrs    []Attr
	Children []Node
}

// Attr returns value of the named prop.
func (p Props) Attr(key string) (string, bool) {
	for _, a := range p.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Definition describes a composite node: Render produces its tree from props.
type Definition struct {
	Name   string
	Render func(Props) Node
}

// New declares an instance of the definition without instantiating it.
func (d *Definition) New(props Props) *Component {
	return &Component{Def: d, Props: props}
}

// Component is a declared, not yet instantiated composite node.
type Component struct {
	Def   *Definition
	Props Props

	// rewrite is applied to the instantiated tree
	rewrite func(Node) Node
}

// Instantiate renders the component into its tree.
func (c *Component) Instantiate() Node {
	if c.Def == nil || c.Def.Render == nil {
		return nil
	}
	out := c.Def.Render(c.Props)
	if c.rewrite != nil {
		out = c.rewrite(out)
	}
	return out
}

func (*Component) isNode() {}

// Foreign is an opaque subtree the rewriter does not own. Exactly one of Node
// or Token is set: Node for trees built elsewhere, Token for markup taken
// from a parsed document.
type Foreign struct {
	Node  Node
	Token etree.Token
}

func (*Foreign) isNode() {}
