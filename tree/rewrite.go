package tree

import (
	"strings"

	"cssobf/obfuscate"
)

// Rewriter replaces class names in trees it owns.
type Rewriter struct {
	name obfuscate.Func
}

// New returns rewriter configured with cfg.
func New(cfg obfuscate.Config) (*Rewriter, error) {
	name, err := obfuscate.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithFunc(name), nil
}

// NewWithFunc returns rewriter using already configured obfuscation function.
func NewWithFunc(name obfuscate.Func) *Rewriter {
	return &Rewriter{name: name}
}

// ObfuscateClassNames is the function form of the rewriter.
func ObfuscateClassNames(cfg obfuscate.Config) (func(Node) Node, error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return r.Rewrite, nil
}

// Rewrite returns a copy of n with class names replaced. Foreign subtrees
// and nodes produced by an earlier rewrite are returned as is.
func (r *Rewriter) Rewrite(n Node) Node {
	return r.rewrite(n, r.name.Memoize())
}

// Annotate returns definition every instantiation of which is rewritten.
func (r *Rewriter) Annotate(def *Definition) *Definition {
	return &Definition{
		Name: def.Name,
		Render: func(props Props) Node {
			return r.Rewrite(def.Render(props))
		},
	}
}

func (r *Rewriter) rewrite(n Node, name obfuscate.Func) Node {
	switch n := n.(type) {
	case *Element:
		if n == nil || n.sealed {
			return n
		}
		out := &Element{
			Tag:      n.Tag,
			Attrs:    make([]Attr, len(n.Attrs)),
			Children: make([]Node, len(n.Children)),
			sealed:   true,
		}
		for i, a := range n.Attrs {
			if a.Key == ClassAttr {
				a.Value = rewriteClass(a.Value, name)
			}
			out.Attrs[i] = a
		}
		for i, child := range n.Children {
			out.Children[i] = r.rewrite(child, name)
		}
		return out

	case *Component:
		if n == nil || n.rewrite != nil {
			return n
		}
		// children declared in props reach the instantiated tree and are
		// rewritten there
		return &Component{Def: n.Def, Props: n.Props, rewrite: r.Rewrite}

	default:
		// Text, *Foreign and nil
		return n
	}
}

// rewriteClass maps every name of a class list keeping order and duplicates.
func rewriteClass(value string, name obfuscate.Func) string {
	names := strings.Fields(value)
	for i, n := range names {
		names[i] = name(n)
	}
	return strings.Join(names, " ")
}
