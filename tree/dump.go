package tree

import (
	"github.com/beevik/etree"

	"cssobf/utils/debug"
)

// Dump returns indented description of n without instantiating components.
func Dump(n Node) string {
	tw := debug.NewTreeWriter()
	dump(tw, n, 0)
	return tw.String()
}

func dump(tw *debug.TreeWriter, n Node, depth int) {
	switch n := n.(type) {
	case nil:
		tw.Line(depth, "nil")
	case Text:
		tw.TextBlock(depth, "text", string(n))
	case *Element:
		if n.sealed {
			tw.Line(depth, "element %s (rewritten)", n.Tag)
		} else {
			tw.Line(depth, "element %s", n.Tag)
		}
		for _, a := range n.Attrs {
			tw.TextBlock(depth+1, "@"+a.Key, a.Value)
		}
		for _, child := range n.Children {
			dump(tw, child, depth+1)
		}
	case *Component:
		name := "<anonymous>"
		if n.Def != nil && n.Def.Name != "" {
			name = n.Def.Name
		}
		if n.rewrite != nil {
			tw.Line(depth, "component %s (rewritten)", name)
		} else {
			tw.Line(depth, "component %s", name)
		}
		for _, a := range n.Props.Attrs {
			tw.TextBlock(depth+1, "@"+a.Key, a.Value)
		}
		for _, child := range n.Props.Children {
			dump(tw, child, depth+1)
		}
	case *Foreign:
		tw.Line(depth, "foreign")
		if n.Token == nil {
			dump(tw, n.Node, depth+1)
			return
		}
		switch t := n.Token.(type) {
		case *etree.Element:
			tw.Line(depth+1, "markup %s", t.FullTag())
		case *etree.CharData:
			tw.TextBlock(depth+1, "cdata", t.Data)
		case *etree.Comment:
			tw.TextBlock(depth+1, "comment", t.Data)
		default:
			tw.Line(depth+1, "token %T", t)
		}
	}
}
