package tree

import (
	"github.com/beevik/etree"
)

// FromEtree converts parsed markup into a tree owned by the rewriter.
// Elements carrying skipAttr (when not empty) become foreign together with
// their subtrees, as do comments, CDATA sections, processing instructions
// and directives.
func FromEtree(el *etree.Element, skipAttr string) Node {
	if el == nil {
		return nil
	}
	if skipAttr != "" && el.SelectAttr(skipAttr) != nil {
		return &Foreign{Token: el}
	}

	out := &Element{
		Tag:      qualified(el.Space, el.Tag),
		Attrs:    make([]Attr, 0, len(el.Attr)),
		Children: make([]Node, 0, len(el.Child)),
	}
	for _, a := range el.Attr {
		out.Attrs = append(out.Attrs, Attr{Key: qualified(a.Space, a.Key), Value: a.Value})
	}
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			out.Children = append(out.Children, FromEtree(t, skipAttr))
		case *etree.CharData:
			if t.IsCData() {
				out.Children = append(out.Children, &Foreign{Token: t})
			} else {
				out.Children = append(out.Children, Text(t.Data))
			}
		default:
			out.Children = append(out.Children, &Foreign{Token: tok})
		}
	}
	return out
}

func qualified(space, name string) string {
	if space == "" {
		return name
	}
	return space + ":" + name
}
