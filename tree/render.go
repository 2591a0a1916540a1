package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// maxDepth limits component instantiation chains.
const maxDepth = 256

var ErrTooDeep = errors.New("component nesting is too deep")

// Append instantiates n and adds resulting markup to parent.
func Append(parent *etree.Element, n Node) error {
	return appendNode(parent, n, 0)
}

func appendNode(parent *etree.Element, n Node, depth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}

	switch n := n.(type) {
	case nil:
		return nil

	case Text:
		if n != "" {
			parent.CreateText(string(n))
		}
		return nil

	case *Element:
		if n == nil {
			return nil
		}
		el := parent.CreateElement(n.Tag)
		for _, a := range n.Attrs {
			el.CreateAttr(a.Key, a.Value)
		}
		for _, child := range n.Children {
			if err := appendNode(el, child, depth+1); err != nil {
				return err
			}
		}
		return nil

	case *Component:
		if n == nil {
			return nil
		}
		return appendNode(parent, n.Instantiate(), depth+1)

	case *Foreign:
		if n == nil {
			return nil
		}
		if n.Token != nil {
			appendToken(parent, n.Token)
			return nil
		}
		return appendNode(parent, n.Node, depth+1)

	default:
		return fmt.Errorf("unexpected node type %T", n)
	}
}

// appendToken adds a copy of parsed markup token to parent.
func appendToken(parent *etree.Element, tok etree.Token) {
	switch t := tok.(type) {
	case *etree.Element:
		parent.AddChild(t.Copy())
	case *etree.CharData:
		if t.IsCData() {
			parent.CreateCData(t.Data)
		} else {
			parent.CreateText(t.Data)
		}
	case *etree.Comment:
		parent.CreateComment(t.Data)
	case *etree.ProcInst:
		parent.CreateProcInst(t.Target, t.Inst)
	case *etree.Directive:
		parent.CreateDirective(t.Data)
	}
}

// Render writes markup of n to w.
func Render(w io.Writer, n Node) error {
	doc := etree.NewDocument()
	if err := Append(&doc.Element, n); err != nil {
		return err
	}
	_, err := doc.WriteTo(w)
	return err
}

// RenderString returns markup of n, handy for comparing trees.
func RenderString(n Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
