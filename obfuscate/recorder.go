package obfuscate

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/maruel/natural"
	yaml "gopkg.in/yaml.v3"
)

// Recorder collects every name -> token pair produced through it, so the
// mapping can be published next to the rewritten files.
type Recorder struct {
	mu      sync.Mutex
	mapping map[string]string
}

func NewRecorder() *Recorder {
	return &Recorder{mapping: make(map[string]string)}
}

// Wrap returns fn which also records its results.
func (r *Recorder) Wrap(fn Func) Func {
	return func(name string) string {
		token := fn(name)
		r.mu.Lock()
		r.mapping[name] = token
		r.mu.Unlock()
		return token
	}
}

// Len returns number of distinct names recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mapping)
}

// Names returns recorded names in natural order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.mapping))
	for name := range r.mapping {
		names = append(names, name)
	}
	r.mu.Unlock()

	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return names
}

// Token returns recorded token for name.
func (r *Recorder) Token(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.mapping[name]
	return token, ok
}

// WriteTo writes the mapping as a YAML document with keys in natural order.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range r.Names() {
		token, _ := r.Token(name)
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: token, Style: yaml.DoubleQuotedStyle},
		)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("unable to marshal class mapping: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}
