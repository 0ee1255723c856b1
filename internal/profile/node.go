package profile

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tags the shape of a document Node.
type Kind uint8

const (
	ScalarKind Kind = iota + 1
	MappingKind
	SequenceKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case MappingKind:
		return "mapping"
	case SequenceKind:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is a document value: exactly one of a scalar, an ordered mapping or a
// sequence. Accessors report whether the node has the requested shape.
type Node struct {
	kind    Kind
	value   string
	entries []Entry
	items   []Node
	line    int
}

// Entry is one key/value pair of a mapping, in document order.
type Entry struct {
	Key   string
	Value Node
}

func NewScalar(s string) Node { return Node{kind: ScalarKind, value: s} }

func NewMapping(entries ...Entry) Node { return Node{kind: MappingKind, entries: entries} }

func NewSequence(items ...Node) Node { return Node{kind: SequenceKind, items: items} }

func (n Node) Kind() Kind { return n.kind }

// Line is the 1-based document line, or 0 for nodes built in code.
func (n Node) Line() int { return n.line }

func (n Node) Scalar() (string, bool) {
	return n.value, n.kind == ScalarKind
}

func (n Node) Entries() ([]Entry, bool) {
	return n.entries, n.kind == MappingKind
}

func (n Node) Items() ([]Node, bool) {
	return n.items, n.kind == SequenceKind
}

// Get looks up key in a mapping node. Parsed documents never repeat a key;
// for mappings built in code the first occurrence wins.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != MappingKind {
		return Node{}, false
	}
	for _, e := range n.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Node{}, false
}

// String renders scalars verbatim and collections by shape, for messages.
func (n Node) String() string {
	switch n.kind {
	case ScalarKind:
		return n.value
	case SequenceKind:
		parts := make([]string, len(n.items))
		for i, it := range n.items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "<" + n.kind.String() + ">"
	}
}

// fromYAML converts a decoded yaml.v3 tree, following aliases.
func fromYAML(y *yaml.Node) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewMapping(), nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		if y.Alias == nil {
			return Node{}, fmt.Errorf("line %d: dangling alias", y.Line)
		}
		return fromYAML(y.Alias)
	case yaml.ScalarNode:
		n := NewScalar(y.Value)
		if y.Tag == "!!null" {
			n.value = ""
		}
		n.line = y.Line
		return n, nil
	case yaml.SequenceNode:
		items := make([]Node, 0, len(y.Content))
		for _, c := range y.Content {
			it, err := fromYAML(c)
			if err != nil {
				return Node{}, err
			}
			items = append(items, it)
		}
		n := NewSequence(items...)
		n.line = y.Line
		return n, nil
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(y.Content)/2)
		seen := make(map[string]int, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, err := fromYAML(y.Content[i])
			if err != nil {
				return Node{}, err
			}
			key, ok := k.Scalar()
			if !ok {
				return Node{}, fmt.Errorf("line %d: mapping key must be a scalar, got %s", y.Content[i].Line, k.Kind())
			}
			if first, dup := seen[key]; dup {
				return Node{}, fmt.Errorf("line %d: duplicate key %q, first defined on line %d", y.Content[i].Line, key, first)
			}
			seen[key] = y.Content[i].Line
			v, err := fromYAML(y.Content[i+1])
			if err != nil {
				return Node{}, err
			}
			entries = append(entries, Entry{Key: key, Value: v})
		}
		n := NewMapping(entries...)
		n.line = y.Line
		return n, nil
	default:
		return Node{}, fmt.Errorf("line %d: unsupported yaml node kind %d", y.Line, y.Kind)
	}
}
