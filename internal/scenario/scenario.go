// Package scenario provides the YAML model for observation scenarios: an
// object graph, the paths watched on it and the mutations applied in order.
package scenario

import (
	"errors"
	"fmt"
	"io"

	yaml "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"

	"github.com/jacoelho/pathwatch/internal/predicate"
)

// ErrParser is the sentinel error for all decoding failures.
var ErrParser = errors.New("parser error")

// Scenario is one YAML document.
type Scenario struct {
	Name    string         `yaml:"name"`
	Graph   map[string]any `yaml:"graph"`   // nested mappings become records
	Watches []Watch        `yaml:"watches"` // registered in order
	Steps   []Step         `yaml:"steps"`
}

// Watch registers a path on the graph root.
type Watch struct {
	ID        string   `yaml:"id"`
	Path      string   `yaml:"path"`
	WriteBack bool     `yaml:"write_back,omitempty"` // re-announce the terminal on its owner
	Notify    []string `yaml:"notify,omitempty"`     // further properties to re-announce on change
}

// Step applies one mutation and then checks expectations. Exactly one of Set
// or Announce is present.
type Step struct {
	Set      string   // path whose terminal property is assigned Value
	Value    any      // nested mappings become records
	HasValue bool     // distinguishes "value: null" from a missing value
	Announce string   // path whose terminal name is announced on its owner
	Expect   []Expect // evaluated after the mutation
}

// Expect checks what a watch saw during a step.
type Expect struct {
	Watch     string
	Events    *int
	Predicate predicate.Expr
	HasOp     bool
}

// UnmarshalYAML decodes a step keeping track of an explicit null value.
func (s *Step) UnmarshalYAML(node ast.Node) error {
	mapping, err := mappingOf(node, "step")
	if err != nil {
		return err
	}

	for _, entry := range mapping.Values {
		key, err := keyOf(entry, "step")
		if err != nil {
			return err
		}

		switch key {
		case "set":
			if s.Set, err = stringOf(entry.Value, "step", key); err != nil {
				return err
			}
		case "announce":
			if s.Announce, err = stringOf(entry.Value, "step", key); err != nil {
				return err
			}
		case "value":
			if s.Value, err = nodeToValue(entry.Value); err != nil {
				return fmt.Errorf("%w: step: value: %v", ErrParser, err)
			}
			s.HasValue = true
		case "expect":
			if err := yaml.NodeToValue(entry.Value, &s.Expect); err != nil {
				return fmt.Errorf("%w: step: expect: %v", ErrParser, err)
			}
		default:
			return fmt.Errorf("%w: step: unknown field %q", ErrParser, key)
		}
	}

	return nil
}

// UnmarshalYAML decodes an expectation:
//
//	watch: <id>
//	events: <count>   # optional
//	op: <operator>    # optional
//	value: <any>      # optional only for valueless operators
func (e *Expect) UnmarshalYAML(node ast.Node) error {
	mapping, err := mappingOf(node, "expect")
	if err != nil {
		return err
	}

	for _, entry := range mapping.Values {
		key, err := keyOf(entry, "expect")
		if err != nil {
			return err
		}

		switch key {
		case "watch":
			if e.Watch, err = stringOf(entry.Value, "expect", key); err != nil {
				return err
			}
		case "events":
			n, ok := entry.Value.(*ast.IntegerNode)
			if !ok {
				return fmt.Errorf("%w: expect: events must be an integer", ErrParser)
			}
			v, err := nodeToValue(n)
			if err != nil {
				return fmt.Errorf("%w: expect: events: %v", ErrParser, err)
			}
			count := int(v.(int64))
			e.Events = &count
		case "op":
			op, err := stringOf(entry.Value, "expect", key)
			if err != nil {
				return err
			}
			e.Predicate.Op = predicate.Operator(op)
			e.HasOp = true
		case "value":
			if e.Predicate.Value, err = nodeToValue(entry.Value); err != nil {
				return fmt.Errorf("%w: expect: value: %v", ErrParser, err)
			}
			e.Predicate.HasValue = true
		default:
			return fmt.Errorf("%w: expect: unknown field %q", ErrParser, key)
		}
	}

	return nil
}

// Parse decodes every YAML document in r.
func Parse(r io.Reader) ([]Scenario, error) {
	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())

	var scenarios []Scenario
	for {
		var s Scenario
		err := decoder.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrParser, err)
		}
		scenarios = append(scenarios, s)
	}

	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenario documents", ErrParser)
	}

	return scenarios, nil
}

func mappingOf(node ast.Node, typeName string) (*ast.MappingNode, error) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n, nil
	case *ast.MappingValueNode:
		return &ast.MappingNode{Values: []*ast.MappingValueNode{n}}, nil
	default:
		return nil, fmt.Errorf("%w: %s: expected mapping node", ErrParser, typeName)
	}
}

func keyOf(entry *ast.MappingValueNode, typeName string) (string, error) {
	key, ok := entry.Key.(*ast.StringNode)
	if !ok {
		return "", fmt.Errorf("%w: %s: key must be string", ErrParser, typeName)
	}
	return key.Value, nil
}

func stringOf(node ast.Node, typeName, field string) (string, error) {
	s, ok := node.(*ast.StringNode)
	if !ok {
		return "", fmt.Errorf("%w: %s: %s value must be string", ErrParser, typeName, field)
	}
	return s.Value, nil
}

// nodeToValue extracts plain values from AST nodes. Integers are normalized
// to int64, mappings to map[string]any.
func nodeToValue(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		switch v := n.Value.(type) {
		case int64:
			return v, nil
		case uint64:
			return int64(v), nil
		default:
			return nil, fmt.Errorf("unexpected integer node value type: %T", n.Value)
		}
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.NullNode:
		return nil, nil
	case *ast.SequenceNode:
		result := make([]any, 0, len(n.Values))
		for i, item := range n.Values {
			v, err := nodeToValue(item)
			if err != nil {
				return nil, fmt.Errorf("invalid value at index %d: %w", i, err)
			}
			result = append(result, v)
		}
		return result, nil
	case *ast.MappingNode, *ast.MappingValueNode:
		mapping, err := mappingOf(n, "value")
		if err != nil {
			return nil, err
		}
		result := make(map[string]any, len(mapping.Values))
		for _, entry := range mapping.Values {
			key, err := keyOf(entry, "value")
			if err != nil {
				return nil, err
			}
			v, err := nodeToValue(entry.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid value at key %q: %w", key, err)
			}
			result[key] = v
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported node type: %T", node)
	}
}
