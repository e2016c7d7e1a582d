package propertypath

import (
	"fmt"
	"go/ast"
	"go/parser"
	"reflect"
	"strings"

	"github.com/jacoelho/pathwatch/internal/stack"
	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"
)

// For extracts the path selected on a root of type T.
func For[T any](selector string) (Path, error) {
	return Parse(reflect.TypeFor[T](), selector)
}

// MustFor is like For but panics on error. It is meant for package-level
// path variables built from constant selectors.
func MustFor[T any](selector string) Path {
	p, err := For[T](selector)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse extracts the path selected on a root of type root. A nil root type
// defers every property check to resolve time.
//
// Selectors starting with "$" are JSONPath queries restricted to child name
// segments; anything else is parsed as a Go selector expression on a single
// identifier, optionally wrapped in a conversion to any.
func Parse(root reflect.Type, selector string) (Path, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Path{}, fmt.Errorf("%w: selector", ErrArgumentRequired)
	}

	var (
		names []string
		err   error
	)
	if strings.HasPrefix(selector, "$") {
		names, err = jsonPathNames(selector)
	} else {
		names, err = goSelectorNames(selector)
	}
	if err != nil {
		return Path{}, err
	}

	segments := make([]Segment, 0, len(names))
	owner := root
	for _, name := range names {
		segments = append(segments, Segment{Name: name, Owner: owner})
		if owner == nil {
			continue
		}

		next, err := propertyType(owner, name)
		if err != nil {
			return Path{}, fmt.Errorf("%s: %w", selector, err)
		}
		owner = next
	}

	return Path{segments: segments}, nil
}

func jsonPathNames(selector string) ([]string, error) {
	p, err := jsonpath.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPathShape, selector, err)
	}

	segments := p.Query().Segments()
	names := make([]string, 0, len(segments))
	for i, seg := range segments {
		if seg.IsDescendant() {
			return nil, fmt.Errorf("%w: %q: descendant segment at position %d", ErrInvalidPathShape, selector, i)
		}

		selectors := seg.Selectors()
		if len(selectors) != 1 {
			return nil, fmt.Errorf("%w: %q: segment %d has %d selectors", ErrInvalidPathShape, selector, i, len(selectors))
		}

		name, ok := selectors[0].(spec.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q: segment %d is not a name selector", ErrInvalidPathShape, selector, i)
		}
		names = append(names, string(name))
	}

	return names, nil
}

func goSelectorNames(selector string) ([]string, error) {
	expr, err := parser.ParseExpr(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPathShape, selector, err)
	}

	expr = unwrapConversion(expr)

	accesses := stack.New[string]()
	for {
		switch e := expr.(type) {
		case *ast.ParenExpr:
			expr = e.X
		case *ast.SelectorExpr:
			accesses.Push(e.Sel.Name)
			expr = e.X
		case *ast.Ident:
			return accesses.Drain(), nil
		default:
			return nil, fmt.Errorf("%w: %q: unexpected %s", ErrInvalidPathShape, selector, describe(e))
		}
	}
}

// unwrapConversion strips a single any(...) or interface{}(...) around the
// whole expression.
func unwrapConversion(expr ast.Expr) ast.Expr {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}
		expr = paren.X
	}

	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 || call.Ellipsis.IsValid() {
		return expr
	}

	switch fun := call.Fun.(type) {
	case *ast.Ident:
		if fun.Name == "any" {
			return call.Args[0]
		}
	case *ast.InterfaceType:
		if fun.Methods == nil || len(fun.Methods.List) == 0 {
			return call.Args[0]
		}
	case *ast.ParenExpr:
		if it, ok := fun.X.(*ast.InterfaceType); ok && (it.Methods == nil || len(it.Methods.List) == 0) {
			return call.Args[0]
		}
	}

	return expr
}

func describe(e ast.Expr) string {
	switch e.(type) {
	case *ast.CallExpr:
		return "method call"
	case *ast.IndexExpr, *ast.IndexListExpr:
		return "index expression"
	case *ast.SliceExpr:
		return "slice expression"
	case *ast.BinaryExpr, *ast.UnaryExpr:
		return "arithmetic expression"
	case *ast.StarExpr:
		return "dereference"
	case *ast.BasicLit, *ast.CompositeLit:
		return "literal"
	case *ast.TypeAssertExpr:
		return "type assertion"
	default:
		return fmt.Sprintf("%T", e)
	}
}
