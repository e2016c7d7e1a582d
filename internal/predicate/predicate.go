// Package predicate evaluates the expectation operators used by scenario
// files against values observed on a property path.
package predicate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/jacoelho/pathwatch/internal/number"
	"github.com/jacoelho/pathwatch/observable"
)

var (
	ErrInvalidInput = errors.New("invalid predicate input")
	ErrUnsupported  = errors.New("unsupported predicate operation")
)

type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpExists      Operator = "exists"
	OpAbsent      Operator = "absent"
	OpContains    Operator = "contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpRegex       Operator = "regex"
	OpLength      Operator = "length"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpIn          Operator = "in"
	OpTypeIs      Operator = "type_is"
)

// Expr is one operator with its expected value. HasValue distinguishes an
// explicit null from a missing value.
type Expr struct {
	Op       Operator
	Value    any
	HasValue bool
}

var operators = []Operator{
	OpEquals, OpNotEquals, OpExists, OpAbsent, OpContains, OpStartsWith, OpEndsWith,
	OpRegex, OpLength, OpGreaterThan, OpLessThan, OpIn, OpTypeIs,
}

// valueless operators take no expected value.
var valueless = []Operator{OpExists, OpAbsent}

var typeNames = []string{"array", "object", "string", "number", "boolean", "null"}

type operationFunc func(actual, expected any) (bool, error)

// Evaluator runs expressions. Compiled regular expressions are kept for the
// evaluator's lifetime; an Evaluator is not safe for concurrent use.
type Evaluator struct {
	patterns   map[string]*regexp.Regexp
	operations map[Operator]operationFunc
}

func NewEvaluator() *Evaluator {
	e := &Evaluator{patterns: make(map[string]*regexp.Regexp)}

	e.operations = map[Operator]operationFunc{
		OpEquals: func(actual, expected any) (bool, error) {
			return Equal(actual, expected), nil
		},
		OpNotEquals: func(actual, expected any) (bool, error) {
			return !Equal(actual, expected), nil
		},
		OpExists: func(actual, _ any) (bool, error) {
			return !observable.IsNil(actual), nil
		},
		OpAbsent: func(actual, _ any) (bool, error) {
			return observable.IsNil(actual), nil
		},
		OpContains:    stringOp(OpContains, strings.Contains),
		OpStartsWith:  stringOp(OpStartsWith, strings.HasPrefix),
		OpEndsWith:    stringOp(OpEndsWith, strings.HasSuffix),
		OpRegex:       e.matchRegex,
		OpLength:      evaluateLength,
		OpGreaterThan: numericOp(OpGreaterThan, func(a, b float64) bool { return a > b }),
		OpLessThan:    numericOp(OpLessThan, func(a, b float64) bool { return a < b }),
		OpIn:          evaluateIn,
		OpTypeIs:      evaluateTypeIs,
	}

	return e
}

// ParseOperator maps the YAML spelling of an operator.
func ParseOperator(input string) (Operator, error) {
	op := Operator(strings.TrimSpace(input))
	if !slices.Contains(operators, op) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, input)
	}
	return op, nil
}

// ValidateExpr checks the operator is known and its value arity matches.
func ValidateExpr(expr Expr) error {
	if _, err := ParseOperator(string(expr.Op)); err != nil {
		return err
	}

	if slices.Contains(valueless, expr.Op) {
		if expr.HasValue {
			return fmt.Errorf("%w: operation %q does not accept a value", ErrInvalidInput, expr.Op)
		}
		return nil
	}

	if !expr.HasValue {
		return fmt.Errorf("%w: operation %q requires a value", ErrInvalidInput, expr.Op)
	}

	if expr.Op == OpTypeIs {
		if _, err := typeName(expr.Value); err != nil {
			return err
		}
	}

	return nil
}

func (e *Evaluator) Evaluate(expr Expr, actual any) (bool, error) {
	if err := ValidateExpr(expr); err != nil {
		return false, err
	}

	return e.operations[expr.Op](actual, expr.Value)
}

// Equal compares deeply and then numerically, so uint64 1 from YAML equals
// int 1 set by code.
func Equal(actual, expected any) bool {
	if observable.IsNil(actual) && observable.IsNil(expected) {
		return true
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}

	a, aok := number.ToFloat64(actual)
	b, bok := number.ToFloat64(expected)
	return aok && bok && a == b
}

func (e *Evaluator) matchRegex(actual, expected any) (bool, error) {
	s, pattern, err := stringPair(OpRegex, actual, expected)
	if err != nil {
		return false, err
	}

	re, ok := e.patterns[pattern]
	if !ok {
		re, err = regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("%w: invalid regex %q: %v", ErrInvalidInput, pattern, err)
		}
		e.patterns[pattern] = re
	}

	return re.MatchString(s), nil
}

func stringOp(op Operator, compare func(s, substr string) bool) operationFunc {
	return func(actual, expected any) (bool, error) {
		s, want, err := stringPair(op, actual, expected)
		if err != nil {
			return false, err
		}
		return compare(s, want), nil
	}
}

func stringPair(op Operator, actual, expected any) (string, string, error) {
	s, ok := actual.(string)
	if !ok {
		return "", "", fmt.Errorf("%w: %q requires string actual value, got %T", ErrInvalidInput, op, actual)
	}
	want, ok := expected.(string)
	if !ok {
		return "", "", fmt.Errorf("%w: %q requires string expected value, got %T", ErrInvalidInput, op, expected)
	}
	return s, want, nil
}

func numericOp(op Operator, compare func(a, b float64) bool) operationFunc {
	return func(actual, expected any) (bool, error) {
		a, aok := number.ToFloat64(actual)
		b, bok := number.ToFloat64(expected)
		if !aok || !bok {
			return false, fmt.Errorf("%w: %q requires numeric values, got %T and %T", ErrInvalidInput, op, actual, expected)
		}
		return compare(a, b), nil
	}
}

// lengther is satisfied by observable.List and other counted collections.
type lengther interface {
	Count() int
}

func evaluateLength(actual, expected any) (bool, error) {
	want, err := number.ToInt(expected)
	if err != nil {
		return false, fmt.Errorf("%w: %q requires integer expected value: %v", ErrInvalidInput, OpLength, err)
	}

	if c, ok := actual.(lengther); ok {
		return c.Count() == want, nil
	}
	if r, ok := actual.(*observable.Record); ok && r != nil {
		return len(r.Keys()) == want, nil
	}

	if actual == nil {
		return false, fmt.Errorf("%w: %q requires a string or collection, got nil", ErrInvalidInput, OpLength)
	}

	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == want, nil
	default:
		return false, fmt.Errorf("%w: %q requires a string or collection, got %T", ErrInvalidInput, OpLength, actual)
	}
}

func evaluateIn(actual, expected any) (bool, error) {
	rv := reflect.ValueOf(expected)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false, fmt.Errorf("%w: %q requires a list expected value, got %T", ErrInvalidInput, OpIn, expected)
	}

	for i := range rv.Len() {
		if Equal(actual, rv.Index(i).Interface()) {
			return true, nil
		}
	}
	return false, nil
}

func evaluateTypeIs(actual, expected any) (bool, error) {
	want, err := typeName(expected)
	if err != nil {
		return false, err
	}
	return TypeOf(actual) == want, nil
}

func typeName(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q requires string expected value, got %T", ErrInvalidInput, OpTypeIs, value)
	}

	name := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(typeNames, name) {
		return "", fmt.Errorf("%w: %q requires one of %v, got %q", ErrInvalidInput, OpTypeIs, typeNames, s)
	}
	return name, nil
}

// TypeOf names the scenario type of value. Property bags and structs are
// objects; counted collections are arrays.
func TypeOf(value any) string {
	if observable.IsNil(value) {
		return "null"
	}
	if _, ok := value.(observable.PropertyBag); ok {
		return "object"
	}
	if _, ok := value.(lengther); ok {
		return "array"
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Array, reflect.Slice:
		return "array"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "object"
	}
}
