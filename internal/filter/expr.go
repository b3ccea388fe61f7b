package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Operator joins the operands of a Compound expression.
type Operator string

const (
	And Operator = "and"
	Or  Operator = "or"
)

// Valid reports whether o is a known combinator.
func (o Operator) Valid() bool {
	return o == And || o == Or
}

// Expression is a filter: a single Predicate or a Compound of expressions.
// Expressions are values; combining them never mutates an existing tree.
type Expression interface {
	json.Marshaler
	isExpression()
}

// Predicate compares one property against a value.
//
// Timestamp predicates target the page's created_time or last_edited_time
// instead of a named property; Property is empty for them.
type Predicate struct {
	Property  string
	Timestamp bool
	Type      PropertyType
	Field     string
	Value     any
}

func (Predicate) isExpression() {}

// MarshalJSON renders {"property": name, type: {field: value}}.
func (p Predicate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p.Timestamp {
		buf.WriteString(`"timestamp":`)
		if err := writeJSON(&buf, string(p.Type)); err != nil {
			return nil, err
		}
	} else {
		buf.WriteString(`"property":`)
		if err := writeJSON(&buf, p.Property); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(',')
	if err := writeJSON(&buf, string(p.Type)); err != nil {
		return nil, err
	}
	buf.WriteString(":{")
	if err := writeJSON(&buf, p.Field); err != nil {
		return nil, err
	}
	buf.WriteByte(':')
	if err := writeJSON(&buf, p.Value); err != nil {
		return nil, err
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// Compound joins operands with an operator.
type Compound struct {
	Operator Operator
	Operands []Expression
}

func (Compound) isExpression() {}

// With returns a new Compound with e appended. The receiver is unchanged.
func (c Compound) With(e Expression) Compound {
	operands := make([]Expression, 0, len(c.Operands)+1)
	operands = append(operands, c.Operands...)
	operands = append(operands, e)
	return Compound{Operator: c.Operator, Operands: operands}
}

// MarshalJSON renders {"and": [...]} or {"or": [...]}.
func (c Compound) MarshalJSON() ([]byte, error) {
	operands := c.Operands
	if operands == nil {
		operands = []Expression{}
	}
	return json.Marshal(map[string][]Expression{string(c.Operator): operands})
}

// Parse decodes a filter in wire form.
func Parse(data []byte) (Expression, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("filter must be a JSON object: %w", err)
	}
	return parseObject(fields)
}

func parseObject(fields map[string]json.RawMessage) (Expression, error) {
	for _, op := range []Operator{And, Or} {
		raw, ok := fields[string(op)]
		if !ok {
			continue
		}
		if len(fields) != 1 {
			return nil, fmt.Errorf("%q filter must not have sibling keys", op)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%q must be an array: %w", op, err)
		}
		c := Compound{Operator: op, Operands: make([]Expression, 0, len(items))}
		for i, item := range items {
			e, err := Parse(item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
			}
			c.Operands = append(c.Operands, e)
		}
		return c, nil
	}
	p, err := parsePredicate(fields)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parsePredicate(fields map[string]json.RawMessage) (Predicate, error) {
	var p Predicate
	var typeKey string
	switch {
	case fields["property"] != nil:
		name, err := stringField(fields, "property")
		if err != nil {
			return p, err
		}
		p.Property = name
		var others []string
		for k := range fields {
			if k != "property" {
				others = append(others, k)
			}
		}
		if len(others) != 1 {
			sort.Strings(others)
			return p, fmt.Errorf("property filter %q needs exactly one type key, got %v", p.Property, others)
		}
		typeKey = others[0]
	case fields["timestamp"] != nil:
		p.Timestamp = true
		kind, err := stringField(fields, "timestamp")
		if err != nil {
			return p, err
		}
		typeKey = kind
	default:
		return p, fmt.Errorf("filter needs \"and\", \"or\", \"property\" or \"timestamp\"")
	}
	p.Type = PropertyType(typeKey)

	var cond map[string]any
	if err := json.Unmarshal(fields[typeKey], &cond); err != nil || cond == nil {
		return p, fmt.Errorf("%q condition must be an object", typeKey)
	}
	if len(cond) != 1 {
		return p, fmt.Errorf("%q condition needs exactly one field", typeKey)
	}
	for field, value := range cond {
		p.Field = field
		p.Value = value
	}
	return p, nil
}

// stringField decodes a required, non-empty string member.
func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	var v *string
	if err := json.Unmarshal(fields[key], &v); err != nil || v == nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if *v == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return *v, nil
}

// Session is the state of an interactive build: the expression so far and
// the combinator, once chosen. Each step returns a new Session.
type Session struct {
	Expr     Expression
	Operator Operator
}

// NeedsOperator reports whether a combinator must be chosen before the next
// predicate is added.
func (s Session) NeedsOperator() bool {
	return s.Expr != nil && s.Operator == ""
}

// Combine locks in op and wraps the current expression as its first operand.
// It is a no-op once a combinator has been chosen.
func (s Session) Combine(op Operator) Session {
	if s.Operator != "" || s.Expr == nil {
		return s
	}
	return Session{
		Expr:     Compound{Operator: op, Operands: []Expression{s.Expr}},
		Operator: op,
	}
}

// Add appends e: it becomes the whole expression when the session is empty,
// otherwise a new operand of the active combinator. Adding to a single
// predicate without a combinator defaults to And.
func (s Session) Add(e Expression) Session {
	if s.Expr == nil {
		return Session{Expr: e}
	}
	if s.NeedsOperator() {
		s = s.Combine(And)
	}
	c, ok := s.Expr.(Compound)
	if !ok {
		c = Compound{Operator: s.Operator, Operands: []Expression{s.Expr}}
	}
	return Session{Expr: c.With(e), Operator: s.Operator}
}
