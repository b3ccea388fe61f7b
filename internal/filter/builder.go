package filter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aidanlsb/notion-cli/internal/dates"
)

// Prompter is the interactive collaborator the builder asks questions through.
// Implementations return an error wrapping a cancellation sentinel when the
// user aborts; the builder propagates it unchanged.
type Prompter interface {
	Confirm(message string, defaultYes bool) (bool, error)
	Select(message string, options []string) (string, error)
	MultiSelect(message string, options []string) ([]string, error)
	Input(message, defaultValue string, validate func(string) error) (string, error)
}

// Builder composes a filter expression from a sequence of prompts.
type Builder struct {
	prompt Prompter
	out    io.Writer
	log    logrus.FieldLogger
	now    func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithOutput sets where the finished filter and save results are reported.
func WithOutput(w io.Writer) BuilderOption {
	return func(b *Builder) { b.out = w }
}

// WithLogger sets the logger for recoverable conditions.
func WithLogger(l logrus.FieldLogger) BuilderOption {
	return func(b *Builder) { b.log = l }
}

// WithClock overrides the time source used for relative dates and the
// default save file name.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder asking questions through p.
func NewBuilder(p Prompter, opts ...BuilderOption) *Builder {
	log := logrus.New()
	log.SetOutput(io.Discard)
	b := &Builder{prompt: p, out: io.Discard, log: log, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the interactive session against schema. It returns nil when the
// user adds no predicate.
func (b *Builder) Build(schema []Property) (Expression, error) {
	add, err := b.prompt.Confirm("Add filter?", true)
	if err != nil {
		return nil, err
	}
	if !add {
		return nil, nil
	}

	labels := make([]string, len(schema))
	for i, p := range schema {
		labels[i] = p.Label()
	}

	var s Session
	for {
		if s.NeedsOperator() {
			op, err := b.prompt.Select("Select and/or", []string{string(And), string(Or)})
			if err != nil {
				return nil, err
			}
			s = s.Combine(Operator(op))
			b.log.WithField("operator", op).Debug("combinator chosen")
		}

		label, err := b.prompt.Select("Select a property for filter by", labels)
		if err != nil {
			return nil, err
		}
		prop, ok := lookupProperty(schema, label)
		if !ok {
			return nil, fmt.Errorf("unknown property %q", label)
		}

		fields := FieldsForType(prop.Type)
		if fields == nil {
			b.log.WithFields(logrus.Fields{
				"property": prop.Name,
				"type":     prop.Type,
			}).Warn("selected property is not supported to filter")
			continue
		}

		field, err := b.prompt.Select("Select a field of filter", fields)
		if err != nil {
			return nil, err
		}

		expr, err := b.predicate(prop, field)
		if err != nil {
			return nil, err
		}
		s = s.Add(expr)
		b.log.WithFields(logrus.Fields{
			"property": prop.Name,
			"field":    field,
		}).Debug("predicate added")

		done, err := b.prompt.Confirm("Finish add filter?", true)
		if err != nil {
			return nil, err
		}
		if done {
			return s.Expr, nil
		}
	}
}

// lookupProperty resolves a picker label back to its descriptor by the name
// before " <".
func lookupProperty(schema []Property, label string) (Property, bool) {
	name := label
	if i := strings.Index(label, " <"); i >= 0 {
		name = label[:i]
	}
	for _, p := range schema {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// predicate collects the value for field and builds the expression.
func (b *Builder) predicate(prop Property, field string) (Expression, error) {
	base := Predicate{Property: prop.Name, Type: prop.Type, Field: field}
	switch {
	case IsEmptinessField(field):
		base.Value = true
		return base, nil
	case IsRelativeDateField(field):
		base.Value = map[string]any{}
		return base, nil
	}

	switch shape := ShapeOf(prop.Type); shape {
	case ShapeText:
		v, err := b.prompt.Input("Value", "", requireText)
		if err != nil {
			return nil, err
		}
		base.Value = v
	case ShapeNumber:
		v, err := b.prompt.Input("Value (number)", "", validateNumber)
		if err != nil {
			return nil, err
		}
		n, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		base.Value = n
	case ShapeBoolean:
		v, err := b.prompt.Select("Value", []string{"true", "false"})
		if err != nil {
			return nil, err
		}
		base.Value = v == "true"
	case ShapeSelect:
		v, err := b.selectOption(prop)
		if err != nil {
			return nil, err
		}
		base.Value = v
	case ShapeMultiSelect:
		values, err := b.multiSelectOptions(prop)
		if err != nil {
			return nil, err
		}
		if len(values) == 1 {
			base.Value = values[0]
			return base, nil
		}
		group := Compound{Operator: And}
		for _, v := range values {
			p := base
			p.Value = v
			group = group.With(p)
		}
		return group, nil
	case ShapeDate:
		now := b.now()
		v, err := b.prompt.Input("Date (YYYY-MM-DD, ISO 8601 or today)", now.Format("2006-01-02"), func(s string) error {
			_, err := dates.NormalizeFilterDate(s, now)
			return err
		})
		if err != nil {
			return nil, err
		}
		normalized, err := dates.NormalizeFilterDate(v, now)
		if err != nil {
			return nil, err
		}
		base.Value = normalized
	case ShapeNone, ShapeUnsupported:
		return nil, fmt.Errorf("property %q of type %s takes no value for %s", prop.Name, prop.Type, field)
	}
	return base, nil
}

func (b *Builder) selectOption(prop Property) (string, error) {
	if len(prop.Options) == 0 {
		return b.prompt.Input("Value", "", requireText)
	}
	return b.prompt.Select("Value", prop.Options)
}

func (b *Builder) multiSelectOptions(prop Property) ([]string, error) {
	if len(prop.Options) == 0 {
		v, err := b.prompt.Input("Values (comma separated)", "", requireText)
		if err != nil {
			return nil, err
		}
		var values []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		return values, nil
	}
	values, err := b.prompt.MultiSelect("Values", prop.Options)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("select at least one value")
	}
	return values, nil
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	return nil
}

// OfferSave prints expr and asks whether to save it. It returns the written
// path, or "" when nothing was saved. Write failures are reported on the
// builder's output and are not returned; only prompt errors are.
func (b *Builder) OfferSave(expr Expression) (string, error) {
	if expr == nil {
		return "", nil
	}
	data, err := Marshal(expr)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(b.out, "\nFilter:\n%s\n\n", data)

	save, err := b.prompt.Confirm("Save this filter to a file?", false)
	if err != nil || !save {
		return "", err
	}
	now := b.now()
	name, err := b.prompt.Input("Filename", DefaultFileName(now), nil)
	if err != nil {
		return "", err
	}
	path := FileName(name, now)
	if err := Save(path, expr); err != nil {
		b.log.WithError(err).WithField("path", path).Warn("save filter failed")
		fmt.Fprintf(b.out, "Failed to save filter to %s: %v\n", path, err)
		return "", nil
	}
	fmt.Fprintf(b.out, "Saved to %s\n", path)
	return path, nil
}
