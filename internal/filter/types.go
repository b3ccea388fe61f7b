// Package filter models database query filters and builds them interactively.
package filter

// PropertyType is a database property type tag as reported by the remote schema.
type PropertyType string

const (
	Title          PropertyType = "title"
	RichText       PropertyType = "rich_text"
	URL            PropertyType = "url"
	Email          PropertyType = "email"
	PhoneNumber    PropertyType = "phone_number"
	Number         PropertyType = "number"
	UniqueID       PropertyType = "unique_id"
	Checkbox       PropertyType = "checkbox"
	Select         PropertyType = "select"
	Status         PropertyType = "status"
	MultiSelect    PropertyType = "multi_select"
	Date           PropertyType = "date"
	CreatedTime    PropertyType = "created_time"
	LastEditedTime PropertyType = "last_edited_time"
	People         PropertyType = "people"
	CreatedBy      PropertyType = "created_by"
	LastEditedBy   PropertyType = "last_edited_by"
	Relation       PropertyType = "relation"
	Files          PropertyType = "files"
)

// ValueShape is the kind of value a predicate on a property type takes.
type ValueShape int

const (
	ShapeUnsupported ValueShape = iota
	ShapeText
	ShapeNumber
	ShapeBoolean
	ShapeSelect
	ShapeMultiSelect
	ShapeDate
	ShapeNone
)

func (s ValueShape) String() string {
	switch s {
	case ShapeText:
		return "text"
	case ShapeNumber:
		return "number"
	case ShapeBoolean:
		return "boolean"
	case ShapeSelect:
		return "select"
	case ShapeMultiSelect:
		return "multi_select"
	case ShapeDate:
		return "date"
	case ShapeNone:
		return "none"
	default:
		return "unsupported"
	}
}

// Comparison fields.
const (
	FieldEquals               = "equals"
	FieldDoesNotEqual         = "does_not_equal"
	FieldContains             = "contains"
	FieldDoesNotContain       = "does_not_contain"
	FieldStartsWith           = "starts_with"
	FieldEndsWith             = "ends_with"
	FieldIsEmpty              = "is_empty"
	FieldIsNotEmpty           = "is_not_empty"
	FieldGreaterThan          = "greater_than"
	FieldLessThan             = "less_than"
	FieldGreaterThanOrEqualTo = "greater_than_or_equal_to"
	FieldLessThanOrEqualTo    = "less_than_or_equal_to"
	FieldBefore               = "before"
	FieldAfter                = "after"
	FieldOnOrBefore           = "on_or_before"
	FieldOnOrAfter            = "on_or_after"
	FieldPastWeek             = "past_week"
	FieldPastMonth            = "past_month"
	FieldPastYear             = "past_year"
	FieldThisWeek             = "this_week"
	FieldNextWeek             = "next_week"
	FieldNextMonth            = "next_month"
	FieldNextYear             = "next_year"
)

var (
	textFields = []string{
		FieldEquals, FieldDoesNotEqual, FieldContains, FieldDoesNotContain,
		FieldStartsWith, FieldEndsWith, FieldIsEmpty, FieldIsNotEmpty,
	}
	numberFields = []string{
		FieldEquals, FieldDoesNotEqual, FieldGreaterThan, FieldLessThan,
		FieldGreaterThanOrEqualTo, FieldLessThanOrEqualTo, FieldIsEmpty, FieldIsNotEmpty,
	}
	uniqueIDFields = []string{
		FieldEquals, FieldDoesNotEqual, FieldGreaterThan, FieldLessThan,
		FieldGreaterThanOrEqualTo, FieldLessThanOrEqualTo,
	}
	checkboxFields    = []string{FieldEquals}
	selectFields      = []string{FieldEquals, FieldDoesNotEqual, FieldIsEmpty, FieldIsNotEmpty}
	multiSelectFields = []string{FieldContains, FieldDoesNotContain, FieldIsEmpty, FieldIsNotEmpty}
	dateFields        = []string{
		FieldEquals, FieldBefore, FieldAfter, FieldOnOrBefore, FieldOnOrAfter,
		FieldIsEmpty, FieldIsNotEmpty,
		FieldPastWeek, FieldPastMonth, FieldPastYear,
		FieldThisWeek, FieldNextWeek, FieldNextMonth, FieldNextYear,
	}
	referenceFields = []string{FieldContains, FieldDoesNotContain, FieldIsEmpty, FieldIsNotEmpty}
	emptinessFields = []string{FieldIsEmpty, FieldIsNotEmpty}
)

// ShapeOf maps a property type to the value shape its predicates take.
func ShapeOf(t PropertyType) ValueShape {
	switch t {
	case Title, RichText, URL, Email, PhoneNumber:
		return ShapeText
	case Number, UniqueID:
		return ShapeNumber
	case Checkbox:
		return ShapeBoolean
	case Select, Status:
		return ShapeSelect
	case MultiSelect:
		return ShapeMultiSelect
	case Date, CreatedTime, LastEditedTime:
		return ShapeDate
	case People, CreatedBy, LastEditedBy, Relation:
		return ShapeText
	case Files:
		return ShapeNone
	default:
		return ShapeUnsupported
	}
}

// FieldsForType returns the comparison fields valid for t, or nil when t
// cannot be filtered. The returned slice is a copy.
func FieldsForType(t PropertyType) []string {
	var fields []string
	switch t {
	case Title, RichText, URL, Email, PhoneNumber:
		fields = textFields
	case Number:
		fields = numberFields
	case UniqueID:
		fields = uniqueIDFields
	case Checkbox:
		fields = checkboxFields
	case Select, Status:
		fields = selectFields
	case MultiSelect:
		fields = multiSelectFields
	case Date, CreatedTime, LastEditedTime:
		fields = dateFields
	case People, CreatedBy, LastEditedBy, Relation:
		fields = referenceFields
	case Files:
		fields = emptinessFields
	default:
		return nil
	}
	return append([]string(nil), fields...)
}

// IsEmptinessField reports whether field tests for presence, taking the
// constant value true.
func IsEmptinessField(field string) bool {
	return field == FieldIsEmpty || field == FieldIsNotEmpty
}

// IsRelativeDateField reports whether field is a relative date range,
// taking an empty object as its value.
func IsRelativeDateField(field string) bool {
	switch field {
	case FieldPastWeek, FieldPastMonth, FieldPastYear,
		FieldThisWeek, FieldNextWeek, FieldNextMonth, FieldNextYear:
		return true
	}
	return false
}

// NeedsValue reports whether a predicate on field requires a user-supplied value.
func NeedsValue(field string) bool {
	return !IsEmptinessField(field) && !IsRelativeDateField(field)
}

// Property describes one column of a database schema.
type Property struct {
	Name    string
	Type    PropertyType
	Options []string
}

// Label renders the property as shown in the picker: "name <type>".
func (p Property) Label() string {
	return p.Name + " <" + string(p.Type) + ">"
}
