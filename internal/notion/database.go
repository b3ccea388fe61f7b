package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DatabaseProperty is one column of a database schema.
type DatabaseProperty struct {
	Name    string
	ID      string
	Type    string
	Options []string
}

// Database is a retrieved database. Properties keep the order in which the
// API listed them.
type Database struct {
	Object
	Properties []DatabaseProperty
}

// Property returns the schema entry with the given name.
func (d *Database) Property(name string) (DatabaseProperty, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return DatabaseProperty{}, false
}

// TitlePropertyName returns the name of the database's title column.
func (d *Database) TitlePropertyName() string {
	for _, p := range d.Properties {
		if p.Type == "title" {
			return p.Name
		}
	}
	return ""
}

// MarshalJSON emits the original payload.
func (d Database) MarshalJSON() ([]byte, error) {
	return d.Object.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Database) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	props := fields["properties"]
	// Object.Properties models page values, not schema entries.
	delete(fields, "properties")
	stripped, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var obj objectAlias
	if err := json.Unmarshal(stripped, &obj); err != nil {
		return err
	}
	d.Object = Object(obj)
	d.Object.raw = append(json.RawMessage(nil), data...)

	d.Properties, err = decodeSchema(props)
	return err
}

type optionList struct {
	Options []struct {
		Name string `json:"name"`
	} `json:"options"`
}

type schemaEntry struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Select      *optionList `json:"select"`
	MultiSelect *optionList `json:"multi_select"`
	Status      *optionList `json:"status"`
}

func (e schemaEntry) options() []string {
	var list *optionList
	switch {
	case e.Select != nil:
		list = e.Select
	case e.MultiSelect != nil:
		list = e.MultiSelect
	case e.Status != nil:
		list = e.Status
	default:
		return nil
	}
	names := make([]string, 0, len(list.Options))
	for _, o := range list.Options {
		names = append(names, o.Name)
	}
	return names
}

// decodeSchema walks the properties object token by token so the column
// order matches the response.
func decodeSchema(data json.RawMessage) ([]DatabaseProperty, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode properties: expected object")
	}
	var props []DatabaseProperty
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode properties: %w", err)
		}
		key, _ := tok.(string)
		var entry schemaEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decode property %q: %w", key, err)
		}
		name := entry.Name
		if name == "" {
			name = key
		}
		props = append(props, DatabaseProperty{
			Name:    name,
			ID:      entry.ID,
			Type:    entry.Type,
			Options: entry.options(),
		})
	}
	return props, nil
}
