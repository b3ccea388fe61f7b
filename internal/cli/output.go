package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

// objectColumns are shared by every command that lists pages or databases.
var objectColumns = []ui.Column[notion.Object]{
	{Name: "title", Get: notion.ObjectTitle},
	{Name: "object", Get: func(o notion.Object) string { return o.Object }},
	{Name: "id", Get: func(o notion.Object) string { return o.ID }},
	{Name: "url", Get: func(o notion.Object) string { return o.URL }},
	{Name: "parent", Extended: true, Get: func(o notion.Object) string { return o.Parent.String() }},
	{Name: "created_time", Extended: true, Get: func(o notion.Object) string { return o.CreatedTime }},
	{Name: "last_edited_time", Extended: true, Get: func(o notion.Object) string { return o.LastEditedTime }},
}

var blockColumns = []ui.Column[notion.Object]{
	{Name: "object", Get: func(o notion.Object) string { return o.Object }},
	{Name: "id", Get: func(o notion.Object) string { return o.ID }},
	{Name: "type", Get: func(o notion.Object) string { return o.Type }},
	{Name: "parent", Get: func(o notion.Object) string { return o.Parent.String() }},
	{Name: "content", Get: notion.BlockPlainText},
	{Name: "has_children", Extended: true, Get: func(o notion.Object) string { return fmt.Sprint(o.HasChildren) }},
}

var propertyColumns = []ui.Column[notion.DatabaseProperty]{
	{Name: "name", Get: func(p notion.DatabaseProperty) string { return p.Name }},
	{Name: "type", Get: func(p notion.DatabaseProperty) string { return p.Type }},
	{Name: "id", Get: func(p notion.DatabaseProperty) string { return p.ID }},
	{Name: "options", Extended: true, Get: func(p notion.DatabaseProperty) string { return strings.Join(p.Options, ", ") }},
}

// printRaw writes v as indented JSON. API objects marshal to their original
// payload, so the remote response passes through unchanged.
func printRaw(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("indent response: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// tableOptions reads the shared table flags, falling back to the configured
// output format.
func tableOptions(cmd *cobra.Command) (ui.TableOptions, error) {
	opts, err := ui.TableOptionsFromFlags(cmd.Flags(), cfg.Output)
	if err != nil {
		return opts, newError(ErrInvalidInput, err, "")
	}
	return opts, nil
}

// streams are the output and error writers of one invocation.
type streams struct {
	out io.Writer
	err io.Writer
}

func streamsOf(cmd *cobra.Command) streams {
	return streams{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

// spin starts a spinner on the error stream and returns its stop function.
func (s streams) spin(message string) func() {
	sp := ui.NewSpinner(s.err, message)
	sp.Start()
	return sp.Stop
}
