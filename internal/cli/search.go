package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/commands"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

type searchOptions struct {
	Query       string
	Direction   string
	Property    string
	StartCursor string
	PageSize    int
	Raw         bool
	Table       ui.TableOptions
}

var searchCmd = commands.GenerateCobraCommand("search", func(cmd *cobra.Command, args []string) error {
	opts, err := searchOptionsFromFlags(cmd)
	if err != nil {
		return err
	}
	api, err := apiClient()
	if err != nil {
		return err
	}
	return runSearch(cmd.Context(), api, opts, streamsOf(cmd))
})

func searchOptionsFromFlags(cmd *cobra.Command) (searchOptions, error) {
	var opts searchOptions
	opts.Query, _ = cmd.Flags().GetString("query")
	opts.Direction, _ = cmd.Flags().GetString("sort-direction")
	opts.Property, _ = cmd.Flags().GetString("property")
	opts.StartCursor, _ = cmd.Flags().GetString("start-cursor")
	opts.PageSize, _ = cmd.Flags().GetInt("page-size")
	opts.Raw, _ = cmd.Flags().GetBool("raw")

	table, err := tableOptions(cmd)
	opts.Table = table
	return opts, err
}

// buildSearchRequest translates search flags into a request. A --property
// other than database or page searches every object kind.
func buildSearchRequest(opts searchOptions) (*notion.SearchRequest, error) {
	direction, err := parseDirection(opts.Direction)
	if err != nil {
		return nil, err
	}
	if err := checkPageSize(opts.PageSize); err != nil {
		return nil, err
	}

	req := &notion.SearchRequest{
		Query:       opts.Query,
		Sort:        &notion.SearchSort{Direction: direction, Timestamp: "last_edited_time"},
		StartCursor: opts.StartCursor,
		PageSize:    opts.PageSize,
	}
	switch opts.Property {
	case notion.ObjectDatabase, notion.ObjectPage:
		req.Filter = &notion.SearchFilter{Property: "object", Value: opts.Property}
	}
	return req, nil
}

func runSearch(ctx context.Context, api notion.API, opts searchOptions, s streams) error {
	req, err := buildSearchRequest(opts)
	if err != nil {
		return err
	}

	stop := s.spin("Searching...")
	resp, err := api.Search(ctx, req)
	stop()
	if err != nil {
		return apiError(err)
	}

	if opts.Raw {
		return printRaw(s.out, resp)
	}
	return ui.Render(s.out, resp.Results, objectColumns, opts.Table)
}

func init() {
	ui.AddTableFlags(searchCmd.Flags())
	rootCmd.AddCommand(searchCmd)
}
