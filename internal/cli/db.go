package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/commands"
	"github.com/aidanlsb/notion-cli/internal/filter"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

type queryOptions struct {
	DatabaseID    string
	RawFilter     string
	FileFilter    string
	PageSize      int
	PageAll       bool
	SortProperty  string
	SortDirection string
	StartCursor   string
	Raw           bool
	Table         ui.TableOptions
}

var dbCmd = commands.GenerateCobraCommand("db", nil)

var dbQueryCmd = commands.GenerateCobraCommand("db query", func(cmd *cobra.Command, args []string) error {
	opts, err := queryOptionsFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if opts.RawFilter != "" || opts.FileFilter != "" {
			return errorf(ErrMissingArgument, "Pass a database ID, or drop --raw-filter/--file-filter to build one interactively",
				"--raw-filter and --file-filter need a database ID")
		}
		if !isInteractive() {
			return errorf(ErrNotInteractive, "Pass a database ID, e.g. notion-cli db query <database_id>",
				"interactive mode needs a terminal on stdin")
		}
	}
	api, err := apiClient()
	if err != nil {
		return err
	}
	s := streamsOf(cmd)

	if len(args) == 0 {
		expr, id, err := runInteractiveQuery(cmd.Context(), api, newPrompter(), s)
		if err != nil {
			return err
		}
		opts.DatabaseID = id
		if expr != nil {
			data, err := json.Marshal(expr)
			if err != nil {
				return newError(ErrInternal, err, "")
			}
			opts.RawFilter = string(data)
		}
	} else {
		opts.DatabaseID = args[0]
	}
	return runQuery(cmd.Context(), api, opts, s)
})

var dbRetrieveCmd = commands.GenerateCobraCommand("db retrieve", func(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	table, err := tableOptions(cmd)
	if err != nil {
		return err
	}
	api, err := apiClient()
	if err != nil {
		return err
	}
	return runRetrieve(cmd.Context(), api, args[0], raw, table, streamsOf(cmd))
})

func queryOptionsFromFlags(cmd *cobra.Command) (queryOptions, error) {
	var opts queryOptions
	opts.RawFilter, _ = cmd.Flags().GetString("raw-filter")
	opts.FileFilter, _ = cmd.Flags().GetString("file-filter")
	opts.PageSize, _ = cmd.Flags().GetInt("page-size")
	opts.PageAll, _ = cmd.Flags().GetBool("page-all")
	opts.SortProperty, _ = cmd.Flags().GetString("sort-property")
	opts.SortDirection, _ = cmd.Flags().GetString("sort-direction")
	opts.StartCursor, _ = cmd.Flags().GetString("start-cursor")
	opts.Raw, _ = cmd.Flags().GetBool("raw")

	table, err := tableOptions(cmd)
	opts.Table = table
	return opts, err
}

// buildQueryRequest validates query flags and builds the request. Filters
// from --raw-filter or --file-filter are checked against the filter grammar
// before they are sent.
func buildQueryRequest(opts queryOptions) (notion.QueryDatabaseRequest, error) {
	var req notion.QueryDatabaseRequest

	id, err := normalizeID("database ID", opts.DatabaseID)
	if err != nil {
		return req, err
	}
	if err := checkPageSize(opts.PageSize); err != nil {
		return req, err
	}
	direction, err := parseDirection(opts.SortDirection)
	if err != nil {
		return req, err
	}
	if opts.RawFilter != "" && opts.FileFilter != "" {
		return req, errorf(ErrInvalidInput, "", "--raw-filter and --file-filter cannot be used together")
	}

	req.DatabaseID = id
	req.PageSize = opts.PageSize
	req.StartCursor = opts.StartCursor

	var expr filter.Expression
	switch {
	case opts.RawFilter != "":
		expr, err = filter.Parse([]byte(opts.RawFilter))
		if err != nil {
			return req, newError(ErrInvalidInput, fmt.Errorf("invalid --raw-filter: %w", err), "")
		}
	case opts.FileFilter != "":
		expr, err = loadFilterFile(opts.FileFilter)
		if err != nil {
			return req, err
		}
	}
	if expr != nil {
		data, err := json.Marshal(expr)
		if err != nil {
			return req, newError(ErrInternal, err, "")
		}
		req.Filter = data
	}

	if prop := strings.TrimSpace(opts.SortProperty); prop != "" {
		req.Sorts = []notion.Sort{{Property: prop, Direction: direction}}
	}
	return req, nil
}

func loadFilterFile(path string) (filter.Expression, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, newError(ErrFileNotFound, fmt.Errorf("filter file: %w", err), "")
	}
	expr, err := filter.Load(path)
	if err != nil {
		return nil, newError(ErrFileReadError, err, "")
	}
	return expr, nil
}

// runQuery fetches one page of results, or every page with --page-all.
// Raw output is the API response for a single page and the array of all
// results otherwise.
func runQuery(ctx context.Context, api notion.API, opts queryOptions, s streams) error {
	req, err := buildQueryRequest(opts)
	if err != nil {
		return err
	}
	logger.WithField("database_id", req.DatabaseID).WithField("filter", string(req.Filter)).Info("querying database")

	stop := s.spin("Querying database...")
	var (
		pages []notion.Object
		resp  *notion.ListResponse
	)
	if opts.PageAll {
		pages, err = notion.QueryAllPages(ctx, api, req)
	} else {
		resp, err = api.QueryDatabase(ctx, &req)
		if resp != nil {
			pages = resp.Results
		}
	}
	stop()
	if err != nil {
		return apiError(err)
	}

	if opts.Raw {
		if resp != nil {
			return printRaw(s.out, resp)
		}
		if pages == nil {
			pages = []notion.Object{}
		}
		return printRaw(s.out, pages)
	}
	return ui.Render(s.out, pages, objectColumns, opts.Table)
}

func runRetrieve(ctx context.Context, api notion.API, arg string, raw bool, table ui.TableOptions, s streams) error {
	id, err := normalizeID("database ID", arg)
	if err != nil {
		return err
	}

	stop := s.spin("Retrieving database...")
	db, err := api.RetrieveDatabase(ctx, id)
	stop()
	if err != nil {
		return apiError(err)
	}

	if raw {
		return printRaw(s.out, db)
	}
	if table.Output == ui.FormatTable {
		fmt.Fprintln(s.err, ui.Header(notion.DatabaseTitle(db.Object)))
	}
	return ui.Render(s.out, db.Properties, propertyColumns, table)
}

func init() {
	ui.AddTableFlags(dbQueryCmd.Flags())
	ui.AddTableFlags(dbRetrieveCmd.Flags())
	dbCmd.AddCommand(dbQueryCmd, dbRetrieveCmd)
	rootCmd.AddCommand(dbCmd)
}
