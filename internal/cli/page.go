package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/commands"
	"github.com/aidanlsb/notion-cli/internal/markdown"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

// defaultTitleProperty is assumed when a database schema has no title column.
const defaultTitleProperty = "Name"

type pageCreateOptions struct {
	ParentPageID string
	ParentDBID   string
	FilePath     string
	Title        string
	Raw          bool
	Table        ui.TableOptions
}

var pageCmd = commands.GenerateCobraCommand("page", nil)

var pageCreateCmd = commands.GenerateCobraCommand("page create", func(cmd *cobra.Command, args []string) error {
	var opts pageCreateOptions
	opts.ParentPageID, _ = cmd.Flags().GetString("parent-page-id")
	opts.ParentDBID, _ = cmd.Flags().GetString("parent-db-id")
	opts.FilePath, _ = cmd.Flags().GetString("file-path")
	opts.Title, _ = cmd.Flags().GetString("title")
	opts.Raw, _ = cmd.Flags().GetBool("raw")
	table, err := tableOptions(cmd)
	if err != nil {
		return err
	}
	opts.Table = table

	api, err := apiClient()
	if err != nil {
		return err
	}
	return runPageCreate(cmd.Context(), api, opts, streamsOf(cmd))
})

// buildCreatePageRequest resolves the parent, reads the markdown body and
// picks the title property. Database parents need a schema lookup because
// the title column can have any name.
func buildCreatePageRequest(ctx context.Context, api notion.API, opts pageCreateOptions) (*notion.CreatePageRequest, error) {
	switch {
	case opts.ParentPageID == "" && opts.ParentDBID == "":
		return nil, errorf(ErrMissingArgument, "Pass --parent-page-id or --parent-db-id", "a parent page or database is required")
	case opts.ParentPageID != "" && opts.ParentDBID != "":
		return nil, errorf(ErrInvalidInput, "", "--parent-page-id and --parent-db-id cannot be used together")
	}

	req := &notion.CreatePageRequest{Properties: map[string]any{}}
	if opts.ParentPageID != "" {
		id, err := normalizeID("parent page ID", opts.ParentPageID)
		if err != nil {
			return nil, err
		}
		req.Parent = notion.Parent{PageID: id}
	} else {
		id, err := normalizeID("parent database ID", opts.ParentDBID)
		if err != nil {
			return nil, err
		}
		req.Parent = notion.Parent{DatabaseID: id}
	}

	title := strings.TrimSpace(opts.Title)
	if opts.FilePath != "" {
		blocks, err := markdown.ReadFile(opts.FilePath)
		if err != nil {
			code := ErrFileReadError
			if errors.Is(err, fs.ErrNotExist) {
				code = ErrFileNotFound
			}
			return nil, newError(code, err, "")
		}
		req.Children = blocks
		if title == "" {
			title = titleFromPath(opts.FilePath)
		}
	}
	if title == "" {
		return req, nil
	}

	key := "title"
	if req.Parent.DatabaseID != "" {
		db, err := api.RetrieveDatabase(ctx, req.Parent.DatabaseID)
		if err != nil {
			return nil, apiError(err)
		}
		key = db.TitlePropertyName()
		if key == "" {
			key = defaultTitleProperty
		}
	}
	req.Properties[key] = notion.TitleProperty(title)
	return req, nil
}

// titleFromPath is the file's base name without its extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runPageCreate(ctx context.Context, api notion.API, opts pageCreateOptions, s streams) error {
	req, err := buildCreatePageRequest(ctx, api, opts)
	if err != nil {
		return err
	}
	logger.WithField("blocks", len(req.Children)).WithField("parent", req.Parent.String()).Info("creating page")

	stop := s.spin("Creating page...")
	page, err := api.CreatePage(ctx, req)
	stop()
	if err != nil && page == nil {
		return apiError(err)
	}

	var outErr error
	if opts.Raw {
		outErr = printRaw(s.out, page)
	} else {
		outErr = ui.Render(s.out, []notion.Object{*page}, objectColumns, opts.Table)
	}
	if err != nil {
		// The page exists but some of its blocks were not appended.
		return apiError(err)
	}
	return outErr
}

func init() {
	ui.AddTableFlags(pageCreateCmd.Flags())
	pageCmd.AddCommand(pageCreateCmd)
	rootCmd.AddCommand(pageCmd)
}
