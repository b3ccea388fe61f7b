package cli

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/commands"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

type blockAppendOptions struct {
	BlockID  string
	Children string
	After    string
	Raw      bool
	Table    ui.TableOptions
}

var blockCmd = commands.GenerateCobraCommand("block", nil)

var blockAppendCmd = commands.GenerateCobraCommand("block append", func(cmd *cobra.Command, args []string) error {
	opts := blockAppendOptions{BlockID: args[0], Children: args[1]}
	if len(args) > 2 {
		opts.After = args[2]
	}
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
	return runBlockAppend(cmd.Context(), api, opts, streamsOf(cmd))
})

func buildAppendRequest(opts blockAppendOptions) (*notion.AppendBlockChildrenRequest, error) {
	id, err := normalizeID("block ID", opts.BlockID)
	if err != nil {
		return nil, err
	}
	children := bytes.TrimSpace([]byte(opts.Children))
	var probe []json.RawMessage
	if err := json.Unmarshal(children, &probe); err != nil {
		return nil, errorf(ErrInvalidInput, `Pass a JSON array such as '[{"object":"block","type":"divider","divider":{}}]'`,
			"children must be a JSON array of blocks: %v", err)
	}
	if len(probe) == 0 {
		return nil, errorf(ErrInvalidInput, "", "children must contain at least one block")
	}
	if len(probe) > notion.MaxChildrenPerRequest {
		return nil, errorf(ErrInvalidInput, "", "at most %d children can be appended at once, got %d", notion.MaxChildrenPerRequest, len(probe))
	}

	req := &notion.AppendBlockChildrenRequest{BlockID: id, Children: children}
	if opts.After != "" {
		after, err := normalizeID("after block ID", opts.After)
		if err != nil {
			return nil, err
		}
		req.After = after
	}
	return req, nil
}

func runBlockAppend(ctx context.Context, api notion.API, opts blockAppendOptions, s streams) error {
	req, err := buildAppendRequest(opts)
	if err != nil {
		return err
	}

	stop := s.spin("Appending blocks...")
	resp, err := api.AppendBlockChildren(ctx, req)
	stop()
	if err != nil {
		return apiError(err)
	}

	if opts.Raw {
		return printRaw(s.out, resp)
	}
	return ui.Render(s.out, resp.Results, blockColumns, opts.Table)
}

func init() {
	ui.AddTableFlags(blockAppendCmd.Flags())
	blockCmd.AddCommand(blockAppendCmd)
	rootCmd.AddCommand(blockCmd)
}
